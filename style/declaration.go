package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/dsl"
)

// ErrUnsupportedProperty 表示布局引擎不关心的属性，调用方通常可以静默忽略。
var ErrUnsupportedProperty = errors.New("不支持的属性")

// CompileDeclarations 按书写顺序把声明叠加为一个样式补丁。
// 无法解析的声明被丢弃并记录日志，不影响同一块中的其他声明。
func CompileDeclarations(decls []*dsl.Declaration, logger *zap.Logger) Style {
	if logger == nil {
		logger = zap.NewNop()
	}
	var out Style
	for _, decl := range decls {
		next, err := ApplyDeclaration(out, decl)
		if err != nil {
			fields := []zap.Field{
				zap.String("property", decl.Property),
				zap.String("position", decl.Pos.String()),
				zap.Error(err),
			}
			if errors.Is(err, ErrUnsupportedProperty) {
				logger.Debug("忽略声明", fields...)
			} else {
				logger.Warn("丢弃无效声明", fields...)
			}
			continue
		}
		out = next
	}
	return out
}

// ApplyDeclaration 返回在 s 上应用单条声明后的样式，s 本身不变。
func ApplyDeclaration(s Style, decl *dsl.Declaration) (Style, error) {
	if decl == nil {
		return s, nil
	}
	prop := strings.ToLower(decl.Property)
	values := decl.Values
	var err error
	switch prop {
	case "display":
		s.Display, err = keyword(values, parseDisplay)
	case "flex-direction":
		s.FlexDirection, err = keyword(values, parseFlexDirection)
	case "flex-wrap":
		s.FlexWrap, err = keyword(values, parseFlexWrap)
	case "justify-content":
		s.JustifyContent, err = keyword(values, parseJustifyContent)
	case "align-items":
		s.AlignItems, err = keyword(values, parseAlignItems)
	case "align-self":
		s.AlignSelf, err = keyword(values, parseAlignSelf)
	case "order":
		var n float64
		n, err = singleNumber(values)
		if err == nil && n != float64(int(n)) {
			err = fmt.Errorf("order 必须为整数: %v", n)
		}
		if err == nil {
			s.Order = ptr(int(n))
		}
	case "flex-grow", "flex-shrink":
		var n float64
		n, err = singleNumber(values)
		if err == nil && n < 0 {
			err = fmt.Errorf("%s 不能为负数: %v", prop, n)
		}
		if err == nil {
			if prop == "flex-grow" {
				s.FlexGrow = ptr(n)
			} else {
				s.FlexShrink = ptr(n)
			}
		}
	case "flex-basis":
		s.FlexBasis, err = singleLength(values)
	case "width":
		s.Width, err = singleLength(values)
	case "height":
		s.Height, err = singleLength(values)
	case "row-gap":
		s.RowGap, err = singleLength(values)
	case "column-gap":
		s.ColumnGap, err = singleLength(values)
	case "gap":
		s, err = applyGap(s, values)
	case "flex":
		s, err = applyFlex(s, values)
	case "flex-flow":
		s, err = applyFlexFlow(s, values)
	case "padding":
		s.Padding, err = edges(values, false)
	case "padding-top", "padding-right", "padding-bottom", "padding-left":
		var l *Length
		l, err = singleLength(values)
		if err == nil {
			s.Padding = setSide(s.Padding, strings.TrimPrefix(prop, "padding-"), l)
		}
	case "margin":
		s.Margin, err = edges(values, true)
	case "margin-top", "margin-right", "margin-bottom", "margin-left":
		var l *Length
		l, err = singleLength(values)
		if err == nil {
			s.Margin = setSide(s.Margin, strings.TrimPrefix(prop, "margin-"), l)
		}
	case "border":
		s.BorderWidth, err = borderWidth(values, true)
	case "border-width":
		s.BorderWidth, err = borderWidth(values, false)
	case "background", "background-color":
		s.Background, err = backgroundColor(values)
	default:
		return s, fmt.Errorf("%w: %s", ErrUnsupportedProperty, decl.Property)
	}
	if err != nil {
		return s, fmt.Errorf("属性 %s 的值无效: %w", decl.Property, err)
	}
	return s, nil
}

func keyword[T any](values []*dsl.Term, parse func(string) (T, error)) (*T, error) {
	if len(values) != 1 || values[0].Ident == nil {
		return nil, fmt.Errorf("需要一个关键字")
	}
	v, err := parse(strings.ToLower(*values[0].Ident))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func singleNumber(values []*dsl.Term) (float64, error) {
	if len(values) != 1 {
		return 0, fmt.Errorf("需要一个数值")
	}
	n, ok := number(values[0])
	if !ok {
		return 0, fmt.Errorf("需要无单位数值，实际为 %q", values[0].Text())
	}
	return n, nil
}

func singleLength(values []*dsl.Term) (*Length, error) {
	if len(values) != 1 {
		return nil, fmt.Errorf("需要一个长度")
	}
	l, err := length(values[0])
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// number 识别无单位数值。
func number(t *dsl.Term) (float64, bool) {
	if t == nil || t.Number == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(*t.Number, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func length(t *dsl.Term) (Length, error) {
	switch {
	case t == nil:
		return Length{}, fmt.Errorf("缺少长度")
	case t.Number != nil:
		return ParseLength(*t.Number)
	case t.Ident != nil:
		switch strings.ToLower(*t.Ident) {
		case "auto", "content", "max-content", "min-content", "fit-content":
			return Auto(), nil
		}
	}
	return Length{}, fmt.Errorf("无法解析长度 %q", t.Text())
}

func applyGap(s Style, values []*dsl.Term) (Style, error) {
	switch len(values) {
	case 1:
		l, err := length(values[0])
		if err != nil {
			return s, err
		}
		s.Gap = &l
		return s, nil
	case 2:
		row, err := length(values[0])
		if err != nil {
			return s, err
		}
		col, err := length(values[1])
		if err != nil {
			return s, err
		}
		s.Gap = nil
		s.RowGap, s.ColumnGap = &row, &col
		return s, nil
	}
	return s, fmt.Errorf("gap 需要 1 或 2 个值")
}

// applyFlex 展开 flex 简写：
// none => 0 0 auto，auto => 1 1 auto，initial => 0 1 auto，
// 单个数值 n => n 1 0px，单个长度 l => 1 1 l。
func applyFlex(s Style, values []*dsl.Term) (Style, error) {
	set := func(grow, shrink float64, basis Length) (Style, error) {
		s.FlexGrow, s.FlexShrink, s.FlexBasis = ptr(grow), ptr(shrink), ptr(basis)
		return s, nil
	}
	if len(values) == 1 && values[0].Ident != nil {
		switch strings.ToLower(*values[0].Ident) {
		case "none":
			return set(0, 0, Auto())
		case "auto":
			return set(1, 1, Auto())
		case "initial":
			return set(0, 1, Auto())
		}
	}
	if len(values) == 0 || len(values) > 3 {
		return s, fmt.Errorf("flex 需要 1 到 3 个值")
	}

	var nums []float64
	var basis *Length
	for _, v := range values {
		if n, ok := number(v); ok && basis == nil && len(nums) < 2 {
			nums = append(nums, n)
			continue
		}
		if n, ok := number(v); ok && basis == nil && n == 0 {
			basis = ptr(Px(0))
			continue
		}
		l, err := length(v)
		if err != nil || basis != nil {
			return s, fmt.Errorf("flex 值无效 %q", v.Text())
		}
		basis = &l
	}
	for _, n := range nums {
		if n < 0 {
			return s, fmt.Errorf("flex 系数不能为负数: %v", n)
		}
	}

	grow, shrink := 1.0, 1.0
	if len(nums) > 0 {
		grow = nums[0]
	}
	if len(nums) > 1 {
		shrink = nums[1]
	}
	if basis == nil {
		basis = ptr(Px(0))
	}
	return set(grow, shrink, *basis)
}

func applyFlexFlow(s Style, values []*dsl.Term) (Style, error) {
	if len(values) == 0 || len(values) > 2 {
		return s, fmt.Errorf("flex-flow 需要 1 或 2 个值")
	}
	for _, v := range values {
		if v.Ident == nil {
			return s, fmt.Errorf("flex-flow 值无效 %q", v.Text())
		}
		kw := strings.ToLower(*v.Ident)
		if d, err := parseFlexDirection(kw); err == nil {
			s.FlexDirection = ptr(d)
			continue
		}
		w, err := parseFlexWrap(kw)
		if err != nil {
			return s, fmt.Errorf("flex-flow 值无效 %q", kw)
		}
		s.FlexWrap = ptr(w)
	}
	return s, nil
}

// edges 按 CSS 顺序展开 1~4 个值：上 右 下 左。
func edges(values []*dsl.Term, allowAuto bool) (Edges, error) {
	if len(values) == 0 || len(values) > 4 {
		return Edges{}, fmt.Errorf("需要 1 到 4 个长度")
	}
	ls := make([]Length, 0, len(values))
	for _, v := range values {
		l, err := length(v)
		if err != nil {
			return Edges{}, err
		}
		if l.IsAuto() && !allowAuto {
			return Edges{}, fmt.Errorf("不允许使用 auto")
		}
		ls = append(ls, l)
	}
	var top, right, bottom, left Length
	switch len(ls) {
	case 1:
		top, right, bottom, left = ls[0], ls[0], ls[0], ls[0]
	case 2:
		top, right, bottom, left = ls[0], ls[1], ls[0], ls[1]
	case 3:
		top, right, bottom, left = ls[0], ls[1], ls[2], ls[1]
	default:
		top, right, bottom, left = ls[0], ls[1], ls[2], ls[3]
	}
	return Edges{Top: &top, Right: &right, Bottom: &bottom, Left: &left}, nil
}

func setSide(e Edges, side string, l *Length) Edges {
	switch side {
	case "top":
		e.Top = l
	case "right":
		e.Right = l
	case "bottom":
		e.Bottom = l
	case "left":
		e.Left = l
	}
	return e
}

var borderKeywords = map[string]float64{"thin": 1, "medium": 3, "thick": 5}

// borderWidth 读取边框宽度；border 简写只取第一个长度，none 视为 0。
func borderWidth(values []*dsl.Term, shorthand bool) (*Length, error) {
	if !shorthand && len(values) != 1 {
		return nil, fmt.Errorf("border-width 只支持统一宽度")
	}
	for _, v := range values {
		if v.Number != nil {
			l, err := ParseLength(*v.Number)
			if err != nil {
				return nil, err
			}
			if l.Unit == UnitPercent {
				return nil, fmt.Errorf("边框宽度不支持百分比")
			}
			return &l, nil
		}
		if v.Ident != nil {
			kw := strings.ToLower(*v.Ident)
			if px, ok := borderKeywords[kw]; ok {
				return ptr(Px(px)), nil
			}
			if kw == "none" || kw == "hidden" {
				return ptr(Px(0)), nil
			}
		}
	}
	if shorthand {
		return ptr(Px(borderKeywords["medium"])), nil
	}
	return nil, fmt.Errorf("无法解析边框宽度")
}

// backgroundColor 在 background 的词项中寻找第一个颜色。
func backgroundColor(values []*dsl.Term) (*Color, error) {
	for _, v := range values {
		c, ok, err := termColor(v)
		if err != nil {
			return nil, err
		}
		if ok {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("未找到颜色")
}

func termColor(t *dsl.Term) (Color, bool, error) {
	switch {
	case t.Hash != nil:
		c, err := ParseHexColor(*t.Hash)
		return c, err == nil, err
	case t.Ident != nil:
		c, ok := NamedColor(*t.Ident)
		return c, ok, nil
	case t.Function != nil:
		name := strings.ToLower(t.Function.Name)
		if name != "rgb" && name != "rgba" {
			return Color{}, false, nil
		}
		var args []float64
		for _, a := range t.Function.Args {
			if a.Comma || a.Slash {
				continue
			}
			if a.Number == nil {
				return Color{}, false, fmt.Errorf("%s() 参数无效 %q", name, a.Text())
			}
			raw := *a.Number
			pct := strings.HasSuffix(raw, "%")
			n, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
			if err != nil {
				return Color{}, false, fmt.Errorf("%s() 参数无效 %q", name, raw)
			}
			if pct {
				if len(args) == 3 {
					n /= 100
				} else {
					n = n / 100 * 255
				}
			}
			args = append(args, n)
		}
		c, err := RGBColor(args)
		return c, err == nil, err
	}
	return Color{}, false, nil
}
