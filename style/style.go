// Package style 定义布局所需的样式属性、长度单位以及基于类选择器的样式解析。
package style

import "fmt"

// Display 对应 display 属性。
type Display int

const (
	DisplayBlock Display = iota
	DisplayFlex
	DisplayInlineFlex
	DisplayInline
	DisplayNone
)

// FlexDirection 对应 flex-direction。
type FlexDirection int

const (
	FlexDirectionRow FlexDirection = iota
	FlexDirectionRowReverse
	FlexDirectionColumn
	FlexDirectionColumnReverse
)

// IsRow 表示主轴是否为水平方向。
func (d FlexDirection) IsRow() bool {
	return d == FlexDirectionRow || d == FlexDirectionRowReverse
}

// IsReverse 表示是否为反向排列。
func (d FlexDirection) IsReverse() bool {
	return d == FlexDirectionRowReverse || d == FlexDirectionColumnReverse
}

// FlexWrap 对应 flex-wrap。
type FlexWrap int

const (
	FlexWrapNoWrap FlexWrap = iota
	FlexWrapWrap
	FlexWrapWrapReverse
)

// JustifyContent 对应 justify-content。
type JustifyContent int

const (
	JustifyFlexStart JustifyContent = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// AlignItems 对应 align-items。
type AlignItems int

const (
	AlignItemsStretch AlignItems = iota
	AlignItemsFlexStart
	AlignItemsFlexEnd
	AlignItemsCenter
	AlignItemsBaseline
)

// AlignSelf 对应 align-self，Auto 表示沿用容器的 align-items。
type AlignSelf int

const (
	AlignSelfAuto AlignSelf = iota
	AlignSelfFlexStart
	AlignSelfFlexEnd
	AlignSelfCenter
	AlignSelfBaseline
	AlignSelfStretch
)

// Resolve 将 align-self 映射为实际生效的对齐方式。
func (a AlignSelf) Resolve(container AlignItems) AlignItems {
	switch a {
	case AlignSelfFlexStart:
		return AlignItemsFlexStart
	case AlignSelfFlexEnd:
		return AlignItemsFlexEnd
	case AlignSelfCenter:
		return AlignItemsCenter
	case AlignSelfBaseline:
		return AlignItemsBaseline
	case AlignSelfStretch:
		return AlignItemsStretch
	default:
		return container
	}
}

// Edges 保存四个方向的可选长度（padding、margin）。
type Edges struct {
	Top    *Length `json:"top,omitempty"`
	Right  *Length `json:"right,omitempty"`
	Bottom *Length `json:"bottom,omitempty"`
	Left   *Length `json:"left,omitempty"`
}

func (e Edges) merge(patch Edges) Edges {
	return Edges{
		Top:    pick(e.Top, patch.Top),
		Right:  pick(e.Right, patch.Right),
		Bottom: pick(e.Bottom, patch.Bottom),
		Left:   pick(e.Left, patch.Left),
	}
}

// Horizontal 返回左右之和（像素）。
func (e Edges) Horizontal(reference float64) float64 {
	return lengthPx(e.Left, reference) + lengthPx(e.Right, reference)
}

// Vertical 返回上下之和（像素）。
func (e Edges) Vertical(reference float64) float64 {
	return lengthPx(e.Top, reference) + lengthPx(e.Bottom, reference)
}

// TopPx 返回上边距像素值。
func (e Edges) TopPx(reference float64) float64 { return lengthPx(e.Top, reference) }

// LeftPx 返回左边距像素值。
func (e Edges) LeftPx(reference float64) float64 { return lengthPx(e.Left, reference) }

// BottomPx 返回下边距像素值。
func (e Edges) BottomPx(reference float64) float64 { return lengthPx(e.Bottom, reference) }

// Style 是可选值的属性集合：nil 表示未设置，使用文档约定的默认值，而不是 0。
// Style 按值传递；字段指针指向的数据从不原地修改，因此合并结果可以安全共享。
type Style struct {
	Display        *Display        `json:"display,omitempty"`
	FlexDirection  *FlexDirection  `json:"flexDirection,omitempty"`
	FlexWrap       *FlexWrap       `json:"flexWrap,omitempty"`
	JustifyContent *JustifyContent `json:"justifyContent,omitempty"`
	AlignItems     *AlignItems     `json:"alignItems,omitempty"`
	AlignSelf      *AlignSelf      `json:"alignSelf,omitempty"`
	Order          *int            `json:"order,omitempty"`
	FlexGrow       *float64        `json:"flexGrow,omitempty"`
	FlexShrink     *float64        `json:"flexShrink,omitempty"`
	FlexBasis      *Length         `json:"flexBasis,omitempty"`
	Width          *Length         `json:"width,omitempty"`
	Height         *Length         `json:"height,omitempty"`
	Gap            *Length         `json:"gap,omitempty"`
	RowGap         *Length         `json:"rowGap,omitempty"`
	ColumnGap      *Length         `json:"columnGap,omitempty"`
	Padding        Edges           `json:"padding"`
	BorderWidth    *Length         `json:"borderWidth,omitempty"`

	// 以下属性会被解析，但弹性布局本身不使用。
	Margin     Edges  `json:"margin"`
	Background *Color `json:"background,omitempty"`
}

// Merge 返回在 s 之上叠加 patch 中已设置属性后的新样式。
func (s Style) Merge(patch Style) Style {
	return Style{
		Display:        pick(s.Display, patch.Display),
		FlexDirection:  pick(s.FlexDirection, patch.FlexDirection),
		FlexWrap:       pick(s.FlexWrap, patch.FlexWrap),
		JustifyContent: pick(s.JustifyContent, patch.JustifyContent),
		AlignItems:     pick(s.AlignItems, patch.AlignItems),
		AlignSelf:      pick(s.AlignSelf, patch.AlignSelf),
		Order:          pick(s.Order, patch.Order),
		FlexGrow:       pick(s.FlexGrow, patch.FlexGrow),
		FlexShrink:     pick(s.FlexShrink, patch.FlexShrink),
		FlexBasis:      pick(s.FlexBasis, patch.FlexBasis),
		Width:          pick(s.Width, patch.Width),
		Height:         pick(s.Height, patch.Height),
		Gap:            pick(s.Gap, patch.Gap),
		RowGap:         pick(s.RowGap, patch.RowGap),
		ColumnGap:      pick(s.ColumnGap, patch.ColumnGap),
		Padding:        s.Padding.merge(patch.Padding),
		BorderWidth:    pick(s.BorderWidth, patch.BorderWidth),
		Margin:         s.Margin.merge(patch.Margin),
		Background:     pick(s.Background, patch.Background),
	}
}

// DisplayValue 返回 display，默认 block。
func (s Style) DisplayValue() Display { return valueOr(s.Display, DisplayBlock) }

// IsFlexContainer 表示该盒子的子元素是否按弹性布局排列。
func (s Style) IsFlexContainer() bool {
	d := s.DisplayValue()
	return d == DisplayFlex || d == DisplayInlineFlex
}

// Direction 返回 flex-direction，默认 row。
func (s Style) Direction() FlexDirection { return valueOr(s.FlexDirection, FlexDirectionRow) }

// Wrap 返回 flex-wrap，默认 nowrap。
func (s Style) Wrap() FlexWrap { return valueOr(s.FlexWrap, FlexWrapNoWrap) }

// Justify 返回 justify-content，默认 flex-start。
func (s Style) Justify() JustifyContent { return valueOr(s.JustifyContent, JustifyFlexStart) }

// Align 返回 align-items，默认 stretch。
func (s Style) Align() AlignItems { return valueOr(s.AlignItems, AlignItemsStretch) }

// Self 返回 align-self，默认 auto。
func (s Style) Self() AlignSelf { return valueOr(s.AlignSelf, AlignSelfAuto) }

// OrderValue 返回 order，默认 0。
func (s Style) OrderValue() int { return valueOr(s.Order, 0) }

// Grow 返回 flex-grow，默认 0。
func (s Style) Grow() float64 { return valueOr(s.FlexGrow, 0) }

// Shrink 返回 flex-shrink，默认 0。
// 注意：这里刻意与 CSS 标准默认值 1 不同，未设置 flex-shrink 的项目不会收缩。
func (s Style) Shrink() float64 { return valueOr(s.FlexShrink, 0) }

// Border 返回统一边框宽度（像素）。
func (s Style) Border() float64 { return lengthPx(s.BorderWidth, 0) }

// Gaps 返回 (行间距, 列间距)；gap 优先于 row-gap/column-gap。
// 百分比的行间距相对 height 解析，列间距相对 width 解析。
func (s Style) Gaps(width, height float64) (row, column float64) {
	if s.Gap != nil {
		return s.Gap.ToPx(height), s.Gap.ToPx(width)
	}
	return lengthPx(s.RowGap, height), lengthPx(s.ColumnGap, width)
}

// WithHeight 返回替换了 height 的副本。
func (s Style) WithHeight(l Length) Style {
	s.Height = &l
	return s
}

// WithWidth 返回替换了 width 的副本。
func (s Style) WithWidth(l Length) Style {
	s.Width = &l
	return s
}

// HasLength 判断长度是否为显式的非 auto 值。
func HasLength(l *Length) bool { return l != nil && !l.IsAuto() }

// IsAutoLength 判断长度未设置或为 auto。
func IsAutoLength(l *Length) bool { return l == nil || l.IsAuto() }

func (d Display) String() string {
	switch d {
	case DisplayFlex:
		return "flex"
	case DisplayInlineFlex:
		return "inline-flex"
	case DisplayInline:
		return "inline"
	case DisplayNone:
		return "none"
	default:
		return "block"
	}
}

func (d FlexDirection) String() string {
	switch d {
	case FlexDirectionRowReverse:
		return "row-reverse"
	case FlexDirectionColumn:
		return "column"
	case FlexDirectionColumnReverse:
		return "column-reverse"
	default:
		return "row"
	}
}

func (j JustifyContent) String() string {
	switch j {
	case JustifyFlexEnd:
		return "flex-end"
	case JustifyCenter:
		return "center"
	case JustifySpaceBetween:
		return "space-between"
	case JustifySpaceAround:
		return "space-around"
	case JustifySpaceEvenly:
		return "space-evenly"
	default:
		return "flex-start"
	}
}

func (a AlignItems) String() string {
	switch a {
	case AlignItemsFlexStart:
		return "flex-start"
	case AlignItemsFlexEnd:
		return "flex-end"
	case AlignItemsCenter:
		return "center"
	case AlignItemsBaseline:
		return "baseline"
	default:
		return "stretch"
	}
}

// 关键字解析，未知关键字返回错误，由样式表编译阶段丢弃该声明。

func parseDisplay(v string) (Display, error) {
	switch v {
	case "block", "inline-block", "list-item":
		return DisplayBlock, nil
	case "flex":
		return DisplayFlex, nil
	case "inline-flex":
		return DisplayInlineFlex, nil
	case "inline":
		return DisplayInline, nil
	case "none":
		return DisplayNone, nil
	}
	return 0, fmt.Errorf("未知的 display 值 %q", v)
}

func parseFlexDirection(v string) (FlexDirection, error) {
	switch v {
	case "row":
		return FlexDirectionRow, nil
	case "row-reverse":
		return FlexDirectionRowReverse, nil
	case "column":
		return FlexDirectionColumn, nil
	case "column-reverse":
		return FlexDirectionColumnReverse, nil
	}
	return 0, fmt.Errorf("未知的 flex-direction 值 %q", v)
}

func parseFlexWrap(v string) (FlexWrap, error) {
	switch v {
	case "nowrap":
		return FlexWrapNoWrap, nil
	case "wrap":
		return FlexWrapWrap, nil
	case "wrap-reverse":
		return FlexWrapWrapReverse, nil
	}
	return 0, fmt.Errorf("未知的 flex-wrap 值 %q", v)
}

func parseJustifyContent(v string) (JustifyContent, error) {
	switch v {
	case "flex-start", "start", "left", "normal":
		return JustifyFlexStart, nil
	case "flex-end", "end", "right":
		return JustifyFlexEnd, nil
	case "center":
		return JustifyCenter, nil
	case "space-between":
		return JustifySpaceBetween, nil
	case "space-around":
		return JustifySpaceAround, nil
	case "space-evenly":
		return JustifySpaceEvenly, nil
	}
	return 0, fmt.Errorf("未知的 justify-content 值 %q", v)
}

func parseAlignItems(v string) (AlignItems, error) {
	switch v {
	case "stretch", "normal":
		return AlignItemsStretch, nil
	case "flex-start", "start", "self-start":
		return AlignItemsFlexStart, nil
	case "flex-end", "end", "self-end":
		return AlignItemsFlexEnd, nil
	case "center":
		return AlignItemsCenter, nil
	case "baseline":
		return AlignItemsBaseline, nil
	}
	return 0, fmt.Errorf("未知的 align-items 值 %q", v)
}

func parseAlignSelf(v string) (AlignSelf, error) {
	if v == "auto" {
		return AlignSelfAuto, nil
	}
	a, err := parseAlignItems(v)
	if err != nil {
		return 0, fmt.Errorf("未知的 align-self 值 %q", v)
	}
	switch a {
	case AlignItemsFlexStart:
		return AlignSelfFlexStart, nil
	case AlignItemsFlexEnd:
		return AlignSelfFlexEnd, nil
	case AlignItemsCenter:
		return AlignSelfCenter, nil
	case AlignItemsBaseline:
		return AlignSelfBaseline, nil
	default:
		return AlignSelfStretch, nil
	}
}

func pick[T any](base, patch *T) *T {
	if patch != nil {
		return patch
	}
	return base
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func ptr[T any](v T) *T { return &v }

func lengthPx(l *Length, reference float64) float64 {
	if l == nil {
		return 0
	}
	return l.ToPx(reference)
}
