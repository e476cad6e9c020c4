package style

import (
	"fmt"
	"strconv"
	"strings"
)

// 该文件定义带单位的长度类型以及到抽象像素（px）的换算。

// Unit 表示长度在样式表中书写时的原始单位。
type Unit int

const (
	UnitPx      Unit = iota // 抽象像素，布局内部的统一单位
	UnitPt                  // 点
	UnitMM                  // 毫米
	UnitCM                  // 厘米
	UnitIN                  // 英寸
	UnitPercent             // 百分比，相对参考尺寸
	UnitAuto                // auto 关键字
)

// 换算常量：1in = 96px = 72pt = 25.4mm。
const (
	PxPerIn = 96.0
	PxPerPt = PxPerIn / 72.0
	PxPerMM = PxPerIn / 25.4
	MMPerPx = 25.4 / PxPerIn
)

// String 返回单位的简写。
func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitPt:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPercent:
		return "%"
	case UnitAuto:
		return "auto"
	default:
		return ""
	}
}

// Length 保留数值与原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Px 构造像素长度。
func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

// Percent 构造百分比长度。
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// Auto 构造 auto 长度。
func Auto() Length { return Length{Unit: UnitAuto} }

func (l Length) IsAuto() bool { return l.Unit == UnitAuto }

// ToPx 将长度换算为像素；百分比按 reference 解析，auto 视为 0。
func (l Length) ToPx(reference float64) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitPt:
		return l.Value * PxPerPt
	case UnitMM:
		return l.Value * PxPerMM
	case UnitCM:
		return l.Value * 10 * PxPerMM
	case UnitIN:
		return l.Value * PxPerIn
	case UnitPercent:
		return l.Value / 100 * reference
	default:
		return 0
	}
}

func (l Length) String() string {
	if l.Unit == UnitAuto {
		return "auto"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLength 解析形如 "40px"、"12pt"、"50%"、"0"、"auto" 的长度。
// 无单位的数值只允许 0（按 CSS 规则），其余无单位数值返回错误。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	if v == "auto" {
		return Auto(), nil
	}
	unit := UnitPx
	num := v
	matched := false
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPx}, {"pt", UnitPt}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"%", UnitPercent}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSuffix(v, suf.s)
			matched = true
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	if !matched && f != 0 {
		return Length{}, fmt.Errorf("长度 %q 缺少单位", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
