package layout

import "github.com/ByLCY/flexbox/style"

// Axis 是逻辑轴。主轴方向由 flex-direction 决定；反向排列只改变起止端的含义，不改变轴的映射。
type Axis int

const (
	AxisMain Axis = iota
	AxisCross
)

func (a Axis) String() string {
	if a == AxisCross {
		return "cross"
	}
	return "main"
}

// horizontal 表示该逻辑轴是否映射到 x/width。
func horizontal(dir style.FlexDirection, a Axis) bool {
	return dir.IsRow() == (a == AxisMain)
}

// extentOf 返回矩形在逻辑轴上的尺寸。
func extentOf(r Rect, dir style.FlexDirection, a Axis) float64 {
	if horizontal(dir, a) {
		return r.Width
	}
	return r.Height
}

// dimensionOf 返回样式在逻辑轴上对应的 width 或 height。
func dimensionOf(s style.Style, dir style.FlexDirection, a Axis) *style.Length {
	if horizontal(dir, a) {
		return s.Width
	}
	return s.Height
}

// insetsOf 返回逻辑轴上 (起始内边距+边框, 两侧内边距与边框之和)。
func insetsOf(s style.Style, container Rect, dir style.FlexDirection, a Axis) (start, total float64) {
	border := s.Border()
	if horizontal(dir, a) {
		ref := container.Width
		return s.Padding.LeftPx(ref) + border, s.Padding.Horizontal(ref) + 2*border
	}
	ref := container.Height
	return s.Padding.TopPx(ref) + border, s.Padding.Vertical(ref) + 2*border
}

// toPhysical 把逻辑轴上的 (主轴, 交叉轴) 数值映射为 (x/width, y/height)。
func toPhysical(dir style.FlexDirection, main, cross float64) (float64, float64) {
	if dir.IsRow() {
		return main, cross
	}
	return cross, main
}

// toLogical 把 (width, height) 映射为 (主轴, 交叉轴)。
func toLogical(dir style.FlexDirection, w, h float64) (float64, float64) {
	if dir.IsRow() {
		return w, h
	}
	return h, w
}

func toLogicalFlags(dir style.FlexDirection, w, h bool) (bool, bool) {
	if dir.IsRow() {
		return w, h
	}
	return h, w
}

// axisGaps 返回 (主轴间距, 交叉轴间距)。
func axisGaps(s style.Style, container Rect, dir style.FlexDirection) (float64, float64) {
	row, column := s.Gaps(container.Width, container.Height)
	if dir.IsRow() {
		return column, row
	}
	return row, column
}
