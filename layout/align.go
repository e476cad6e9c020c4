package layout

import "github.com/ByLCY/flexbox/style"

// alignCross 计算每行的交叉轴尺寸，并按对齐方式拉伸项目。
//
// 行的交叉轴尺寸取行内项目交叉尺寸的最大值；只有一行且容器交叉轴尺寸确定时，
// 行尺寸直接取容器的可用交叉空间。stretch 只作用于交叉轴尺寸未设置的项目。
func alignCross(items []FlexItem, lines []flexLine, cs style.Style, cross space) {
	dir := cs.Direction()
	for li := range lines {
		line := &lines[li]
		line.cross = 0
		for _, idx := range line.items {
			if items[idx].Cross > line.cross {
				line.cross = items[idx].Cross
			}
		}
		if len(lines) == 1 && cross.definite {
			line.cross = cross.size
		}
		for _, idx := range line.items {
			it := &items[idx]
			it.align = it.Style.Self().Resolve(cs.Align())
			if it.align == style.AlignItemsStretch && style.IsAutoLength(dimensionOf(it.Style, dir, AxisCross)) {
				it.Cross = line.cross
			}
		}
	}
}

// crossOffset 返回项目在行内的交叉轴偏移。baseline 按 flex-start 处理。
func crossOffset(align style.AlignItems, lineCross, itemCross float64) float64 {
	switch align {
	case style.AlignItemsFlexEnd:
		return lineCross - itemCross
	case style.AlignItemsCenter:
		return (lineCross - itemCross) / 2
	default:
		return 0
	}
}
