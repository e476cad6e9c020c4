package layout

import "github.com/ByLCY/flexbox/style"

// justifyOffsets 返回行首偏移与项目之间的间距。leftover 为非负的剩余主轴空间。
// 反向排列时 flex-start 与 flex-end 互换。
func justifyOffsets(j style.JustifyContent, dir style.FlexDirection, leftover, gap float64, count int) (offset, between float64) {
	if dir.IsReverse() {
		switch j {
		case style.JustifyFlexStart:
			j = style.JustifyFlexEnd
		case style.JustifyFlexEnd:
			j = style.JustifyFlexStart
		}
	}
	if count <= 0 {
		return 0, gap
	}

	n := float64(count)
	switch j {
	case style.JustifyFlexEnd:
		return leftover, gap
	case style.JustifyCenter:
		return leftover / 2, gap
	case style.JustifySpaceBetween:
		if count <= 1 {
			return 0, gap
		}
		return 0, gap + leftover/(n-1)
	case style.JustifySpaceAround:
		return leftover / n / 2, gap + leftover/n
	case style.JustifySpaceEvenly:
		return leftover / (n + 1), gap + leftover/(n+1)
	default:
		return 0, gap
	}
}
