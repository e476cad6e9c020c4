package layout

import (
	"math"

	"github.com/ByLCY/flexbox/style"
)

// space 是容器在一条逻辑轴上提供给项目的区域。
type space struct {
	// start 是区域相对容器原点的偏移。
	start float64
	size  float64
	// definite 表示该轴尺寸由样式确定（未显式声明为 auto）。
	definite bool
}

// availableSpace 计算容器在逻辑轴 a 上的可用空间。
// 样式尺寸未显式写成 auto 时，可用空间就是容器该轴的尺寸；
// 否则扣除该轴的内边距与两倍边框宽度，并且不小于 0，项目从内容区起点开始排列。
func availableSpace(container Rect, s style.Style, dir style.FlexDirection, a Axis) space {
	extent := extentOf(container, dir, a)
	dim := dimensionOf(s, dir, a)
	if dim == nil || !dim.IsAuto() {
		return space{size: extent, definite: true}
	}
	start, total := insetsOf(s, container, dir, a)
	return space{start: start, size: math.Max(0, extent-total)}
}
