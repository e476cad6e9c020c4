package layout

import "math"

// resolveFlexibleLengths 在一行内按比例分配剩余空间，返回分配前的剩余空间。
//
// 剩余空间为正时按 flex-grow 分配；为负时按 flex-shrink × 基础尺寸的权重收缩。
// 权重之和为 0 时保持基础尺寸（未设置 flex-shrink 的项目永不收缩，允许溢出）。
// 只做一轮比例分配，不做 min/max 约束；收缩结果不小于 0。
func resolveFlexibleLengths(items []FlexItem, line []int, available, gap float64) float64 {
	free := available - lineMain(items, line, gap, true)
	switch {
	case free > 0:
		totalGrow := 0.0
		for _, idx := range line {
			totalGrow += items[idx].Style.Grow()
		}
		if totalGrow <= 0 {
			return free
		}
		for _, idx := range line {
			it := &items[idx]
			it.Main = it.BaseMain + free*(it.Style.Grow()/totalGrow)
		}
	case free < 0:
		totalWeight := 0.0
		for _, idx := range line {
			totalWeight += items[idx].Style.Shrink() * items[idx].BaseMain
		}
		if totalWeight <= 0 {
			return free
		}
		for _, idx := range line {
			it := &items[idx]
			weight := it.Style.Shrink() * it.BaseMain
			it.Main = math.Max(0, it.BaseMain-(-free)*(weight/totalWeight))
		}
	}
	return free
}
