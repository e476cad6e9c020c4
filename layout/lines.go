package layout

import "github.com/ByLCY/flexbox/style"

// flexLine 是一行（列）项目在 items 中的下标，顺序与排序后的项目一致，且至少包含一个项目。
type flexLine struct {
	items []int
	cross float64
}

// breakLines 按基础主轴尺寸把项目分行。
// 允许换行时，当前行非空且加入下一个项目会超出可用主轴空间，就结束当前行；
// nowrap 时所有项目都在同一行，溢出也不换行。
func breakLines(items []FlexItem, available float64, wrap style.FlexWrap, gap float64) []flexLine {
	canWrap := wrap == style.FlexWrapWrap || wrap == style.FlexWrapWrapReverse

	var lines []flexLine
	var current []int
	used := 0.0
	for i, it := range items {
		extra := 0.0
		if len(current) > 0 {
			extra = gap
		}
		if canWrap && len(current) > 0 && used+extra+it.BaseMain > available {
			lines = append(lines, flexLine{items: current})
			current, used, extra = nil, 0, 0
		}
		used += extra + it.BaseMain
		current = append(current, i)
	}
	if len(current) > 0 {
		lines = append(lines, flexLine{items: current})
	}
	return lines
}

// lineMain 返回行内项目的主轴尺寸之和（含间距），base 为 true 时使用基础尺寸。
func lineMain(items []FlexItem, line []int, gap float64, base bool) float64 {
	total := 0.0
	for pos, idx := range line {
		if pos > 0 {
			total += gap
		}
		if base {
			total += items[idx].BaseMain
		} else {
			total += items[idx].Main
		}
	}
	return total
}
