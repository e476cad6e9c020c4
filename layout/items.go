package layout

import (
	"sort"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

// FlexItem 是一次弹性布局中参与排列的子节点，只在该次布局内有效。
type FlexItem struct {
	ID    dom.NodeID
	Style style.Style

	BaseMain  float64
	BaseCross float64
	Main      float64
	Cross     float64

	align style.AlignItems
}

// collectItems 把容器的子节点转换为按 order 稳定排序的弹性项目。
// 纯空白文本不参与布局；display:none 的子节点通过 hidden 返回，由调用方清空其记录。
func (e *Engine) collectItems(container dom.NodeID, cs style.Style, bounds Rect) (items []FlexItem, hidden []FlexItem) {
	dir := cs.Direction()
	for _, child := range e.tree.Children(container) {
		if e.tree.IsBlankText(child) {
			continue
		}
		s := e.resolver.Resolve(child, e.records.Peek(child).Style, cs)
		if s.DisplayValue() == style.DisplayNone && e.tree.Node(child).Kind == dom.KindElement {
			hidden = append(hidden, FlexItem{ID: child, Style: s})
			continue
		}
		items = append(items, FlexItem{ID: child, Style: s})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Style.OrderValue() < items[j].Style.OrderValue()
	})

	for i := range items {
		it := &items[i]
		it.BaseMain, it.BaseCross = e.baseSizes(it.ID, it.Style, bounds, dir)
		it.Main, it.Cross = it.BaseMain, it.BaseCross
	}
	return items, hidden
}
