package layout

import (
	"strings"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

// Result 返回最近一次布局的快照：先序遍历所有参与渲染的盒子，
// 跳过空白文本与 display:none 的子树。
func (c *Context) Result() *Result {
	res := &Result{Viewport: c.opts.Viewport}
	c.tree.Walk(func(n *dom.Node, depth int) bool {
		if n.IsBlank() {
			return false
		}
		rec := c.records.Peek(n.ID)
		if n.Kind == dom.KindElement && rec.Style.DisplayValue() == style.DisplayNone {
			return false
		}
		box := Box{
			ID:          n.ID,
			Parent:      c.tree.Parent(n.ID),
			Depth:       depth,
			Kind:        n.Kind.String(),
			Tag:         n.Tag,
			Bounds:      rec.Bounds,
			Display:     rec.Style.DisplayValue().String(),
			Background:  rec.Style.Background,
			BorderWidth: rec.Style.Border(),
		}
		if n.Kind == dom.KindText {
			box.Text = strings.TrimSpace(n.Text)
			box.Display = ""
		} else {
			box.Class = strings.Join(n.Classes(), " ")
		}
		res.Boxes = append(res.Boxes, box)
		return true
	})
	return res
}
