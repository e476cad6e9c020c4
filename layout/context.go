package layout

import (
	"math"

	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

// TextLineHeight 是文本叶子节点的占位高度。
const TextLineHeight = 30.0

// Context 负责整棵树的布局：普通元素按块级流式排列，弹性容器交给 Engine。
// 布局记录保存在 Context 内部的记录表中，通过 Bounds/Style/Result 读取。
//
// Context 不是并发安全的，同一棵树的布局需要串行执行。
type Context struct {
	tree     *dom.Tree
	resolver StyleResolver
	records  Records
	engine   *Engine
	opts     Options
	logger   *zap.Logger
}

// NewContext 创建布局上下文。
func NewContext(tree *dom.Tree, resolver StyleResolver, opts Options) *Context {
	opts = opts.withDefaults()
	c := &Context{
		tree:     tree,
		resolver: resolver,
		opts:     opts,
		logger:   opts.Logger,
	}
	c.engine = NewEngine(tree, &c.records, resolver, c, opts.Logger)
	return c
}

// Layout 清空记录后从根节点开始布局，根节点占满视口。相同的树与样式总是得到相同结果。
func (c *Context) Layout() {
	c.records.Reset(c.tree.Len())
	root := c.records.Get(dom.RootID)
	root.Bounds = Rect{Width: c.opts.Viewport.Width, Height: c.opts.Viewport.Height}
	root.presized = true
	c.LayoutNode(dom.RootID, 0, 0)
	c.logger.Debug("布局完成", zap.Int("nodes", c.tree.Len()))
}

// LayoutNode 在 (x, y) 处布局节点及其子树。
//
// 宽度：已由弹性布局确定的保留，其次使用声明的 width，否则占满包含块的内容宽度。
// 高度：已确定的保留，其次使用声明的 height，否则由内容决定；文本叶子高度为 30（空白文本为 0）。
func (c *Context) LayoutNode(id dom.NodeID, x, y float64) {
	n := c.tree.Node(id)
	if n == nil {
		return
	}

	containing := Rect{Width: c.opts.Viewport.Width, Height: c.opts.Viewport.Height}
	var fallback style.Style
	if parent := c.tree.Parent(id); parent != dom.NoParent {
		pr := c.records.Peek(parent)
		fallback = pr.Style
		containing = contentBox(pr.Bounds, pr.Style)
	}

	prev := c.records.Peek(id)
	s := c.resolver.Resolve(id, prev.Style, fallback)

	if n.Kind == dom.KindElement && s.DisplayValue() == style.DisplayNone {
		rec := c.records.Get(id)
		rec.Bounds = Rect{X: x, Y: y}
		rec.Style = s
		return
	}

	bounds := Rect{X: x, Y: y}
	switch {
	case prev.presized:
		bounds.Width = prev.Bounds.Width
	case style.HasLength(s.Width):
		bounds.Width = math.Max(0, s.Width.ToPx(containing.Width))
	default:
		bounds.Width = containing.Width
	}

	heightKnown := true
	switch {
	case prev.presized:
		bounds.Height = prev.Bounds.Height
	case style.HasLength(s.Height):
		bounds.Height = math.Max(0, s.Height.ToPx(containing.Height))
	case n.Kind == dom.KindText:
		if !n.IsBlank() {
			bounds.Height = TextLineHeight
		}
	default:
		heightKnown = false
	}

	rec := c.records.Get(id)
	rec.Bounds = bounds
	rec.Style = s

	if n.Kind == dom.KindText {
		return
	}

	if s.IsFlexContainer() {
		c.layoutFlex(id, s, bounds, heightKnown)
		return
	}
	c.layoutBlock(id, s, bounds, heightKnown)
}

// layoutFlex 布局弹性容器。高度由内容决定时，以 height:auto 调用 Engine，使该轴按不确定尺寸处理；
// 已由祖先弹性布局确定的高度保持确定。
func (c *Context) layoutFlex(id dom.NodeID, s style.Style, bounds Rect, heightKnown bool) {
	pass := s
	if !heightKnown {
		pass = s.WithHeight(style.Auto())
	}

	top, vertical := insetsOf(s, bounds, style.FlexDirectionColumn, AxisMain)
	if !heightKnown && !pass.Direction().IsRow() {
		// 纵向主轴：先按子节点基础尺寸估算高度，避免不确定的高度导致逐项换行。
		c.records.Get(id).Bounds.Height = c.engine.ContentMain(id, pass) + vertical
	}

	c.engine.LayoutFlexChildren(id, pass)

	if heightKnown {
		return
	}
	bottom := bounds.Y + top
	for _, child := range c.tree.Children(id) {
		if c.tree.IsBlankText(child) {
			continue
		}
		cr := c.records.Peek(child)
		if cr.Style.DisplayValue() == style.DisplayNone {
			continue
		}
		bottom = math.Max(bottom, cr.Bounds.Bottom())
	}
	c.records.Get(id).Bounds.Height = bottom - bounds.Y + (vertical - top)
}

// layoutBlock 把子节点自上而下依次排列在内容区内，跳过空白文本。
func (c *Context) layoutBlock(id dom.NodeID, s style.Style, bounds Rect, heightKnown bool) {
	left, _ := insetsOf(s, bounds, style.FlexDirectionRow, AxisMain)
	top, vertical := insetsOf(s, bounds, style.FlexDirectionColumn, AxisMain)

	cursor := bounds.Y + top
	for _, child := range c.tree.Children(id) {
		if c.tree.IsBlankText(child) {
			continue
		}
		c.LayoutNode(child, bounds.X+left, cursor)
		cr := c.records.Peek(child)
		if cr.Style.DisplayValue() == style.DisplayNone && c.tree.Node(child).Kind == dom.KindElement {
			continue
		}
		cursor += cr.Bounds.Height
	}

	if !heightKnown {
		c.records.Get(id).Bounds.Height = cursor - bounds.Y + (vertical - top)
	}
}

// contentBox 返回盒子扣除内边距与边框后的内容区。
func contentBox(b Rect, s style.Style) Rect {
	left, horizontal := insetsOf(s, b, style.FlexDirectionRow, AxisMain)
	top, vertical := insetsOf(s, b, style.FlexDirectionColumn, AxisMain)
	return Rect{
		X:      b.X + left,
		Y:      b.Y + top,
		Width:  math.Max(0, b.Width-horizontal),
		Height: math.Max(0, b.Height-vertical),
	}
}

// Bounds 返回节点最近一次布局的位置与尺寸。
func (c *Context) Bounds(id dom.NodeID) Rect {
	return c.records.Peek(id).Bounds
}

// Style 返回节点最近一次布局时的生效样式。
func (c *Context) Style(id dom.NodeID) style.Style {
	return c.records.Peek(id).Style
}
