package layout

import (
	"math"

	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

// StyleResolver 计算节点的生效样式：在缓存样式上叠加匹配的规则，
// 无属性无子节点的节点沿用 fallback 的 display。
type StyleResolver interface {
	Resolve(id dom.NodeID, cached, fallback style.Style) style.Style
}

// NodeLayouter 在 (x, y) 处递归布局一个子树；
// 节点记录中已由弹性布局确定的宽高应被保留。
type NodeLayouter interface {
	LayoutNode(id dom.NodeID, x, y float64)
}

// Engine 执行单个容器的弹性布局。
//
// Engine 本身不保存任何一次布局的中间状态，嵌套容器通过 NodeLayouter 递归回到 Engine，
// 因此可以重入。Engine 只写入被布局容器的直接子节点的记录。
type Engine struct {
	tree     *dom.Tree
	records  *Records
	resolver StyleResolver
	layouter NodeLayouter
	logger   *zap.Logger
}

// NewEngine 创建弹性布局引擎；logger 为 nil 时不输出日志。
func NewEngine(tree *dom.Tree, records *Records, resolver StyleResolver, layouter NodeLayouter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tree: tree, records: records, resolver: resolver, layouter: layouter, logger: logger}
}

// LayoutFlexChildren 按 cs 排列 container 的子节点。容器自身的 Bounds 必须已经写入记录。
func (e *Engine) LayoutFlexChildren(container dom.NodeID, cs style.Style) {
	bounds := e.records.Peek(container).Bounds
	dir := cs.Direction()

	items, hidden := e.collectItems(container, cs, bounds)
	for _, h := range hidden {
		rec := e.records.Get(h.ID)
		rec.Bounds = Rect{X: bounds.X, Y: bounds.Y}
		rec.Style = h.Style
		rec.presized = true
	}
	if len(items) == 0 {
		e.logger.Debug("弹性容器没有参与布局的子节点", zap.Int("container", int(container)))
		return
	}

	mainSpace := availableSpace(bounds, cs, dir, AxisMain)
	crossSpace := availableSpace(bounds, cs, dir, AxisCross)
	mainGap, crossGap := axisGaps(cs, bounds, dir)

	lines := breakLines(items, mainSpace.size, cs.Wrap(), mainGap)
	for i, line := range lines {
		free := resolveFlexibleLengths(items, line.items, mainSpace.size, mainGap)
		e.logger.Debug("弹性行",
			zap.Int("container", int(container)),
			zap.Int("line", i),
			zap.Int("items", len(line.items)),
			zap.Float64("free", free),
		)
	}
	alignCross(items, lines, cs, crossSpace)

	e.logger.Debug("弹性布局",
		zap.Int("container", int(container)),
		zap.Stringer("direction", dir),
		zap.Int("items", len(items)),
		zap.Int("lines", len(lines)),
		zap.Float64("availableMain", mainSpace.size),
		zap.Float64("availableCross", crossSpace.size),
		zap.Bool("definiteCross", crossSpace.definite),
	)

	lineStart := 0.0
	for _, line := range lines {
		leftover := math.Max(0, mainSpace.size-lineMain(items, line.items, mainGap, false))
		offset, between := justifyOffsets(cs.Justify(), dir, leftover, mainGap, len(line.items))

		cursor := offset
		for pos, idx := range line.items {
			if pos > 0 {
				cursor += between
			}
			it := &items[idx]
			crossPos := lineStart + crossOffset(it.align, line.cross, it.Cross)
			dx, dy := toPhysical(dir, mainSpace.start+cursor, crossSpace.start+crossPos)
			w, h := toPhysical(dir, it.Main, it.Cross)
			e.apply(it, Rect{X: bounds.X + dx, Y: bounds.Y + dy, Width: w, Height: h})
			cursor += it.Main
		}
		lineStart += line.cross + crossGap
	}
}

// ContentMain 返回容器子节点按基础尺寸排在一行时的主轴长度（含间距，不含内边距与边框）。
// 用于主轴尺寸由内容决定的容器在布局前估算自身尺寸。
func (e *Engine) ContentMain(container dom.NodeID, cs style.Style) float64 {
	bounds := e.records.Peek(container).Bounds
	items, _ := e.collectItems(container, cs, bounds)
	gap, _ := axisGaps(cs, bounds, cs.Direction())
	all := make([]int, len(items))
	for i := range all {
		all[i] = i
	}
	return lineMain(items, all, gap, true)
}

// apply 写入项目的几何信息后递归布局其子树，再以弹性计算的宽高覆盖递归结果。
func (e *Engine) apply(it *FlexItem, r Rect) {
	rec := e.records.Get(it.ID)
	rec.Bounds = r
	rec.Style = it.Style
	rec.presized = true

	e.layouter.LayoutNode(it.ID, r.X, r.Y)

	// 递归过程中记录表可能扩容，重新取指针。
	rec = e.records.Get(it.ID)
	rec.Bounds.Width = r.Width
	rec.Bounds.Height = r.Height
	rec.Style = it.Style
}
