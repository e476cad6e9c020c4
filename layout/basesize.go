package layout

import (
	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

// 未测量内容的占位尺寸。
const (
	PlaceholderWidth  = 100.0
	PlaceholderHeight = 30.0
)

// physicalSize 返回样式声明的宽高；未设置、auto 或非正值时使用占位尺寸，
// 对应的 declared 标记为 false。百分比相对 reference 解析。
func physicalSize(s style.Style, reference Rect) (w, h float64, wDeclared, hDeclared bool) {
	w, h = PlaceholderWidth, PlaceholderHeight
	if s.Width != nil {
		if px := s.Width.ToPx(reference.Width); px > 0 {
			w, wDeclared = px, true
		}
	}
	if s.Height != nil {
		if px := s.Height.ToPx(reference.Height); px > 0 {
			h, hDeclared = px, true
		}
	}
	return w, h, wDeclared, hDeclared
}

// baseSizes 计算项目的基础主轴尺寸与交叉轴尺寸。
func (e *Engine) baseSizes(id dom.NodeID, s style.Style, container Rect, dir style.FlexDirection) (mainSize, crossSize float64) {
	w, h, wDeclared, hDeclared := physicalSize(s, container)
	fromSize, crossSize := toLogical(dir, w, h)
	mainDeclared, _ := toLogicalFlags(dir, wDeclared, hDeclared)

	mainSize = fromSize
	if s.FlexBasis != nil && !s.FlexBasis.IsAuto() {
		mainSize = s.FlexBasis.ToPx(extentOf(container, dir, AxisMain))
	}

	// 嵌套容器的主轴尺寸来自占位值（未声明主轴尺寸，flex-basis 未设置或为 auto）时，用子节点的最大尺寸代替。
	if !mainDeclared && style.IsAutoLength(s.FlexBasis) {
		if n := e.tree.Node(id); n != nil && n.HasChildren() {
			// 子节点的百分比尺寸相对项目自身解析；项目未声明的轴按 0 处理，百分比因此退回占位尺寸。
			var self Rect
			if wDeclared {
				self.Width = w
			}
			if hDeclared {
				self.Height = h
			}
			if fit, ok := e.shrinkToFit(id, s, self, dir); ok {
				e.logger.Debug("按子节点收缩主轴尺寸",
					zap.Int("node", int(id)),
					zap.Float64("placeholder", mainSize),
					zap.Float64("size", fit),
				)
				mainSize = fit
			}
		}
	}
	return mainSize, crossSize
}

// shrinkToFit 返回项目子节点在容器主轴方向上的最大物理尺寸，百分比相对 reference 解析。
func (e *Engine) shrinkToFit(id dom.NodeID, s style.Style, reference Rect, dir style.FlexDirection) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, child := range e.tree.Children(id) {
		if e.tree.IsBlankText(child) {
			continue
		}
		cs := e.resolver.Resolve(child, e.records.Peek(child).Style, s)
		if cs.DisplayValue() == style.DisplayNone {
			continue
		}
		w, h, _, _ := physicalSize(cs, reference)
		size, _ := toLogical(dir, w, h)
		if !found || size > best {
			best, found = size, true
		}
	}
	return best, found
}
