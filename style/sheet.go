package style

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/dsl"
)

// Rule 是编译后的样式规则：选择器组与对应的样式补丁。
type Rule struct {
	Selectors []*dsl.Selector
	Patch     Style
}

// Sheet 按文档顺序保存规则。
type Sheet struct {
	Rules []Rule
}

// ParseSheet 解析并编译样式表，name 用于错误定位。
func ParseSheet(name, src string, logger *zap.Logger) (*Sheet, error) {
	parsed, err := dsl.ParseNamed(name, src)
	if err != nil {
		return nil, fmt.Errorf("解析样式表失败: %w", err)
	}
	return CompileSheet(parsed, logger), nil
}

// CompileSheet 将语法树转换为规则列表。
func CompileSheet(ss *dsl.Stylesheet, logger *zap.Logger) *Sheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	sheet := &Sheet{}
	if ss == nil {
		return sheet
	}
	for _, r := range ss.Rules {
		sheet.Rules = append(sheet.Rules, Rule{
			Selectors: r.Selectors,
			Patch:     CompileDeclarations(r.Declarations, logger),
		})
	}
	logger.Debug("样式表已编译", zap.Int("rules", len(sheet.Rules)))
	return sheet
}

// Append 把 other 的规则追加在末尾，后追加的规则优先。
func (s *Sheet) Append(other *Sheet) {
	if other == nil {
		return
	}
	s.Rules = append(s.Rules, other.Rules...)
}

// Resolver 根据样式表为节点计算生效样式。
//
// 优先级：缓存样式 < 按规则顺序匹配的规则（后匹配者覆盖先匹配者，不计算选择器优先级）
// < style 属性。没有属性也没有子节点的节点视为匿名项，display 沿用 fallback。
// !important 会被解析但不参与优先级。
type Resolver struct {
	tree   *dom.Tree
	sheet  *Sheet
	logger *zap.Logger
	inline map[string]Style
}

// NewResolver 创建解析器；sheet 可以为 nil。
func NewResolver(tree *dom.Tree, sheet *Sheet, logger *zap.Logger) *Resolver {
	if sheet == nil {
		sheet = &Sheet{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{tree: tree, sheet: sheet, logger: logger, inline: make(map[string]Style)}
}

// Resolve 返回节点 id 的生效样式。
func (r *Resolver) Resolve(id dom.NodeID, cached, fallback Style) Style {
	n := r.tree.Node(id)
	if n == nil {
		return cached
	}
	out := cached
	if n.Kind == dom.KindElement {
		for i := range r.sheet.Rules {
			rule := &r.sheet.Rules[i]
			if r.matchesAny(n, rule.Selectors) {
				out = out.Merge(rule.Patch)
			}
		}
		if attr, ok := n.Attr("style"); ok && strings.TrimSpace(attr) != "" {
			out = out.Merge(r.inlineStyle(attr))
		}
	}
	if !n.HasAttributes() && !n.HasChildren() {
		out.Display = fallback.Display
	}
	return out
}

func (r *Resolver) inlineStyle(attr string) Style {
	if s, ok := r.inline[attr]; ok {
		return s
	}
	list, err := dsl.ParseDeclarations(attr)
	var s Style
	if err != nil {
		r.logger.Warn("忽略无法解析的 style 属性", zap.String("style", attr), zap.Error(err))
	} else {
		s = CompileDeclarations(list.Declarations, r.logger)
	}
	r.inline[attr] = s
	return s
}

func (r *Resolver) matchesAny(n *dom.Node, selectors []*dsl.Selector) bool {
	for _, sel := range selectors {
		if r.Matches(n.ID, sel) {
			return true
		}
	}
	return false
}

// Matches 判断节点是否匹配选择器，从最右侧的复合选择器开始向祖先回溯。
func (r *Resolver) Matches(id dom.NodeID, sel *dsl.Selector) bool {
	compounds := sel.Compounds()
	if len(compounds) == 0 {
		return false
	}
	return r.matchFrom(id, compounds, len(compounds)-1)
}

func (r *Resolver) matchFrom(id dom.NodeID, compounds []dsl.Compound, index int) bool {
	n := r.tree.Node(id)
	if n == nil || n.Kind != dom.KindElement {
		return false
	}
	current := compounds[index]
	if !matchesCompound(n, current) {
		return false
	}
	if index == 0 {
		return true
	}
	switch current.Combinator {
	case dsl.CombinatorChild:
		return r.matchFrom(r.tree.Parent(id), compounds, index-1)
	case dsl.CombinatorDescendant:
		for p := r.tree.Parent(id); p != dom.NoParent; p = r.tree.Parent(p) {
			if r.matchFrom(p, compounds, index-1) {
				return true
			}
		}
	}
	return false
}

func matchesCompound(n *dom.Node, c dsl.Compound) bool {
	for _, s := range c.Simple {
		switch {
		case s.Universal:
		case s.Class != "":
			if !n.HasClass(s.Class) {
				return false
			}
		case s.ID != "":
			id, _ := n.Attr("id")
			if "#"+id != s.ID {
				return false
			}
		case s.Type != "":
			if !strings.EqualFold(n.Tag, s.Type) {
				return false
			}
		default:
			// 不支持伪类，带伪类的选择器永不匹配
			return false
		}
	}
	return true
}
