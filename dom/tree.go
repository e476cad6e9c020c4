// Package dom 提供布局引擎使用的节点树：节点存放在数组中，按 NodeID 寻址。
//
// Tree 不是并发安全的；同一棵树的修改与布局由调用方串行执行。
package dom

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNodeNotFound = errors.New("节点不存在")
	ErrTextNode     = errors.New("文本节点不能包含子节点或属性")
	ErrCycle        = errors.New("节点关系会形成环")
)

// NodeID 是节点在树中的下标。
type NodeID int

const (
	// RootID 是根节点，NewTree 时创建。
	RootID NodeID = 0
	// NoParent 表示节点尚未挂载。
	NoParent NodeID = -1
)

// Kind 在节点创建时确定，之后不可修改。
type Kind int

const (
	KindElement Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "element"
}

// Node 是树中的一个盒子。子节点由父节点独占。
type Node struct {
	ID   NodeID
	Kind Kind
	Tag  string
	Text string

	attrs    map[string]string
	parent   NodeID
	children []NodeID
}

// Attr 读取属性。
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// HasAttributes 表示节点是否带有任何属性。
func (n *Node) HasAttributes() bool { return len(n.attrs) > 0 }

// HasChildren 表示节点是否有子节点。
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// Attributes 返回按键排序的属性副本。
func (n *Node) Attributes() [][2]string {
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, n.attrs[k]})
	}
	return out
}

// Classes 返回 class 属性按空白拆分后的类名。
func (n *Node) Classes() []string {
	return strings.Fields(n.attrs["class"])
}

// HasClass 判断节点是否带有指定类名。
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// IsBlank 表示纯空白文本节点。
func (n *Node) IsBlank() bool {
	return n.Kind == KindText && strings.TrimSpace(n.Text) == ""
}

// Tree 是节点的集合。
type Tree struct {
	nodes []*Node
}

// NewTree 创建只包含根元素（body）的树。
func NewTree() *Tree {
	t := &Tree{}
	t.add(&Node{Kind: KindElement, Tag: "body"})
	return t
}

func (t *Tree) add(n *Node) NodeID {
	n.ID = NodeID(len(t.nodes))
	n.parent = NoParent
	t.nodes = append(t.nodes, n)
	return n.ID
}

// Len 返回节点总数（包括未挂载的节点）。
func (t *Tree) Len() int { return len(t.nodes) }

// CreateElement 创建未挂载的元素节点。
func (t *Tree) CreateElement(tag string) NodeID {
	return t.add(&Node{Kind: KindElement, Tag: strings.ToLower(tag)})
}

// CreateText 创建未挂载的文本节点。
func (t *Tree) CreateText(text string) NodeID {
	return t.add(&Node{Kind: KindText, Text: text})
}

// Node 返回节点；id 越界时返回 nil。
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

func (t *Tree) lookup(id NodeID) (*Node, error) {
	n := t.Node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return n, nil
}

// Children 返回子节点列表的副本。
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Parent 返回父节点，根节点与未挂载节点返回 NoParent。
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil {
		return NoParent
	}
	return n.parent
}

// AppendChild 把 child 追加为 parent 的最后一个子节点；已挂载的 child 会先从原父节点移除。
func (t *Tree) AppendChild(parent, child NodeID) error {
	p, err := t.lookup(parent)
	if err != nil {
		return err
	}
	c, err := t.lookup(child)
	if err != nil {
		return err
	}
	if p.Kind == KindText {
		return fmt.Errorf("挂载节点 %d: %w", child, ErrTextNode)
	}
	if child == RootID {
		return fmt.Errorf("根节点不能作为子节点: %w", ErrCycle)
	}
	for a := parent; a != NoParent; a = t.nodes[a].parent {
		if a == child {
			return fmt.Errorf("挂载节点 %d 到 %d: %w", child, parent, ErrCycle)
		}
	}
	if c.parent != NoParent {
		old := t.nodes[c.parent]
		for i, id := range old.children {
			if id == child {
				old.children = append(old.children[:i:i], old.children[i+1:]...)
				break
			}
		}
	}
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

// SetAttribute 设置元素属性。
func (t *Tree) SetAttribute(id NodeID, key, value string) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}
	if n.Kind == KindText {
		return fmt.Errorf("设置属性 %s: %w", key, ErrTextNode)
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[strings.ToLower(key)] = value
	return nil
}

// IsBlankText 判断节点是否为纯空白文本。
func (t *Tree) IsBlankText(id NodeID) bool {
	n := t.Node(id)
	return n != nil && n.IsBlank()
}

// Walk 从根节点开始先序遍历；fn 返回 false 时跳过该节点的子树。
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	t.walk(RootID, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(n *Node, depth int) bool) {
	n := t.nodes[id]
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		t.walk(c, depth+1, fn)
	}
}
