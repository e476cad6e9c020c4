package layout

import (
	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

// Record 是节点的可变布局记录：位置尺寸与生效样式。
type Record struct {
	Bounds Rect
	Style  style.Style
	// presized 表示尺寸已由祖先的弹性布局确定，递归布局时应保留。
	presized bool
}

// Records 是按 NodeID 索引的布局记录表，与节点树分开存放。
type Records struct {
	items []Record
}

// Get 返回节点的记录，必要时扩容；返回的指针在下一次扩容前有效。
func (r *Records) Get(id dom.NodeID) *Record {
	if id < 0 {
		return &Record{}
	}
	if int(id) >= len(r.items) {
		grown := make([]Record, int(id)+1)
		copy(grown, r.items)
		r.items = grown
	}
	return &r.items[id]
}

// Peek 返回记录副本，不存在时返回零值。
func (r *Records) Peek(id dom.NodeID) Record {
	if id < 0 || int(id) >= len(r.items) {
		return Record{}
	}
	return r.items[id]
}

// Reset 清空所有记录，容量保留。
func (r *Records) Reset(n int) {
	if cap(r.items) >= n {
		r.items = r.items[:n]
		clear(r.items)
		return
	}
	r.items = make([]Record, n)
}
