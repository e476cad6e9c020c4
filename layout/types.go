package layout

import (
	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/style"
)

// 该文件定义布局结果，供布局计算、渲染与调试 JSON 共用。所有长度单位为 px。

// Rect 是盒子在文档坐标系中的位置与尺寸，原点在左上角。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right 返回右边界。
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom 返回下边界。
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Size 是视口或页面尺寸。
type Size struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// Result 保存一次布局后所有参与渲染的盒子，按先序排列。
type Result struct {
	Viewport Size  `json:"viewport"`
	Boxes    []Box `json:"boxes"`
}

// Box 表示一个已经排好坐标的盒子。
type Box struct {
	ID          dom.NodeID   `json:"id"`
	Parent      dom.NodeID   `json:"parent"`
	Depth       int          `json:"depth"`
	Kind        string       `json:"kind"`
	Tag         string       `json:"tag,omitempty"`
	Class       string       `json:"class,omitempty"`
	Text        string       `json:"text,omitempty"`
	Bounds      Rect         `json:"bounds"`
	Display     string       `json:"display"`
	Background  *style.Color `json:"background,omitempty"`
	BorderWidth float64      `json:"borderWidth,omitempty"`
}

// Find 按节点 ID 查找盒子。
func (r *Result) Find(id dom.NodeID) (Box, bool) {
	if r == nil {
		return Box{}, false
	}
	for _, b := range r.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}
