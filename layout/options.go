package layout

import "go.uber.org/zap"

// DefaultViewport 是未配置视口时根节点使用的尺寸。
var DefaultViewport = Size{Width: 800, Height: 600}

// Options 配置布局阶段所需的依赖。
type Options struct {
	// Logger 记录每次弹性布局的调试信息，默认 zap.NewNop()。
	Logger *zap.Logger
	// Viewport 是根节点的尺寸，非正值时使用 DefaultViewport 对应的分量。
	Viewport Size
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Viewport.Width <= 0 {
		o.Viewport.Width = DefaultViewport.Width
	}
	if o.Viewport.Height <= 0 {
		o.Viewport.Height = DefaultViewport.Height
	}
	return o
}
