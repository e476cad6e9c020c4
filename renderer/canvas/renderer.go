package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"
	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/layout"
	"github.com/ByLCY/flexbox/renderer"
	"github.com/ByLCY/flexbox/style"
)

// 支持的输出格式。
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
)

// hairline 是没有边框的盒子使用的描边宽度（mm）。
const hairline = 0.1

// Renderer draws layout results via github.com/tdewolff/canvas.
// 每个盒子绘制为一个矩形：有背景色时填充，描边宽度取 border 宽度，没有边框时用细线。
type Renderer struct {
	format    string
	scale     float64
	outline   color.Color
	textColor color.Color
	logger    *zap.Logger
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Format 为 "pdf" 或 "svg"，默认 pdf。
	Format string
	// Scale 是每个布局像素对应的毫米数，默认按 96 px/in 换算。
	Scale float64
	// Outline 是元素盒子的描边颜色，默认黑色。
	Outline color.Color
	Logger  *zap.Logger
}

// NewRenderer 按 opts 创建渲染器，格式未知时返回错误。
func NewRenderer(opts Options) (*Renderer, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatSVG {
		return nil, fmt.Errorf("不支持的输出格式 %q", opts.Format)
	}
	r := &Renderer{
		format:    format,
		scale:     opts.Scale,
		outline:   opts.Outline,
		textColor: canvas.Hex("#9e9e9e"),
		logger:    opts.Logger,
	}
	if r.scale <= 0 {
		r.scale = style.MMPerPx
	}
	if r.outline == nil {
		r.outline = canvas.Black
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

// Format 返回输出格式。
func (r *Renderer) Format() string { return r.format }

// Render renders the result into a PDF or SVG byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	width := result.Viewport.Width * r.scale
	height := result.Viewport.Height * r.scale
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("视口尺寸无效: %gx%g", result.Viewport.Width, result.Viewport.Height)
	}

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	boxes := drawable(result.Boxes)
	for _, box := range boxes {
		r.drawBox(ctx, box)
	}

	var buf bytes.Buffer
	var writer interface {
		canvas.Renderer
		Close() error
	}
	switch r.format {
	case FormatSVG:
		writer = svg.New(&buf, width, height, nil)
	default:
		writer = pdf.New(&buf, width, height, nil)
	}
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 %s 失败: %w", strings.ToUpper(r.format), err)
	}

	r.logger.Debug("渲染完成",
		zap.String("format", r.format),
		zap.Int("boxes", len(boxes)),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (r *Renderer) drawBox(ctx *canvas.Context, box layout.Box) {
	if box.Background != nil {
		ctx.SetFillColor(colorFromStyle(*box.Background))
	} else {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	}

	stroke := hairline
	if box.BorderWidth > 0 {
		stroke = box.BorderWidth * r.scale
	}
	ctx.SetStrokeWidth(stroke)
	if box.Kind == "text" {
		ctx.SetStrokeColor(r.textColor)
	} else {
		ctx.SetStrokeColor(r.outline)
	}

	b := box.Bounds
	ctx.DrawPath(b.X*r.scale, b.Y*r.scale, canvas.Rectangle(b.Width*r.scale, b.Height*r.scale))
}

// drawable 过滤掉面积为 0 的盒子，保持原有顺序（父盒子先于子盒子绘制）。
func drawable(boxes []layout.Box) []layout.Box {
	out := make([]layout.Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Bounds.Width <= 0 || b.Bounds.Height <= 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}

func colorFromStyle(c style.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}
