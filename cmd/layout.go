package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/dom"
	"github.com/ByLCY/flexbox/internal/config"
	"github.com/ByLCY/flexbox/internal/observability"
	"github.com/ByLCY/flexbox/layout"
	"github.com/ByLCY/flexbox/renderer"
	canvasrenderer "github.com/ByLCY/flexbox/renderer/canvas"
	"github.com/ByLCY/flexbox/style"
)

// layoutOptions 是 layout 子命令的参数。
type layoutOptions struct {
	htmlPath  string
	cssPaths  []string
	width     float64
	height    float64
	outPath   string
	format    string
	debugPath string
}

func newLayoutCommand(state *commandState) *cobra.Command {
	opts := &layoutOptions{}
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "布局 HTML 文档，打印每个盒子的位置，可选输出 PDF/SVG 与调试 JSON。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := state.cfg
			if cfg == nil {
				cfg = config.NewDefaultConfig()
			}
			return runLayout(cmd.OutOrStdout(), cfg, opts, observability.GetLogger())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.htmlPath, "html", "", "HTML 文件路径")
	f.StringSliceVar(&opts.cssPaths, "css", nil, "额外的样式表，按顺序追加在文档内 <style> 之后")
	f.Float64Var(&opts.width, "width", 0, "视口宽度（px），覆盖配置")
	f.Float64Var(&opts.height, "height", 0, "视口高度（px），覆盖配置")
	f.StringVarP(&opts.outPath, "out", "o", "", "渲染输出路径")
	f.StringVar(&opts.format, "format", "", "输出格式 pdf 或 svg，默认按输出文件扩展名或配置")
	f.StringVar(&opts.debugPath, "debug", "", "布局调试 JSON 输出路径")
	_ = cmd.MarkFlagRequired("html")
	return cmd
}

// runLayout 串联解析、样式、布局与渲染。
func runLayout(w io.Writer, cfg *config.Config, opts *layoutOptions, logger *zap.Logger) error {
	tree, sheet, err := loadDocument(opts.htmlPath, opts.cssPaths, logger)
	if err != nil {
		return err
	}

	viewport := cfg.Viewport
	if opts.width > 0 {
		viewport.Width = opts.width
	}
	if opts.height > 0 {
		viewport.Height = opts.height
	}

	ctx := layout.NewContext(tree, style.NewResolver(tree, sheet, logger), layout.Options{
		Logger:   logger,
		Viewport: viewport,
	})
	ctx.Layout()
	result := ctx.Result()

	if opts.debugPath != "" {
		if err := writeDebug(result, opts.debugPath); err != nil {
			return err
		}
	}

	if opts.outPath != "" {
		r, err := canvasrenderer.NewRenderer(canvasrenderer.Options{
			Format: outputFormat(opts, cfg),
			Scale:  cfg.Render.Scale,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		if err := render(r, result, opts.outPath); err != nil {
			return err
		}
		logger.Info("已生成输出文件", zap.String("path", opts.outPath), zap.String("format", r.Format()))
	}

	return printBoxes(w, result)
}

// loadDocument 解析 HTML，并把文档内的 <style> 与额外样式表按顺序合并。
func loadDocument(htmlPath string, cssPaths []string, logger *zap.Logger) (*dom.Tree, *style.Sheet, error) {
	if htmlPath == "" {
		return nil, nil, fmt.Errorf("缺少 HTML 文件路径")
	}
	file, err := os.Open(htmlPath)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开 HTML 文件 %s: %w", htmlPath, err)
	}
	defer file.Close()

	tree, blocks, err := dom.ParseHTML(file)
	if err != nil {
		return nil, nil, err
	}

	sheet := &style.Sheet{}
	for i, block := range blocks {
		s, err := style.ParseSheet(fmt.Sprintf("%s#style%d", filepath.Base(htmlPath), i), block, logger)
		if err != nil {
			return nil, nil, err
		}
		sheet.Append(s)
	}
	for _, path := range cssPaths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("无法读取样式表 %s: %w", path, err)
		}
		s, err := style.ParseSheet(path, string(src), logger)
		if err != nil {
			return nil, nil, err
		}
		sheet.Append(s)
	}
	logger.Debug("文档已加载",
		zap.String("html", htmlPath),
		zap.Int("nodes", tree.Len()),
		zap.Int("rules", len(sheet.Rules)),
	)
	return tree, sheet, nil
}

// outputFormat 依次取 --format、输出文件扩展名、配置中的格式。
func outputFormat(opts *layoutOptions, cfg *config.Config) string {
	if opts.format != "" {
		return opts.format
	}
	switch strings.ToLower(filepath.Ext(opts.outPath)) {
	case ".svg":
		return canvasrenderer.FormatSVG
	case ".pdf":
		return canvasrenderer.FormatPDF
	}
	return cfg.Render.Format
}

func render(r renderer.Renderer, result *layout.Result, outPath string) error {
	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// printBoxes 每个盒子输出一行，按深度缩进。
func printBoxes(w io.Writer, result *layout.Result) error {
	for _, box := range result.Boxes {
		label := box.Tag
		if box.Kind == "text" {
			label = fmt.Sprintf("%q", box.Text)
		} else if box.Class != "" {
			label += "." + strings.ReplaceAll(box.Class, " ", ".")
		}
		b := box.Bounds
		if _, err := fmt.Fprintf(w, "%s%s [%d] x=%g y=%g w=%g h=%g\n",
			strings.Repeat("  ", box.Depth), label, box.ID, b.X, b.Y, b.Width, b.Height); err != nil {
			return fmt.Errorf("输出布局结果失败: %w", err)
		}
	}
	return nil
}
