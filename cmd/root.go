package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ByLCY/flexbox/internal/config"
	"github.com/ByLCY/flexbox/internal/observability"
)

// NewRootCommand 创建 flexbox 根命令。每次调用都使用独立的 viper 实例，便于测试。
func NewRootCommand() *cobra.Command {
	var cfgFile string
	v := viper.New()
	state := &commandState{}

	root := &cobra.Command{
		Use:           "flexbox",
		Short:         "flexbox 对 HTML/CSS 文档执行弹性盒布局并输出盒子位置。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger)
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			state.cfg = cfg
			observability.GetLogger().Debug("配置已加载",
				zap.String("config", v.ConfigFileUsed()),
				zap.Float64("viewportWidth", cfg.Viewport.Width),
				zap.Float64("viewportHeight", cfg.Viewport.Height),
			)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "配置文件路径（默认查找 ./flexbox.yaml）")
	flags.String("log-level", "", "日志级别：debug、info、warn、error")
	_ = v.BindPFlag("logger.level", flags.Lookup("log-level"))

	root.AddCommand(newLayoutCommand(state))
	return root
}

// commandState 在根命令与子命令之间传递已加载的配置。
type commandState struct {
	cfg *config.Config
}

// Execute 运行根命令，失败时以非零状态退出。
func Execute() {
	err := NewRootCommand().Execute()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
