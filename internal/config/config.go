package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ByLCY/flexbox/layout"
)

// EnvPrefix 是环境变量前缀，例如 FLEXBOX_VIEWPORT_WIDTH。
const EnvPrefix = "FLEXBOX"

// Config 是命令行工具的全部配置。
type Config struct {
	Logger   LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Viewport layout.Size  `mapstructure:"viewport" yaml:"viewport"`
	Render   RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggerConfig 配置日志输出；LogFile 非空时额外写入按大小滚动的 JSON 日志文件。
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// RenderConfig 配置渲染输出。Scale 为每个布局像素对应的毫米数，0 表示按 96 px/in 换算。
type RenderConfig struct {
	Format string  `mapstructure:"format" yaml:"format"`
	Scale  float64 `mapstructure:"scale" yaml:"scale"`
}

var renderFormats = map[string]bool{"pdf": true, "svg": true}

// SetDefaults 写入所有配置项的默认值。环境变量只会覆盖已知的配置项，因此每一项都需要默认值。
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "flexbox")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	v.SetDefault("viewport.width", layout.DefaultViewport.Width)
	v.SetDefault("viewport.height", layout.DefaultViewport.Height)

	v.SetDefault("render.format", "pdf")
	v.SetDefault("render.scale", 0.0)
}

// NewDefaultConfig 返回只包含默认值的配置。
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("解析默认配置失败: %v", err))
	}
	return &cfg
}

// Load 读取配置文件与 FLEXBOX_ 前缀的环境变量。path 为空时在当前目录查找 flexbox.yaml，找不到则只用默认值；
// 显式指定的文件不存在时返回错误。
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("flexbox")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper 从已加载的 viper 实例解析并校验配置。
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	return &cfg, nil
}

// Validate 检查视口、缩放比例与输出格式。
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport 的宽高必须为正数，当前为 %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Render.Scale < 0 {
		return fmt.Errorf("render.scale 不能为负数")
	}
	format := strings.ToLower(c.Render.Format)
	if !renderFormats[format] {
		return fmt.Errorf("不支持的输出格式 %q", c.Render.Format)
	}
	c.Render.Format = format
	return nil
}
