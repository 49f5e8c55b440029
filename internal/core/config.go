package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Crawl    models.CrawlConfig `mapstructure:"crawl"`
	Logging  LoggingConfig      `mapstructure:"logging"`
	Output   OutputConfig       `mapstructure:"output"`
	Resource ResourceConfig     `mapstructure:"resource"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// ResourceConfig 资源监控配置
type ResourceConfig struct {
	SafetyReserveMemory int `mapstructure:"safety_reserve_memory"` // 安全保留内存(MB)
	SafetyThreshold     int `mapstructure:"safety_threshold"`      // 可用内存告警阈值(MB)
	CPULoadThreshold    int `mapstructure:"cpu_load_threshold"`    // CPU负载告警阈值(%)
	SampleInterval      int `mapstructure:"sample_interval"`       // 采样间隔(秒)
}

// LoadConfig 加载配置文件
// configPath为空时搜索 ./configs、当前目录和 ~/.sitemapcrawl,
// 找不到配置文件就全部使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sitemapcrawl"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 抓取默认值
	v.SetDefault("crawl.threads", 10)
	v.SetDefault("crawl.timeout", 30)
	v.SetDefault("crawl.save_files", false)

	// 日志默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 输出默认值
	v.SetDefault("output.base_dir", "output")

	// 资源监控默认值
	v.SetDefault("resource.safety_reserve_memory", 256)
	v.SetDefault("resource.safety_threshold", 512)
	v.SetDefault("resource.cpu_load_threshold", 200)
	v.SetDefault("resource.sample_interval", 5)
}

// MergeCLIFlags 合并命令行参数到配置,命令行优先于配置文件
func (c *Config) MergeCLIFlags(threads, timeout int, outputDir string, saveFiles bool) {
	if threads > 0 {
		c.Crawl.Threads = threads
	}
	if timeout > 0 {
		c.Crawl.Timeout = timeout
	}
	if outputDir != "" {
		c.Output.BaseDir = outputDir
	}
	if saveFiles {
		c.Crawl.SaveFiles = true
	}
}
