package models

import "fmt"

// CrawlConfig 抓取配置
type CrawlConfig struct {
	Threads   int  `mapstructure:"threads" json:"threads"`       // 并发请求数 (默认:10)
	Timeout   int  `mapstructure:"timeout" json:"timeout"`       // 单个请求超时(秒) (默认:30)
	SaveFiles bool `mapstructure:"save_files" json:"save_files"` // 是否保存页面原始内容到磁盘
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if c.Threads < 1 || c.Threads > 100 {
		return fmt.Errorf("并发数必须在1-100之间,当前值: %d", c.Threads)
	}
	if c.Timeout < 1 || c.Timeout > 300 {
		return fmt.Errorf("超时时间必须在1-300秒之间,当前值: %d", c.Timeout)
	}
	return nil
}
