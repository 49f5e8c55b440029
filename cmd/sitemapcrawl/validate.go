package main

import (
	"fmt"
	"net/url"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
)

// ValidateFlags 验证命令行标志
func ValidateFlags(threads, timeout int, outputDir string) error {
	if threads < 1 || threads > 100 {
		return fmt.Errorf("并发数必须在1-100之间,当前值: %d", threads)
	}
	if timeout < 1 || timeout > 300 {
		return fmt.Errorf("超时时间必须在1-300秒之间,当前值: %d", timeout)
	}
	if outputDir == "" {
		return fmt.Errorf("输出目录不能为空")
	}
	return nil
}

// NormalizeURL 规范化URL,没有协议时默认补https
func NormalizeURL(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	if parsed.Scheme == "" {
		urlStr = "https://" + urlStr
		parsed, err = url.Parse(urlStr)
		if err != nil {
			return "", err
		}
	}

	if err := models.ValidateURL(parsed.String()); err != nil {
		return "", err
	}

	return parsed.String(), nil
}
