package models

import (
	"encoding/json"
	"time"
)

// PageResult 单个页面的抓取结果
// 由FetchWorker构造后不再修改
// 约定: Error非空 当且仅当 抓取或保存步骤失败;
// StatusCode为0表示请求在收到响应前就已失败(传输层错误)
type PageResult struct {
	URL           string `json:"url"`            // 页面URL
	StatusCode    int    `json:"status_code"`    // HTTP状态码 (0=未收到响应)
	ContentLength int    `json:"content_length"` // 响应体字节数 (失败时为0)
	MimeType      string `json:"mime_type"`      // Content-Type头部 (缺失时为"unknown")
	Error         string `json:"error,omitempty"` // 错误信息 (成功时整个字段从JSON中省略)
}

// Failed 判断该结果是否失败
func (r *PageResult) Failed() bool {
	return r.Error != ""
}

// RunStats 一次运行的统计信息
type RunStats struct {
	TotalURLs  int     `json:"total_urls"`  // 处理的URL总数
	Successful int     `json:"successful"`  // 成功数 (Error为空)
	Failed     int     `json:"failed"`      // 失败数 (TotalURLs - Successful)
	TotalBytes int64   `json:"total_bytes"` // 成功抓取的总字节数
	Duration   float64 `json:"duration"`    // 总耗时(秒)
}

// RunReport 一次运行的完整报告
// Results按任务派发顺序排列(与sitemap中出现的顺序一致),
// 与各任务的实际完成顺序无关,保证同样输入下输出确定
type RunReport struct {
	// 任务信息
	TaskID     string `json:"task_id"`     // 运行唯一ID (UUID)
	SitemapURL string `json:"sitemap_url"` // 根sitemap URL

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// 统计信息
	Stats RunStats `json:"stats"`

	// 配置快照
	Config CrawlConfig `json:"config"`

	// 输出路径
	OutputDir string `json:"output_dir"`

	// 结果列表 (单独写入results.json, 不随报告序列化)
	Results []PageResult `json:"-"`
}

// NewRunReport 根据结果列表汇总报告
func NewRunReport(sitemapURL string, config CrawlConfig, outputDir string, results []PageResult, start, end time.Time) *RunReport {
	stats := RunStats{
		TotalURLs: len(results),
		Duration:  end.Sub(start).Seconds(),
	}
	for i := range results {
		if results[i].Failed() {
			stats.Failed++
			continue
		}
		stats.Successful++
		stats.TotalBytes += int64(results[i].ContentLength)
	}

	return &RunReport{
		TaskID:     generateID(),
		SitemapURL: sitemapURL,
		StartTime:  start,
		EndTime:    end,
		Stats:      stats,
		Config:     config,
		OutputDir:  outputDir,
		Results:    results,
	}
}

// ToJSON 序列化为JSON
func (r *RunReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
