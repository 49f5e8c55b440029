package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
	"github.com/schollz/progressbar/v3"
)

const (
	// ResultsFileName 页面结果文件名
	ResultsFileName = "results.json"

	// RunReportFileName 运行报告文件名
	RunReportFileName = "crawl_report.json"
)

// Reporter 报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// WriteResults 把页面结果写入results.json
// 输出为美化后的JSON数组,顺序与传入切片一致
// 返回写入的文件路径
func (r *Reporter) WriteResults(results []models.PageResult) (string, error) {
	path := filepath.Join(r.outputDir, ResultsFileName)

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("序列化结果失败: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("写入结果文件失败: %w", err)
	}

	Debugf("结果已写入: %s", path)
	return path, nil
}

// WriteRunReport 把运行报告写入crawl_report.json
func (r *Reporter) WriteRunReport(report *models.RunReport) error {
	path := filepath.Join(r.outputDir, RunReportFileName)

	data, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化运行报告失败: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入运行报告失败: %w", err)
	}

	Debugf("运行报告已写入: %s", path)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
