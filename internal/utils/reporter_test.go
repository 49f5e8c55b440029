package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
)

func TestReporter_WriteResults(t *testing.T) {
	outputDir := t.TempDir()
	reporter := NewReporter(outputDir)

	results := []models.PageResult{
		{URL: "http://a.com/1", StatusCode: 200, ContentLength: 10, MimeType: "text/html"},
		{URL: "http://a.com/2", StatusCode: 200, ContentLength: 20, MimeType: "text/html"},
		{URL: "http://a.com/3", StatusCode: 200, ContentLength: 30, MimeType: "text/html"},
	}

	path, err := reporter.WriteResults(results)
	if err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if path != filepath.Join(outputDir, ResultsFileName) {
		t.Errorf("期望路径=%s, 实际=%s", filepath.Join(outputDir, ResultsFileName), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取结果文件失败: %v", err)
	}

	// 输出必须是美化过的JSON数组
	if !strings.HasPrefix(string(data), "[\n") {
		t.Errorf("期望美化输出, 实际开头=%q", string(data)[:2])
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("结果文件不是合法JSON: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("期望3个对象, 实际=%d", len(decoded))
	}
	for i, obj := range decoded {
		if _, hasError := obj["error"]; hasError {
			t.Errorf("第%d个对象不应包含error键", i)
		}
		if obj["url"] != results[i].URL {
			t.Errorf("第%d个对象顺序错误: %v", i, obj["url"])
		}
	}
}

func TestReporter_WriteRunReport(t *testing.T) {
	outputDir := t.TempDir()
	reporter := NewReporter(outputDir)

	report := models.NewRunReport(
		"http://a.com/sitemap.xml",
		models.CrawlConfig{Threads: 10, Timeout: 30},
		outputDir,
		[]models.PageResult{{URL: "http://a.com/1", StatusCode: 200, ContentLength: 5}},
		time.Now().Add(-time.Second),
		time.Now(),
	)

	if err := reporter.WriteRunReport(report); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, RunReportFileName))
	if err != nil {
		t.Fatalf("读取报告失败: %v", err)
	}

	var decoded models.RunReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("报告不是合法JSON: %v", err)
	}
	if decoded.SitemapURL != "http://a.com/sitemap.xml" {
		t.Errorf("期望sitemap_url保留, 实际=%q", decoded.SitemapURL)
	}
	if decoded.Stats.Successful != 1 {
		t.Errorf("期望成功=1, 实际=%d", decoded.Stats.Successful)
	}
}
