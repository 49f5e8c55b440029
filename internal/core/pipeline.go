package core

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/fetch"
	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
	"github.com/RecoveryAshes/SiteMapCrawl/internal/sitemap"
	"github.com/RecoveryAshes/SiteMapCrawl/internal/utils"
)

// Pipeline 主协调器: sitemap发现 -> 并发抓取 -> 报告
type Pipeline struct {
	sitemapURL string
	config     models.CrawlConfig
	outputDir  string
	resource   ResourceConfig

	headerProvider models.HeaderProvider
}

// NewPipeline 创建抓取流水线
func NewPipeline(sitemapURL string, config models.CrawlConfig, outputDir string, resource ResourceConfig, headerProvider models.HeaderProvider) (*Pipeline, error) {
	if err := models.ValidateURL(sitemapURL); err != nil {
		return nil, fmt.Errorf("无效的sitemap URL: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		sitemapURL:     sitemapURL,
		config:         config,
		outputDir:      outputDir,
		resource:       resource,
		headerProvider: headerProvider,
	}, nil
}

// Run 执行完整流程
//
// 执行流程:
//  1. 创建输出目录
//  2. 展开sitemap得到页面URL列表 (失败或得到0个URL即整体失败)
//  3. 在并发上限内抓取全部页面
//  4. 写入results.json与crawl_report.json
//
// 只有sitemap发现和输出目录创建的失败会向外传播;
// 单个页面的失败全部记录在报告里,不影响退出状态
func (p *Pipeline) Run() (*models.RunReport, error) {
	startTime := time.Now()

	utils.Infof("🚀 开始分析sitemap: %s", p.sitemapURL)
	utils.Infof("并发数: %d, 超时: %d秒, 输出目录: %s", p.config.Threads, p.config.Timeout, p.outputDir)

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	headers, err := p.headerProvider.GetHeaders()
	if err != nil {
		return nil, err
	}

	client := newHTTPClient(time.Duration(p.config.Timeout) * time.Second)

	// sitemap发现: 失败直接结束整个运行
	resolver := sitemap.NewResolver(sitemap.NewFetcher(client, headers))
	urls, err := resolver.ResolveAllPageURLs(p.sitemapURL)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("sitemap中没有发现任何页面URL: %s", p.sitemapURL)
	}
	utils.Infof("共发现 %d 个待抓取URL", len(urls))

	// 抓取阶段开启资源监控,只告警不调速
	monitor := fetch.NewResourceMonitor(fetch.ResourceMonitorConfig{
		SafetyReserveMemory: int64(p.resource.SafetyReserveMemory) * 1024 * 1024,
		SafetyThreshold:     int64(p.resource.SafetyThreshold) * 1024 * 1024,
		CPULoadThreshold:    p.resource.CPULoadThreshold,
	})
	monitor.Start(time.Duration(p.resource.SampleInterval) * time.Second)
	defer monitor.Stop()

	scheduler := fetch.NewScheduler(client, p.config.Threads, p.outputDir, p.config.SaveFiles, headers)
	results := scheduler.Run(urls)

	report := models.NewRunReport(p.sitemapURL, p.config, p.outputDir, results, startTime, time.Now())

	reporter := utils.NewReporter(p.outputDir)
	resultsPath, err := reporter.WriteResults(results)
	if err != nil {
		return nil, err
	}
	if err := reporter.WriteRunReport(report); err != nil {
		// 附加报告写失败不影响运行结果
		utils.Warnf("写入运行报告失败: %v", err)
	}

	utils.Infof("✅ 结果已保存: %s", resultsPath)
	utils.Infof("已处理 %d 个URL, 耗时 %.2f 秒", report.Stats.TotalURLs, report.Stats.Duration)

	return report, nil
}

// newHTTPClient 创建共享HTTP客户端
// 跳过TLS证书验证以便访问自签名/过期证书的站点;
// 除客户端超时外没有其他兜底,挂住的请求会占用一个并发槽位直到超时
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
		Timeout: timeout,
	}
}
