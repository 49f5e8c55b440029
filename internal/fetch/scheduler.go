package fetch

import (
	"net/http"
	"sync"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
	"github.com/RecoveryAshes/SiteMapCrawl/internal/utils"
)

// Scheduler 在全局并发上限内把FetchPage铺开到整个URL列表
type Scheduler struct {
	client      *http.Client
	concurrency int
	outputDir   string
	saveFiles   bool
	headers     http.Header
}

// NewScheduler 创建抓取调度器
func NewScheduler(client *http.Client, concurrency int, outputDir string, saveFiles bool, headers http.Header) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		client:      client,
		concurrency: concurrency,
		outputDir:   outputDir,
		saveFiles:   saveFiles,
		headers:     headers,
	}
}

// Run 抓取全部URL并按派发顺序返回结果
//
// 每个URL立即启动一个goroutine,真正执行抓取前
// 先从计数信号量拿一个槽位,同时在跑的抓取最多concurrency个
// 所有任务无条件跑完才返回(完整屏障),没有失败即中止的逻辑
//
// results[i]固定对应urls[i],与完成顺序无关,
// 同样的sitemap输入多次运行产生同样顺序的报告
func (s *Scheduler) Run(urls []string) []models.PageResult {
	bar := utils.NewProgressBar(len(urls), "抓取页面")
	sem := make(chan struct{}, s.concurrency)
	registry := NewNameRegistry()
	results := make([]models.PageResult, len(urls))

	var wg sync.WaitGroup
	for i, pageURL := range urls {
		wg.Add(1)
		go func(idx int, pageURL string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = FetchPage(s.client, pageURL, s.outputDir, s.saveFiles, registry, s.headers)

			// 进度按任务完成推进一次
			_ = bar.Add(1)
		}(i, pageURL)
	}
	wg.Wait()

	_ = bar.Finish()
	return results
}
