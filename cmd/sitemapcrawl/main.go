package main

import (
	"fmt"
	"os"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/core"
	"github.com/RecoveryAshes/SiteMapCrawl/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 只验证头部配置文件

	// 抓取参数
	threads   int
	timeout   int
	outputDir string
	saveFiles bool
)

var rootCmd = &cobra.Command{
	Use:   "sitemapcrawl <sitemap-url>",
	Short: "sitemap分析与并行页面抓取工具",
	Long: `SiteMapCrawl - sitemap分析与并行页面抓取工具

解析站点的sitemap(含嵌套的sitemap索引),在并发上限内抓取
全部页面,并生成每个页面抓取结果的JSON报告,支持:
  • sitemap索引自动展开(单层)
  • 固定并发上限的并行抓取
  • 单页失败隔离,不中断整体运行
  • 可选保存页面原始内容(文件名自动防冲突)
  • 自定义HTTP请求头

使用示例:
  # 只生成结果报告
  sitemapcrawl https://example.com/sitemap.xml

  # 保存页面内容,20并发
  sitemapcrawl https://example.com/sitemap.xml --save-files --threads 20

  # 自定义请求头
  sitemapcrawl https://example.com/sitemap.xml -H "Authorization: Bearer token"

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		logConfig := utils.LogConfig{
			Level:      appConfig.Logging.Level,
			LogDir:     appConfig.Logging.LogDir,
			MaxSize:    appConfig.Logging.Rotation.MaxSize,
			MaxBackups: appConfig.Logging.Rotation.MaxBackups,
			MaxAge:     appConfig.Logging.Rotation.MaxAge,
			Compress:   appConfig.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig.MergeCLIFlags(threads, timeout, outputDir, saveFiles)

		headerManager, err := core.NewHeaderManager("", headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		// 只验证头部配置
		if validateConfig {
			if err := headerManager.LoadConfig(); err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			if err := headerManager.Validate(); err != nil {
				return fmt.Errorf("配置验证失败: %w", err)
			}

			safeHeaders := headerManager.GetSafeHeaders()
			utils.Info("✅ 配置验证通过!")
			utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
			for name, value := range safeHeaders {
				utils.Infof("  %s: %s", name, value)
			}
			return nil
		}

		// 没有给sitemap URL就显示帮助
		if len(args) == 0 {
			return cmd.Help()
		}

		sitemapURL, err := NormalizeURL(args[0])
		if err != nil {
			return fmt.Errorf("无效的sitemap URL: %w", err)
		}

		if err := ValidateFlags(appConfig.Crawl.Threads, appConfig.Crawl.Timeout, appConfig.Output.BaseDir); err != nil {
			return err
		}

		pipeline, err := core.NewPipeline(
			sitemapURL,
			appConfig.Crawl,
			appConfig.Output.BaseDir,
			appConfig.Resource,
			headerManager,
		)
		if err != nil {
			return err
		}

		report, err := pipeline.Run()
		if err != nil {
			return fmt.Errorf("抓取失败: %w", err)
		}

		// 统计结果
		fmt.Println("\n==================================================")
		fmt.Println("📊 抓取统计")
		fmt.Println("==================================================")
		fmt.Printf("✅ URL总数: %d\n", report.Stats.TotalURLs)
		fmt.Printf("✅ 成功: %d\n", report.Stats.Successful)
		fmt.Printf("❌ 失败: %d\n", report.Stats.Failed)
		fmt.Printf("📦 总大小: %.2f MB\n", float64(report.Stats.TotalBytes)/(1024*1024))
		fmt.Printf("⏱️  总耗时: %.2f秒\n", report.Stats.Duration)
		fmt.Println("==================================================")
		fmt.Printf("Successful: %d, Failed: %d\n", report.Stats.Successful, report.Stats.Failed)

		utils.Info("✨ 抓取任务完成!")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("SiteMapCrawl %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证头部配置文件正确性")

	// 抓取参数
	rootCmd.Flags().IntVar(&threads, "threads", 10, "并行请求数")
	rootCmd.Flags().IntVar(&timeout, "timeout", 30, "单个页面请求超时(秒)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "输出目录")
	rootCmd.Flags().BoolVar(&saveFiles, "save-files", false, "保存页面原始内容,而不是只生成JSON报告")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
