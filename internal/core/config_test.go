package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_默认值(t *testing.T) {
	// 找不到配置文件时全部使用默认值
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}

	if config.Crawl.Threads != 10 {
		t.Errorf("期望默认并发=10, 实际=%d", config.Crawl.Threads)
	}
	if config.Crawl.Timeout != 30 {
		t.Errorf("期望默认超时=30, 实际=%d", config.Crawl.Timeout)
	}
	if config.Crawl.SaveFiles {
		t.Error("默认不应保存文件")
	}
	if config.Output.BaseDir != "output" {
		t.Errorf("期望默认输出目录=output, 实际=%s", config.Output.BaseDir)
	}
	if config.Logging.Level != "info" {
		t.Errorf("期望默认日志级别=info, 实际=%s", config.Logging.Level)
	}
}

func TestLoadConfig_配置文件覆盖默认值(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `crawl:
  threads: 25
  timeout: 60
  save_files: true
output:
  base_dir: "/tmp/crawl-out"
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if config.Crawl.Threads != 25 {
		t.Errorf("期望并发=25, 实际=%d", config.Crawl.Threads)
	}
	if config.Crawl.Timeout != 60 {
		t.Errorf("期望超时=60, 实际=%d", config.Crawl.Timeout)
	}
	if !config.Crawl.SaveFiles {
		t.Error("期望save_files=true")
	}
	if config.Output.BaseDir != "/tmp/crawl-out" {
		t.Errorf("期望输出目录=/tmp/crawl-out, 实际=%s", config.Output.BaseDir)
	}
	// 未配置的段保持默认
	if config.Logging.Rotation.MaxSize != 10 {
		t.Errorf("期望轮转大小保持默认=10, 实际=%d", config.Logging.Rotation.MaxSize)
	}
}

func TestConfig_MergeCLIFlags(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	config.MergeCLIFlags(20, 15, "custom-out", true)

	if config.Crawl.Threads != 20 {
		t.Errorf("期望并发=20, 实际=%d", config.Crawl.Threads)
	}
	if config.Crawl.Timeout != 15 {
		t.Errorf("期望超时=15, 实际=%d", config.Crawl.Timeout)
	}
	if config.Output.BaseDir != "custom-out" {
		t.Errorf("期望输出目录=custom-out, 实际=%s", config.Output.BaseDir)
	}
	if !config.Crawl.SaveFiles {
		t.Error("期望save_files=true")
	}
}
