package fetch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/utils"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceMonitor 抓取阶段的系统资源监控器
// 周期性采样内存和CPU,资源紧张时记录告警
// 只做观测: 并发上限是固定配置,不会被监控结果调整
type ResourceMonitor struct {
	config ResourceMonitorConfig

	// 系统总内存(字节)
	totalMemory uint64

	mu           sync.RWMutex
	lastMemStats runtime.MemStats
	lastCPUUsage float64

	cancelFunc context.CancelFunc
	isRunning  bool
}

// ResourceMonitorConfig 资源监控器配置
type ResourceMonitorConfig struct {
	SafetyReserveMemory int64 // 安全保留内存(字节)
	SafetyThreshold     int64 // 可用内存低于该值时告警(字节)
	CPULoadThreshold    int   // CPU负载告警阈值(%),>=200视为禁用CPU检查
}

// MemoryStatus 内存状态快照
type MemoryStatus struct {
	TotalMemory     uint64 // 系统总内存(字节)
	AllocatedMemory uint64 // 程序已分配内存(字节)
	AvailableMemory int64  // 可用内存(字节)
	MemoryPressure  string // 压力等级: normal/warning/critical
}

// NewResourceMonitor 创建资源监控器
func NewResourceMonitor(config ResourceMonitorConfig) *ResourceMonitor {
	vmStat, err := mem.VirtualMemory()
	var totalMem uint64
	if err != nil {
		// 读不到系统内存就按4GB估算
		utils.Warnf("获取系统内存失败,使用默认值4GB: %v", err)
		totalMem = 4 * 1024 * 1024 * 1024
	} else {
		totalMem = vmStat.Total
		utils.Debugf("系统总内存: %.2f GB", float64(totalMem)/(1024*1024*1024))
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &ResourceMonitor{
		config:       config,
		totalMemory:  totalMem,
		lastMemStats: memStats,
	}
}

// Start 启动后台采样,重复启动是幂等的
func (rm *ResourceMonitor) Start(interval time.Duration) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.isRunning {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	rm.cancelFunc = cancel
	rm.isRunning = true

	go rm.loop(ctx, interval)
}

// Stop 停止后台采样
func (rm *ResourceMonitor) Stop() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.isRunning && rm.cancelFunc != nil {
		rm.cancelFunc()
		rm.isRunning = false
		rm.cancelFunc = nil
	}
}

// loop 后台采样循环
func (rm *ResourceMonitor) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var memStats runtime.MemStats
			runtime.ReadMemStats(&memStats)

			cpuUsage := sampleCPUUsage()

			rm.mu.Lock()
			rm.lastMemStats = memStats
			rm.lastCPUUsage = cpuUsage
			rm.mu.Unlock()

			rm.warnOnPressure(cpuUsage)
		}
	}
}

// sampleCPUUsage 采样系统CPU平均使用率(百分比)
func sampleCPUUsage() float64 {
	// 100毫秒采样窗口,perCPU=false返回所有核心的平均值
	percentages, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(percentages) == 0 {
		return 0.0
	}
	return percentages[0]
}

// warnOnPressure 资源紧张时记录告警
func (rm *ResourceMonitor) warnOnPressure(cpuUsage float64) {
	status := rm.MemoryStatus()

	if status.MemoryPressure != "normal" {
		utils.Warnf("可用内存不足(当前%dMB,等级=%s),抓取可能变慢",
			status.AvailableMemory/(1024*1024), status.MemoryPressure)
	}

	if rm.config.CPULoadThreshold < 200 && cpuUsage > float64(rm.config.CPULoadThreshold) {
		utils.Warnf("CPU负载过高(当前%.1f%%,阈值%d%%)", cpuUsage, rm.config.CPULoadThreshold)
	}
}

// MemoryStatus 返回当前内存状态
func (rm *ResourceMonitor) MemoryStatus() MemoryStatus {
	rm.mu.RLock()
	memStats := rm.lastMemStats
	rm.mu.RUnlock()

	allocated := memStats.Alloc
	available := int64(rm.totalMemory) - int64(allocated) - rm.config.SafetyReserveMemory

	pressure := "normal"
	switch {
	case available < rm.config.SafetyThreshold/2:
		pressure = "critical"
	case available < rm.config.SafetyThreshold:
		pressure = "warning"
	}

	return MemoryStatus{
		TotalMemory:     rm.totalMemory,
		AllocatedMemory: allocated,
		AvailableMemory: available,
		MemoryPressure:  pressure,
	}
}
