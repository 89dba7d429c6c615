package runner

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/donnie4w/go-logger/logger"
)

// 内存阈值
const (
	DefaultHighMemThreshold     uint64 = 1 * 1024 * 1024 * 1024 // 1GB
	DefaultCriticalMemThreshold uint64 = 2 * 1024 * 1024 * 1024 // 2GB
)

// MemoryStats 内存统计信息
type MemoryStats struct {
	HeapAlloc   uint64    // 堆已分配内存 (字节)
	HeapSys     uint64    // 堆系统内存 (字节)
	NumGC       uint32    // GC次数
	LastGCTime  time.Time // 上次GC时间
	MemoryUsage float64   // 内存使用率 (%)
}

// MemoryMonitor 调试模式下的内存监控器
type MemoryMonitor struct {
	interval             time.Duration
	highMemThreshold     uint64 // 高内存使用阈值
	criticalMemThreshold uint64 // 临界内存使用阈值
	cancel               context.CancelFunc
	done                 sync.WaitGroup
}

// StartMemoryMonitor 启动内存监控，ctx 取消或调用 Stop 后退出
func StartMemoryMonitor(ctx context.Context, interval time.Duration) *MemoryMonitor {
	ctx, cancel := context.WithCancel(ctx)
	m := &MemoryMonitor{
		interval:             interval,
		highMemThreshold:     DefaultHighMemThreshold,
		criticalMemThreshold: DefaultCriticalMemThreshold,
		cancel:               cancel,
	}

	m.done.Add(1)
	go m.monitorLoop(ctx)
	logger.Debug("内存监控已启动")
	return m
}

// Stop 停止内存监控并等待监控协程退出
func (m *MemoryMonitor) Stop() {
	m.cancel()
	m.done.Wait()
	logger.Debug("内存监控已停止")
}

func (m *MemoryMonitor) monitorLoop(ctx context.Context) {
	defer m.done.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := GetMemoryStats()
			logger.Debugf("内存使用: %.2f MB (%.1f%%), GC次数: %d",
				float64(stats.HeapAlloc)/1024/1024, stats.MemoryUsage, stats.NumGC)
			m.handleMemoryPressure(stats)
		case <-ctx.Done():
			return
		}
	}
}

// handleMemoryPressure 处理内存压力
//
//	@Description: 内存超过高阈值或使用率超过85%时强制GC，超过临界值时归还系统内存
func (m *MemoryMonitor) handleMemoryPressure(stats MemoryStats) bool {
	if stats.HeapAlloc <= m.highMemThreshold && stats.MemoryUsage <= 85.0 {
		return false
	}

	logger.Debug("内存使用过高，触发GC")
	runtime.GC()

	if stats.HeapAlloc > m.criticalMemThreshold {
		logger.Debug("内存使用达到临界值，释放系统内存")
		debug.FreeOSMemory()
	}
	return true
}

// GetMemoryStats 获取当前内存统计信息
func GetMemoryStats() MemoryStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	usage := 0.0
	if memStats.HeapSys > 0 {
		usage = float64(memStats.HeapAlloc) / float64(memStats.HeapSys) * 100
	}
	return MemoryStats{
		HeapAlloc:   memStats.HeapAlloc,
		HeapSys:     memStats.HeapSys,
		NumGC:       memStats.NumGC,
		LastGCTime:  time.Unix(0, int64(memStats.LastGC)),
		MemoryUsage: usage,
	}
}
