package runner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/donnie4w/go-logger/logger"
	"github.com/panjf2000/ants/v2"
)

// Pool 抽象的工作池接口，屏蔽对 ants 的直接依赖
type Pool interface {
	Invoke(i interface{}) error
	Release()
}

// antsPoolWrapper 使用 ants.PoolWithFunc 实现 Pool 接口
type antsPoolWrapper struct {
	inner *ants.PoolWithFunc
}

func (p *antsPoolWrapper) Invoke(i interface{}) error { return p.inner.Invoke(i) }
func (p *antsPoolWrapper) Release()                   { p.inner.Release() }

// NewWorkPoolWithFunc 创建一个带函数处理器的工作池
// 统一在此集中 ants 相关实现
func NewWorkPoolWithFunc(
	workerCount int,
	handler func(interface{}),
	maxBlockingTasks int,
	expiry time.Duration,
	panicHandler func(interface{}),
) (Pool, error) {
	pool, err := ants.NewPoolWithFunc(
		workerCount,
		handler,
		ants.WithPreAlloc(true),
		ants.WithExpiryDuration(expiry),
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(maxBlockingTasks),
		ants.WithPanicHandler(panicHandler),
	)
	if err != nil {
		return nil, err
	}
	return &antsPoolWrapper{inner: pool}, nil
}

// ===================== 探测任务池 =====================

// PoolStats 探测任务统计信息
type PoolStats struct {
	TotalTasks     int64 // 成功提交的总任务数
	CompletedTasks int64 // 已完成任务数
	FailedTasks    int64 // 异常或提交失败的任务数
}

// probeStats 并发安全的统计计数
type probeStats struct {
	total     atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func (s *probeStats) snapshot() PoolStats {
	return PoolStats{
		TotalTasks:     s.total.Load(),
		CompletedTasks: s.completed.Load(),
		FailedTasks:    s.failed.Load(),
	}
}

// probeTask 单个探测任务，每个任务只写入探测结果中属于自己的字段
type probeTask struct {
	name string
	run  func()
	wg   *sync.WaitGroup
}

// runProbes 在有界协程池中执行互相独立的探测任务并等待全部完成
func runProbes(workers int, tasks []probeTask, stats *probeStats) {
	if len(tasks) == 0 {
		return
	}
	if workers <= 0 || workers > len(tasks) {
		workers = len(tasks)
	}

	var wg sync.WaitGroup
	pool, err := NewWorkPoolWithFunc(
		workers,
		func(i interface{}) {
			task := i.(*probeTask)
			defer task.wg.Done()
			// 在 wg.Done 之前记录异常，保证返回时统计完整
			defer func() {
				if r := recover(); r != nil {
					stats.failed.Add(1)
					logger.Errorf("探测任务 %s 异常: %v", task.name, r)
				}
			}()
			task.run()
			stats.completed.Add(1)
		},
		len(tasks),
		time.Minute,
		func(i interface{}) { logger.Errorf("探测池goroutine异常: %v", i) },
	)
	if err != nil {
		// 无法创建协程池时顺序执行
		logger.Errorf("创建探测池失败: %v", err)
		for _, task := range tasks {
			stats.total.Add(1)
			task.run()
			stats.completed.Add(1)
		}
		return
	}
	defer pool.Release()

	for i := range tasks {
		task := &tasks[i]
		task.wg = &wg
		wg.Add(1)
		if err := pool.Invoke(task); err != nil {
			wg.Done()
			stats.failed.Add(1)
			logger.Errorf("提交探测任务 %s 失败: %v", task.name, err)
			continue
		}
		stats.total.Add(1)
	}
	wg.Wait()
}
