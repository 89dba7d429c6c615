package liferay

import (
	"context"
	"sync"

	"github.com/donnie4w/go-logger/logger"
	"github.com/panjf2000/ants/v2"
)

// DefaultWorkers 字典枚举的默认并发数
const DefaultWorkers = 10

// EnumOptions 字典枚举选项
type EnumOptions struct {
	Workers    int    // 并发请求数
	OnProgress func() // 每完成一个候选项回调一次，可为空
}

// forEachCandidate 在有界协程池中为每个候选项执行 fn，fn 以下标写入各自的结果槽位
func forEachCandidate(ctx context.Context, total int, opts EnumOptions, fn func(i int)) {
	if total == 0 {
		return
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > total {
		workers = total
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(workers, func(i interface{}) {
		defer wg.Done()
		if opts.OnProgress != nil {
			defer opts.OnProgress()
		}
		if ctx.Err() != nil {
			return
		}
		fn(i.(int))
	}, ants.WithPanicHandler(func(p interface{}) {
		logger.Errorf("枚举协程异常: %v", p)
	}))
	if err != nil {
		// 无法创建协程池时退化为顺序执行
		logger.Errorf("创建枚举协程池失败: %v", err)
		for i := 0; i < total && ctx.Err() == nil; i++ {
			fn(i)
			if opts.OnProgress != nil {
				opts.OnProgress()
			}
		}
		return
	}
	defer pool.Release()

	for i := 0; i < total; i++ {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			logger.Errorf("提交枚举任务失败: %v", err)
		}
	}
	wg.Wait()
}
