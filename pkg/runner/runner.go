package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"liferayscan/pkg/cel"
	"liferayscan/pkg/liferay"
	"liferayscan/pkg/network"
	"liferayscan/pkg/output"
	"liferayscan/pkg/types"
	"liferayscan/pkg/utils"
	"liferayscan/pkg/utils/common"
	"liferayscan/pkg/wappalyzer"

	"github.com/donnie4w/go-logger/logger"
	"github.com/schollz/progressbar/v3"
)

// 全局配置常量
const (
	DefaultURLWorkers   = 5  // 目标处理池默认大小
	DefaultProbeWorkers = 10 // 单个目标的探测并发数
)

// Runner 多目标扫描运行器
type Runner struct {
	Config    *ScanConfig              // 配置参数
	Results   map[string]*TargetResult // 扫描结果
	mutex     sync.RWMutex             // 读写锁保护Results
	isRunning atomic.Bool              // 运行状态标志

	detector *Detector
	filter   *cel.Filter
	report   *output.Report
	writers  output.MultiWriter
	progress atomic.Pointer[progressbar.ProgressBar]
}

// NewScanConfig 根据命令行选项生成扫描配置
func NewScanConfig(options *types.CmdOptionsType) *ScanConfig {
	urlWorkerCount := options.Threads
	if urlWorkerCount <= 0 {
		urlWorkerCount = DefaultURLWorkers
	}
	probeWorkerCount := options.Workers
	if probeWorkerCount <= 0 {
		probeWorkerCount = DefaultProbeWorkers
	}

	return &ScanConfig{
		HTTP: network.Config{
			ConnectTimeout: time.Duration(options.ConnTimeout) * time.Second,
			ReadTimeout:    time.Duration(options.Timeout) * time.Second,
			UserAgent:      options.UserAgent,
			Insecure:       options.Insecure,
			Proxy:          options.Proxy,
			Logger:         network.NewLogger(options.Debug),
		},
		URLWorkerCount:   urlWorkerCount,
		ProbeWorkerCount: probeWorkerCount,
		Force:            options.Force,
		EnumUsers:        options.EnumUsers,
		EnumPortlets:     options.EnumPortlets,
		UsersFile:        options.UsersFile,
		NamesFile:        options.NamesFile,
		PortletsFile:     options.PortletsFile,
		OutputFormat:     options.Format,
		OutputFile:       options.Output,
		SockOutputFile:   options.SockOutput,
		Match:            options.Match,
		NoColor:          options.NoColor,
		Debug:            options.Debug,
	}
}

// NewRunner 创建一个新的扫描运行器，加载字典、编译过滤表达式并初始化请求客户端
func NewRunner(config *ScanConfig) (*Runner, error) {
	client, err := network.NewClient(config.HTTP)
	if err != nil {
		return nil, fmt.Errorf("初始化请求客户端失败: %w", err)
	}
	effective := client.Config()
	logger.Debugf("请求配置 - 连接超时: %v, 读超时: %v, User-Agent: %s",
		effective.ConnectTimeout, effective.ReadTimeout, effective.UserAgent)
	return newRunner(config, client)
}

func newRunner(config *ScanConfig, fetcher liferay.Fetcher) (*Runner, error) {
	r := &Runner{
		Config:  config,
		Results: make(map[string]*TargetResult),
		report:  output.NewReport(config.NoColor),
	}

	if config.Match != "" {
		filter, err := cel.NewFilter(config.Match)
		if err != nil {
			return nil, err
		}
		r.filter = filter
		logger.Infof("结果过滤表达式：%s", filter.String())
	}

	opts := DetectOptions{
		Force:             config.Force,
		EnumerateUsers:    config.EnumUsers,
		EnumeratePortlets: config.EnumPortlets,
		Workers:           config.ProbeWorkerCount,
		OnProgress:        r.tick,
	}
	if config.EnumUsers {
		users, err := utils.GetUserCandidates(config.UsersFile, config.NamesFile)
		if err != nil {
			return nil, fmt.Errorf("加载用户字典出错: %w", err)
		}
		opts.Users = users
		logger.Infof("加载用户字典：%d个", len(users))
	}
	if config.EnumPortlets {
		portlets, err := utils.GetWordlist(utils.WordlistPortlets, config.PortletsFile)
		if err != nil {
			return nil, fmt.Errorf("加载portlet字典出错: %w", err)
		}
		opts.Portlets = portlets
		logger.Infof("加载portlet字典：%d个", len(portlets))
	}

	var scanOpts []liferay.Option
	if wa, err := wappalyzer.NewWappalyzer(); err != nil {
		logger.Warnf("技术栈识别不可用: %v", err)
	} else {
		scanOpts = append(scanOpts, liferay.WithTechAnalyzer(wa))
	}

	r.detector = NewDetector(fetcher, opts, scanOpts...)
	return r, nil
}

// Run 执行扫描
func (r *Runner) Run(ctx context.Context, options *types.CmdOptionsType) error {
	// 检查扫描器是否已经运行
	if !r.isRunning.CompareAndSwap(false, true) {
		return fmt.Errorf("扫描器已在运行中")
	}
	// 确保扫描器停止
	defer r.isRunning.Store(false)

	// 处理目标URL列表
	targets, err := getTargets(options)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("未找到有效的目标URL")
	}

	if err := r.openOutputs(); err != nil {
		return err
	}
	defer func() {
		if err := r.writers.Close(); err != nil {
			logger.Errorf("关闭输出失败: %v", err)
		}
	}()

	if r.Config.Debug {
		monitor := StartMemoryMonitor(ctx, 30*time.Second)
		defer monitor.Stop()
	}

	logger.Infof("开始扫描 %d 个目标，使用 %d 个目标并发线程, %d 个探测并发线程...",
		len(targets), r.Config.URLWorkerCount, r.Config.ProbeWorkerCount)

	if err := r.runScan(ctx, targets); err != nil {
		return err
	}

	if common.IsDebug() {
		stats := r.detector.Stats()
		logger.Debugf("探测池统计 - 总任务: %d, 已完成: %d, 失败: %d",
			stats.TotalTasks, stats.CompletedTasks, stats.FailedTasks)
	}

	r.mutex.RLock()
	output.PrintSummary(summarize(targets, r.Results))
	r.mutex.RUnlock()

	return ctx.Err()
}

// openOutputs 初始化文件和socket输出
func (r *Runner) openOutputs() error {
	if r.Config.OutputFile != "" {
		w, err := output.NewFileWriter(r.Config.OutputFile, r.Config.OutputFormat)
		if err != nil {
			return fmt.Errorf("初始化输出文件失败: %w", err)
		}
		r.writers = append(r.writers, w)
		logger.Infof("结果输出文件：%s（%s）", w.Path(), r.Config.OutputFormat)
	}

	if r.Config.SockOutputFile != "" {
		w, err := output.NewSockWriter(r.Config.SockOutputFile)
		if err != nil {
			_ = r.writers.Close()
			r.writers = nil
			return fmt.Errorf("初始化socket输出文件失败: %w", err)
		}
		r.writers = append(r.writers, w)
		logger.Infof("Socket输出文件：%s", w.Path())
	}
	return nil
}

// runScan 在目标处理池中扫描全部目标
//
//	@Description: 多个目标时进度条统计目标数；单个目标且启用字典枚举时统计候选项数
func (r *Runner) runScan(ctx context.Context, targets []string) error {
	bar := r.newProgressBar(len(targets))
	stopRefresh := make(chan struct{})
	if bar != nil {
		r.progress.Store(bar)
		// 定时刷新进度条
		go func() {
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					_ = bar.RenderBlank()
				case <-stopRefresh:
					return
				}
			}
		}()
	}

	var printMu sync.Mutex
	printResult := func(msg string) {
		printMu.Lock()
		defer printMu.Unlock()
		if bar != nil {
			fmt.Print("\033[2K\r")
		}
		fmt.Print(msg)
		if bar != nil {
			_ = bar.RenderBlank()
		}
	}

	var urlWg sync.WaitGroup
	pool, err := NewWorkPoolWithFunc(
		r.Config.URLWorkerCount,
		func(i interface{}) {
			defer urlWg.Done()
			target, ok := i.(string)
			if !ok {
				logger.Error("无效的目标任务类型")
				return
			}

			result := r.ProcessURL(ctx, target)
			r.handleResult(result, printResult)

			r.mutex.Lock()
			r.Results[target] = result
			r.mutex.Unlock()

			if len(targets) > 1 {
				r.tick()
			}
		},
		r.Config.URLWorkerCount*5,
		3*time.Minute,
		func(i interface{}) { logger.Errorf("目标池goroutine异常: %v", i) },
	)
	if err != nil {
		close(stopRefresh)
		return fmt.Errorf("创建目标处理池失败: %w", err)
	}
	defer pool.Release()

	// 提交所有目标到线程池
	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		urlWg.Add(1)
		if err := pool.Invoke(target); err != nil {
			urlWg.Done()
			logger.Errorf("提交目标 %s 到线程池失败: %v", target, err)
		}
	}
	urlWg.Wait()

	close(stopRefresh)
	if bar != nil {
		r.progress.Store(nil)
		_ = bar.Finish()
	}
	return nil
}

func (r *Runner) newProgressBar(targets int) *progressbar.ProgressBar {
	if targets > 1 {
		return output.CreateProgressBar(targets, "Liferay探测")
	}
	candidates := 0
	if r.Config.EnumUsers {
		candidates += len(r.detector.opts.Users)
	}
	if r.Config.EnumPortlets {
		candidates += len(r.detector.opts.Portlets)
	}
	if candidates == 0 {
		return nil
	}
	return output.CreateProgressBar(candidates, "字典枚举")
}

// tick 推进进度条
func (r *Runner) tick() {
	if bar := r.progress.Load(); bar != nil {
		_ = bar.Add(1)
	}
}

// handleResult 输出单个目标的结果到终端、文件和socket
func (r *Runner) handleResult(result *TargetResult, printResult func(string)) {
	if result.Err != nil && result.Fingerprint == nil {
		logger.Errorf("处理目标 %s 失败: %v", result.Target, result.Err)
		return
	}
	if !result.Matched {
		logger.Debugf("目标 %s 不满足过滤表达式，已忽略", result.Fingerprint.Target)
		return
	}

	printResult(r.report.Format(result.Fingerprint))

	if err := r.writers.Write(result.Fingerprint); err != nil {
		logger.Errorf("写入结果失败: %v", err)
	}
}

// summarize 统计扫描结果
func summarize(targets []string, results map[string]*TargetResult) output.Summary {
	s := output.Summary{Total: len(targets)}
	for _, target := range targets {
		result, ok := results[target]
		if !ok || result.Fingerprint == nil || result.Err != nil {
			s.Failed++
			continue
		}
		if result.Fingerprint.IsLiferay {
			s.Liferay++
		} else {
			s.NotFound++
		}
		if !result.Matched {
			s.Filtered++
		}
	}
	return s
}
