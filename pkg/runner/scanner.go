package runner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"liferayscan/pkg/types"

	"github.com/donnie4w/go-logger/logger"
)

// getTargets 从命令行参数和文件中读取目标，按输入顺序去重
func getTargets(options *types.CmdOptionsType) ([]string, error) {
	unique := make(map[string]struct{}, len(options.Target))
	targets := make([]string, 0, len(options.Target))
	totalLines := 0

	add := func(line string) {
		// 移除字符串前后空白字符，跳过空行和注释
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			return
		}
		totalLines++
		if _, ok := unique[line]; ok {
			return
		}
		unique[line] = struct{}{}
		targets = append(targets, line)
	}

	for _, t := range options.Target {
		add(t)
	}

	if options.TargetsList != "" {
		file, err := os.Open(options.TargetsList)
		if err != nil {
			return nil, fmt.Errorf("读取目标文件失败: %w", err)
		}
		defer func() { _ = file.Close() }()

		scanner := bufio.NewScanner(file)
		// 提升扫描缓存，避免异常长行导致的扫描失败
		buf := make([]byte, 0, 1024*1024)
		scanner.Buffer(buf, 1024*1024)
		for scanner.Scan() {
			add(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("扫描目标文件出错: %w", err)
		}
	}

	duplicateCount := totalLines - len(targets)
	logger.Infof("原始目标数量：%v个，重复目标数量：%v个，去重后目标数量：%v个", totalLines, duplicateCount, len(targets))
	return targets, nil
}

// ProcessURL 探测单个目标并判断是否满足过滤表达式
func (r *Runner) ProcessURL(ctx context.Context, target string) *TargetResult {
	result := &TargetResult{Target: target}

	fp, err := r.detector.Detect(ctx, target)
	result.Fingerprint = fp
	result.Err = err
	if fp == nil {
		return result
	}

	matched, err := r.filter.Match(fp)
	if err != nil {
		logger.Warnf("目标 %s 过滤表达式执行失败: %v", fp.Target, err)
	}
	result.Matched = matched
	return result
}
