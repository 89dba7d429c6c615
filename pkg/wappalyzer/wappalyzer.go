package wappalyzer

import (
	"fmt"
	"sort"

	"github.com/donnie4w/go-logger/logger"
	wappalyzer "github.com/projectdiscovery/wappalyzergo"
)

// Wappalyzer 技术识别器结构体
type Wappalyzer struct {
	client *wappalyzer.Wappalyze
}

// NewWappalyzer 创建一个新的Wappalyzer实例
func NewWappalyzer() (*Wappalyzer, error) {
	client, err := wappalyzer.New()
	if err != nil {
		return nil, fmt.Errorf("初始化Wappalyzer失败: %w", err)
	}

	return &Wappalyzer{
		client: client,
	}, nil
}

// Technologies 分析HTTP响应头和响应体，返回排序后的技术名称
func (w *Wappalyzer) Technologies(header map[string][]string, body []byte) []string {
	if w == nil || w.client == nil {
		logger.Debug("wappalyzer实例未正确初始化")
		return nil
	}

	apps := w.client.FingerprintWithInfo(header, body)
	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
