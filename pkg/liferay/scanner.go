// Package liferay 实现针对 Liferay 门户的各类探测：每个探测请求一个已知端点，
// 并通过 matchers.go 中的命名规则将响应转换为具体的事实。
//
// 新旧两代 Liferay（<= 6.x 与 >= 7.x）的差异以有序的探测策略表示，
// 按顺序执行并以第一个命中的结果为准，不合并多个策略的部分证据。
package liferay

import (
	"context"
	"strings"

	"liferayscan/pkg/network"

	"github.com/donnie4w/go-logger/logger"
)

// Fetcher 发送单次GET请求
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*network.Response, error)
}

// TechAnalyzer 根据响应头和响应体识别站点技术栈
type TechAnalyzer interface {
	Technologies(header map[string][]string, body []byte) []string
}

// Scanner Liferay 探测器
type Scanner struct {
	fetcher Fetcher
	tech    TechAnalyzer
}

// Option Scanner 可选配置
type Option func(*Scanner)

// WithTechAnalyzer 为 SiteInfo 启用技术栈识别
func WithTechAnalyzer(tech TechAnalyzer) Option {
	return func(s *Scanner) {
		s.tech = tech
	}
}

// New 创建探测器
func New(fetcher Fetcher, opts ...Option) *Scanner {
	s := &Scanner{fetcher: fetcher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// endpoint 拼接探测地址，目标缺少结尾的 / 时自动补全
func endpoint(target, path string) string {
	if !strings.HasSuffix(target, "/") {
		target += "/"
	}
	return target + path
}

// get 请求目标下的端点，传输失败视为没有证据并返回 nil
func (s *Scanner) get(ctx context.Context, target, path string) *network.Response {
	if ctx.Err() != nil {
		return nil
	}
	resp, err := s.fetcher.Fetch(ctx, endpoint(target, path))
	if err != nil {
		logger.Debugf("探测 %s 无响应: %v", endpoint(target, path), err)
		return nil
	}
	return resp
}

// variant 针对某一代 Liferay 的探测策略
type variant struct {
	name    string
	path    string
	extract func(resp *network.Response) (string, bool)
}

// firstMatch 依次执行探测策略，返回第一个命中的结果
func (s *Scanner) firstMatch(ctx context.Context, target string, variants ...variant) (string, bool) {
	for _, v := range variants {
		resp := s.get(ctx, target, v.path)
		if resp == nil {
			continue
		}
		if value, ok := v.extract(resp); ok {
			logger.Debugf("%s 命中探测策略 %s", endpoint(target, v.path), v.name)
			return value, true
		}
	}
	return "", false
}

// check 布尔型探测的便捷包装
func check(fn func(resp *network.Response) bool) func(*network.Response) (string, bool) {
	return func(resp *network.Response) (string, bool) {
		return "", fn(resp)
	}
}
