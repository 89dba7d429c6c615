package runner

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"liferayscan/pkg/liferay"
	"liferayscan/pkg/network"
	"liferayscan/pkg/types"

	"github.com/donnie4w/go-logger/logger"
)

// DetectOptions 单个目标的探测选项
type DetectOptions struct {
	Force             bool     // 未识别为Liferay时仍执行全部探测
	EnumerateUsers    bool     // 通过博客RSS枚举用户
	EnumeratePortlets bool     // 枚举已安装的portlet
	Users             []string // 用户枚举候选列表
	Portlets          []string // portlet候选列表
	Workers           int      // 探测并发数
	OnProgress        func()   // 字典枚举每完成一项回调一次
}

// Detector 探测编排器：先判定是否为 Liferay，再并发执行其余探测
type Detector struct {
	scanner *liferay.Scanner
	opts    DetectOptions
	stats   probeStats
}

// NewDetector 创建探测编排器
func NewDetector(fetcher liferay.Fetcher, opts DetectOptions, scanOpts ...liferay.Option) *Detector {
	if opts.Workers <= 0 {
		opts.Workers = liferay.DefaultWorkers
	}
	return &Detector{
		scanner: liferay.New(fetcher, scanOpts...),
		opts:    opts,
	}
}

// Stats 探测任务统计
func (d *Detector) Stats() PoolStats {
	return d.stats.snapshot()
}

// NormalizeTarget 规范化目标地址
//
//	@Description: 缺少协议时补全（443端口为https，其余为http），仅允许 http/https，并确保以 / 结尾
func NormalizeTarget(target string) (string, error) {
	target = network.EnsureScheme(target)
	if target == "" {
		return "", fmt.Errorf("目标URL不能为空")
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("目标URL解析失败: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("不支持的协议 %q，仅支持 http/https", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("目标URL缺少主机: %s", target)
	}
	u.Scheme = scheme
	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

// Detect 对单个目标执行完整探测
//
//	@Description: 登录跳转探测命中后不再请求首页；未识别为 Liferay 且未指定 Force 时其余字段保持为空。
//	ctx 取消后尚未完成的探测视为没有证据，此时返回已获取的结果和 ctx 的错误
func (d *Detector) Detect(ctx context.Context, target string) (*types.Fingerprint, error) {
	base, err := NormalizeTarget(target)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fp := &types.Fingerprint{Target: base}

	fp.IsLiferay = d.scanner.DetectFromLogin(ctx, base)
	if !fp.IsLiferay {
		fp.IsLiferay = d.scanner.DetectFromHome(ctx, base)
	}

	if !fp.IsLiferay && !d.opts.Force {
		logger.Debugf("%s 未识别为 Liferay", base)
		fp.Duration = time.Since(start)
		return fp, ctx.Err()
	}

	var site liferay.Site
	var searchUsers []types.User

	tasks := []probeTask{
		{name: "version", run: func() { fp.Version = d.scanner.Version(ctx, base) }},
		{name: "server-version", run: func() { fp.ServerVersion = d.scanner.ServerVersion(ctx, base) }},
		{name: "client-ip", run: func() { fp.ClientIPDisclosed = d.scanner.ClientIPAddress(ctx, base) }},
		{name: "language", run: func() { fp.Language = d.scanner.Language(ctx, base) }},
		{name: "email-domain", run: func() { fp.OrganisationEmailDomain = d.scanner.OrganisationEmail(ctx, base) }},
		{name: "registration", run: func() { fp.UserRegistrationEnabled = d.scanner.UserRegistration(ctx, base) }},
		{name: "sso", run: func() { fp.SSOEnabled = d.scanner.SSOEnabled(ctx, base) }},
		{name: "soap-api", run: func() { fp.SOAPAPIExposed = d.scanner.RemoteSoapAPI(ctx, base) }},
		{name: "json-api", run: func() { fp.JSONAPIExposed = d.scanner.RemoteJSONAPI(ctx, base) }},
		{name: "password-reset", run: func() { fp.PasswordResetEnabled = d.scanner.PasswordResetEnabled(ctx, base) }},
		{name: "captcha", run: func() { fp.PasswordResetCaptchaEnabled = d.scanner.PasswordResetUsesCaptcha(ctx, base) }},
		{name: "site-info", run: func() { site = d.scanner.SiteInfo(ctx, base) }},
		{name: "open-search", run: func() { searchUsers = d.scanner.UsersFromSearch(ctx, base) }},
	}
	runProbes(d.opts.Workers, tasks, &d.stats)

	if fp.ServerVersion != "" {
		fp.Server = types.ParseServerInfo(fp.ServerVersion)
	}
	fp.Title = site.Title
	fp.FaviconHash = site.FaviconHash
	fp.Technologies = site.Technologies

	enumOpts := liferay.EnumOptions{Workers: d.opts.Workers, OnProgress: d.opts.OnProgress}

	var rssUsers []types.User
	if d.opts.EnumerateUsers {
		logger.Debugf("%s 开始枚举用户，候选 %d 个", base, len(d.opts.Users))
		rssUsers = d.scanner.EnumerateUsersFromBlogRss(ctx, base, d.opts.Users, enumOpts)
	}
	fp.DiscoveredUsers = liferay.MergeUsers(rssUsers, searchUsers)
	if len(fp.DiscoveredUsers) == 0 {
		fp.DiscoveredUsers = nil
	}

	if d.opts.EnumeratePortlets {
		logger.Debugf("%s 开始枚举portlet，候选 %d 个", base, len(d.opts.Portlets))
		fp.InstalledPortlets = d.scanner.EnumeratePortlets(ctx, base, d.opts.Portlets, enumOpts)
	}

	fp.Duration = time.Since(start)
	return fp, ctx.Err()
}
