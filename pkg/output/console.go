package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"liferayscan/pkg/types"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// CreateProgressBar 创建进度条
func CreateProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		int64(total),
		progressbar.OptionSetWidth(50),
		progressbar.OptionEnableColorCodes(false),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
}

// Summary 扫描统计
type Summary struct {
	Total    int // 目标总数
	Liferay  int // 识别为 Liferay
	NotFound int // 未识别为 Liferay
	Failed   int // 目标无效等原因未完成扫描
	Filtered int // 被 --match 过滤的结果
}

// PrintSummary 打印汇总信息
func PrintSummary(s Summary) {
	fmt.Println(color.CyanString("─────────────────────────────────────────────────────"))
	fmt.Printf("扫描统计: 目标总数 %d, Liferay %d, 非Liferay %d, 失败 %d", s.Total, s.Liferay, s.NotFound, s.Failed)
	if s.Filtered > 0 {
		fmt.Printf(", 已过滤 %d", s.Filtered)
	}
	fmt.Println()
}

// Report 控制台报告
type Report struct {
	good *color.Color
	bad  *color.Color
	info *color.Color
}

// NewReport 创建控制台报告，noColor 为 true 时输出纯文本，否则由终端类型决定
func NewReport(noColor bool) *Report {
	r := &Report{
		good: color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		info: color.New(color.FgCyan),
	}
	if noColor {
		r.good.DisableColor()
		r.bad.DisableColor()
		r.info.DisableColor()
	}
	return r
}

// Format 将单个目标的探测结果格式化为多行文本
//
//	@Description: 正面结果以 [+] 开头，未发现或否定结果以 [-] 开头；未识别为 Liferay 时只输出一行
func (r *Report) Format(fp *types.Fingerprint) string {
	var sb strings.Builder
	sb.WriteString(r.info.Sprintf("[*] %s", fp.Target))
	if fp.Duration > 0 {
		sb.WriteString(fmt.Sprintf(" (%s)", fp.Duration.Round(time.Millisecond)))
	}
	sb.WriteByte('\n')

	if !fp.IsLiferay {
		r.line(&sb, false, "未识别为 Liferay")
		if fp.Version == "" && fp.ServerVersion == "" && len(fp.DiscoveredUsers) == 0 {
			return sb.String()
		}
	} else {
		r.line(&sb, true, "识别为 Liferay")
	}

	r.value(&sb, "版本", fp.Version)
	r.value(&sb, "应用服务器", fp.ServerVersion)
	r.value(&sb, "泄露的客户端IP", fp.ClientIPDisclosed)
	r.value(&sb, "默认语言", fp.Language)
	r.value(&sb, "组织邮箱域名", fp.OrganisationEmailDomain)
	r.flag(&sb, fp.UserRegistrationEnabled, "开放用户注册", "未开放用户注册")
	r.flag(&sb, fp.SSOEnabled, "启用SSO单点登录", "未启用SSO单点登录")
	r.flag(&sb, fp.SOAPAPIExposed, "允许远程访问SOAP接口", "SOAP接口不可访问")
	r.flag(&sb, fp.JSONAPIExposed, "允许远程访问JSON接口", "JSON接口不可访问")
	r.flag(&sb, fp.PasswordResetEnabled, "开放找回密码", "未开放找回密码")
	if fp.PasswordResetEnabled {
		r.flag(&sb, fp.PasswordResetCaptchaEnabled, "找回密码需要验证码", "找回密码不需要验证码")
	}

	if fp.Title != "" {
		r.line(&sb, true, "标题: "+fp.Title)
	}
	if fp.FaviconHash != "" {
		r.line(&sb, true, "Favicon Hash: "+fp.FaviconHash)
	}
	if len(fp.Technologies) > 0 {
		r.line(&sb, true, "技术栈: "+formatStringArray(fp.Technologies))
	}

	if len(fp.DiscoveredUsers) > 0 {
		r.line(&sb, true, fmt.Sprintf("发现用户 %d 个", len(fp.DiscoveredUsers)))
		for _, u := range fp.DiscoveredUsers {
			sb.WriteString("    - " + formatUser(u) + "\n")
		}
	}
	if len(fp.InstalledPortlets) > 0 {
		r.line(&sb, true, fmt.Sprintf("已安装的portlet %d 个", len(fp.InstalledPortlets)))
		for _, p := range fp.InstalledPortlets {
			sb.WriteString("    - " + p + "\n")
		}
	}
	return sb.String()
}

func (r *Report) line(sb *strings.Builder, positive bool, msg string) {
	if positive {
		sb.WriteString(r.good.Sprint("[+] "))
	} else {
		sb.WriteString(r.bad.Sprint("[-] "))
	}
	sb.WriteString(msg)
	sb.WriteByte('\n')
}

func (r *Report) value(sb *strings.Builder, name, v string) {
	if v == "" {
		r.line(sb, false, name+": 未获取到")
		return
	}
	r.line(sb, true, name+": "+v)
}

func (r *Report) flag(sb *strings.Builder, v bool, yes, no string) {
	if v {
		r.line(sb, true, yes)
	} else {
		r.line(sb, false, no)
	}
}
