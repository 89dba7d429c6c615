package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"liferayscan/pkg/config"
	"liferayscan/pkg/network"
	"liferayscan/pkg/types"

	"github.com/donnie4w/go-logger/logger"
	"github.com/spf13/pflag"
)

// 支持的输出格式
var outputFormats = []string{"txt", "csv", "json", "msgpack"}

// BindFlags 在命令的参数集合上定义全部命令行选项
//
//	@Description: 默认值与内置配置一致，未显式指定的参数之后会被配置文件覆盖
func BindFlags(flagset *pflag.FlagSet, options *types.CmdOptionsType) {
	defaults := config.Default()

	// 目标
	flagset.StringSliceVarP(&options.Target, "url", "u", []string{}, "扫描目标: URL/域名/Host:Port，可重复指定")
	flagset.StringVarP(&options.TargetsList, "list", "l", "", "目标文件: 每行一个目标，#开头的行为注释")

	// 输出
	flagset.StringVarP(&options.Output, "output", "o", "", "结果输出: 保存结果的文件路径（根据扩展名识别 txt/csv/json/msgpack）")
	flagset.BoolVar(&options.JSONOutput, "json", false, "使用JSON格式输出结果到文件")
	flagset.StringVar(&options.Format, "format", defaults.Output.Format, "输出格式: txt|csv|json|msgpack")
	flagset.StringVar(&options.SockOutput, "sock", "", "结果输出: 以JSON行输出到socket文件")
	flagset.StringVar(&options.Match, "match", "", "结果过滤: CEL表达式，例如 'is_liferay && soap_api'")
	flagset.BoolVar(&options.NoColor, "no-color", false, "关闭控制台颜色")

	// 请求
	flagset.StringVarP(&options.Proxy, "proxy", "p", "", "HTTP客户端代理: [http|https|socks5://][username[:password]@]host[:port]")
	flagset.BoolVarP(&options.Insecure, "insecure", "k", false, "跳过TLS证书校验")
	flagset.IntVar(&options.ConnTimeout, "connect-timeout", defaults.HTTP.ConnectTimeout, "连接超时（秒）")
	flagset.IntVar(&options.Timeout, "timeout", defaults.HTTP.Timeout, "读超时（秒）: 从连接中读取响应的最大耗时")
	flagset.StringVar(&options.UserAgent, "user-agent", defaults.HTTP.UserAgent, "请求使用的User-Agent")

	// 并发
	flagset.IntVarP(&options.Threads, "threads", "t", defaults.Scan.Threads, "目标并发数")
	flagset.IntVarP(&options.Workers, "workers", "w", defaults.Scan.Workers, "单个目标的探测并发数")

	// 探测
	flagset.BoolVarP(&options.Force, "force", "f", false, "未识别为Liferay时仍执行全部探测")
	flagset.BoolVarP(&options.EnumUsers, "enum-users", "U", false, "通过博客RSS枚举用户")
	flagset.BoolVarP(&options.EnumPortlets, "enum-portlets", "P", false, "枚举已安装的portlet")

	// 字典
	flagset.StringVar(&options.UsersFile, "users-file", "", "屏幕名字典，默认使用内置字典")
	flagset.StringVar(&options.NamesFile, "names-file", "", "名字字典，默认使用内置字典")
	flagset.StringVar(&options.PortletsFile, "portlets-file", "", "portlet字典，默认使用内置字典")

	// 其他
	flagset.BoolVar(&options.Debug, "debug", false, "调试：打印debug日志")
	flagset.StringVarP(&options.Config, "config", "c", config.DefaultConfigFile, "配置文件路径")
	flagset.BoolVar(&options.InitConfig, "init-config", false, "初始化配置文件")
	flagset.BoolVar(&options.PrintPreset, "print", false, "打印当前生效的配置")
	flagset.BoolVarP(&options.Version, "version", "v", false, "查看版本信息")

	// 禁止自动排序参数
	flagset.SortFlags = false
}

// VerifyOptions 验证命令行选项，不合法的数值回退为默认值
func VerifyOptions(opt *types.CmdOptionsType) error {
	// 验证版本输入、初始化配置、打印配置参数
	if opt.Version || opt.InitConfig || opt.PrintPreset {
		return nil
	}

	// 验证目标输入
	if len(opt.Target) == 0 && opt.TargetsList == "" {
		return fmt.Errorf("必须使用`-u`或`-l`参数指定扫描目标")
	}

	// 确定输出格式
	opt.Format = OutputFormat(opt)
	if !isSupportedFormat(opt.Format) {
		return fmt.Errorf("输出格式仅支持 %s", strings.Join(outputFormats, "/"))
	}

	// 验证socket文件扩展名
	if opt.SockOutput != "" {
		ext := strings.ToLower(filepath.Ext(opt.SockOutput))
		if ext != ".sock" {
			return fmt.Errorf("socket输出文件扩展名必须是.sock")
		}
	}

	// 验证线程数
	if opt.Threads <= 0 {
		logger.Warnf("指定线程数无效，将使用默认值%d", config.DefaultThreads)
		opt.Threads = config.DefaultThreads
	}
	if opt.Workers <= 0 {
		logger.Warnf("指定探测并发数无效，将使用默认值%d", config.DefaultWorkers)
		opt.Workers = config.DefaultWorkers
	}

	// 验证超时时间
	if opt.ConnTimeout <= 0 {
		logger.Warnf("指定连接超时不合法，将使用默认值%v", network.DefaultConnectTimeout)
		opt.ConnTimeout = int(network.DefaultConnectTimeout.Seconds())
	}
	if opt.Timeout <= 0 {
		logger.Warnf("指定读超时不合法，将使用默认值%v", network.DefaultReadTimeout)
		opt.Timeout = int(network.DefaultReadTimeout.Seconds())
	}

	if strings.TrimSpace(opt.UserAgent) == "" {
		opt.UserAgent = network.DefaultUserAgent
	}

	return nil
}

// OutputFormat 确定输出格式：--json 优先，其次为输出文件扩展名，最后为 --format
func OutputFormat(opt *types.CmdOptionsType) string {
	if opt.JSONOutput {
		return "json"
	}
	if opt.Output != "" {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(opt.Output)), ".")
		if isSupportedFormat(ext) {
			return ext
		}
	}
	format := strings.ToLower(strings.TrimSpace(opt.Format))
	if format == "" {
		return config.DefaultFormat
	}
	return format
}

func isSupportedFormat(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}
