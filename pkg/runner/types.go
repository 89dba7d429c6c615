package runner

import (
	"liferayscan/pkg/network"
	"liferayscan/pkg/types"
)

// ScanConfig 存储扫描配置参数
type ScanConfig struct {
	HTTP             network.Config // 请求客户端配置
	URLWorkerCount   int            // 目标并发数
	ProbeWorkerCount int            // 单个目标的探测并发数
	Force            bool           // 未识别为Liferay时仍继续探测
	EnumUsers        bool           // 博客RSS用户枚举
	EnumPortlets     bool           // portlet枚举
	UsersFile        string         // 屏幕名字典
	NamesFile        string         // 名字字典
	PortletsFile     string         // portlet字典
	OutputFormat     string         // 输出格式
	OutputFile       string         // 输出文件
	SockOutputFile   string         // 输出sock文件
	Match            string         // CEL结果过滤表达式
	NoColor          bool           // 关闭控制台颜色
	Debug            bool           // 调试模式，启用内存监控
}

// TargetResult 单个目标的扫描结果
type TargetResult struct {
	Target      string             // 原始输入
	Fingerprint *types.Fingerprint // 探测结果，目标无效时为 nil
	Err         error              // 目标无效或扫描被取消
	Matched     bool               // 是否满足过滤表达式
}
