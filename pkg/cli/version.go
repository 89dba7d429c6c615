package cli

import (
	"fmt"
	"runtime"
	"strings"

	"liferayscan/pkg/network"
)

// 版本信息，使用 var 使其可以通过 ldflags 修改
var (
	defaultName      = "LiferayScan"
	defaultVersion   = "v0.1.0"
	defaultAuthor    = "liferayscan"
	defaultBuildDate = "unknown"
	defaultGitCommit = "none"
)

// init 请求标识跟随构建版本
func init() {
	network.DefaultUserAgent = UserAgent()
}

// UserAgent 默认请求标识，形如 LiferayScan/0.1.0
func UserAgent() string {
	return defaultName + "/" + strings.TrimPrefix(defaultVersion, "v")
}

// Version 当前版本号
func Version() string {
	return defaultVersion
}

// DisplayVersion 打印版本信息
func DisplayVersion() {
	fmt.Printf("  %s version information: \n", defaultName)
	fmt.Printf("  Version:\t%s\n", defaultVersion)
	fmt.Printf("  Git Commit:\t%s\n", defaultGitCommit)
	fmt.Printf("  Go Version:\t%s\n", runtime.Version())
	fmt.Printf("  OS/Arch:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Build Time:\t%s\n", defaultBuildDate)
}
