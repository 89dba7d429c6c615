package cli

import (
	"fmt"
)

// Banner 启动时显示的字符画
var Banner = "    __    _ ____                      _____                \n" +
	"   / /   (_) __/__  _________ ___  _/ ___/_________ _____ \n" +
	"  / /   / / /_/ _ \\/ ___/ __ `/ / / \\__ \\/ ___/ __ `/ __ \\\n" +
	" / /___/ / __/  __/ /  / /_/ / /_/ /__/ / /__/ /_/ / / / /\n" +
	"/_____/_/_/  \\___/_/   \\__,_/\\__, /____/\\___/\\__,_/_/ /_/ \n" +
	"                            /____/                        \n"

// DisplayBanner 打印 banner 信息
func DisplayBanner() {
	fmt.Print(Banner)
	fmt.Printf("    Version:%s  Author:%s  BuildDate:%s\n\n", defaultVersion, defaultAuthor, defaultBuildDate)
}
