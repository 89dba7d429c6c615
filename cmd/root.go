package cmd

import (
	"os"

	"liferayscan/pkg/cli"

	"github.com/donnie4w/go-logger/logger"
	"github.com/spf13/cobra"
)

// 工具描述信息，执行命令即显示
var rootCmd = &cobra.Command{
	Use:   "liferayscan",
	Short: "LiferayScan is a Liferay portal fingerprinting and recon tool",
	Long: `    LiferayScan identifies Liferay portals and collects recon information from them:
version, default language, organisation email domain, registration and password
reset settings, SSO, exposed SOAP/JSON APIs, application server, disclosed client IP,
users and installed portlets. It supports batch scanning with CEL result filtering.`,
	Example: `  liferayscan -u https://portal.example.com
  liferayscan -l targets.txt -o result.json --match 'is_liferay && json_api'
  liferayscan -u https://portal.example.com --enum-users --enum-portlets`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// init
//
//	@Description: 注册命令行参数
func init() {
	cli.BindFlags(rootCmd.Flags(), &options)
}

// Execute
//
//	@Description: 整个程序的入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
