package cmd

import (
	"liferayscan/pkg/cli"

	"github.com/spf13/cobra"
)

// 版本命令
var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		cli.DisplayVersion()
	},
}

// init
//
//	@Description: 添加version命令、设置程序版本
func init() {
	rootCmd.AddCommand(cmdVersion)
	rootCmd.Version = cli.Version()
}
