package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"liferayscan/pkg/cli"
	"liferayscan/pkg/config"
	"liferayscan/pkg/runner"
	"liferayscan/pkg/types"
	"liferayscan/pkg/utils/common"

	"github.com/donnie4w/go-logger/logger"
	"github.com/spf13/cobra"
)

// 命令行参数
var options types.CmdOptionsType

// init
//
//	@Description: 工具入口，初始化日志格式
func init() {
	// 日志格式初始化
	logger.SetFormat(logger.FORMAT_TIME | logger.FORMAT_LEVELFLAG | logger.FORMAT_SHORTFILENAME)
	logger.SetFormatter("[{time}] {level} {message} [{file}]\n")
	logger.SetLevel(logger.LEVEL_INFO)
}

// run
//
//	@Description: 根命令的执行逻辑：加载配置、校验参数并启动扫描
//	@param cmd 根命令，用于判断参数是否被显式指定
//	@return error
func run(cmd *cobra.Command, _ []string) error {
	// 打印版本信息并退出
	if options.Version {
		cli.DisplayVersion()
		return nil
	}

	// 配置日志级别
	if options.Debug {
		logger.SetLevel(logger.LEVEL_DEBUG)
		common.LogLevel = logger.LEVEL_DEBUG
		logger.Debug("设置日志级别为：DEBUG")
	}

	// 初始化配置文件
	if options.InitConfig {
		return config.Default().Save(options.Config)
	}

	// 加载配置文件，命令行显式指定的参数优先
	cfg, found, err := config.Load(options.Config)
	if err != nil {
		return err
	}
	if found {
		logger.Infof("使用以下位置的配置文件：%s", options.Config)
	} else {
		logger.Debug("未能正确加载配置文件或配置文件不存在，使用默认配置")
	}
	cfg.Apply(&options, cmd.Flags().Changed)

	if err := cli.VerifyOptions(&options); err != nil {
		return err
	}

	// 打印当前生效的配置并退出
	if options.PrintPreset {
		data, err := config.Effective(&options).Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}

	cli.DisplayBanner()

	r, err := runner.NewRunner(runner.NewScanConfig(&options))
	if err != nil {
		return err
	}

	// Ctrl+C 时停止提交新目标，已完成的结果仍会输出
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Run(ctx, &options); err != nil {
		if ctx.Err() != nil {
			logger.Warn("扫描已被中断")
			return nil
		}
		return err
	}
	return nil
}
