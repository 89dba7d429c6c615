package common

import "github.com/donnie4w/go-logger/logger"

// 全局变量
var (
	// 维护的日志等级变量，go-logger中没有提供GetLevel的函数
	LogLevel = logger.LEVEL_INFO
)

// IsDebug 当前是否为调试日志级别
func IsDebug() bool {
	return LogLevel == logger.LEVEL_DEBUG
}
