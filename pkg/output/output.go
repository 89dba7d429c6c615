// Package output 输出探测结果
//
// 本模块主要功能:
//  1. 控制台彩色报告、进度条和扫描统计
//  2. 将探测结果以 txt/csv/json/msgpack 格式写入文件
//  3. 通过 Unix domain socket 实时推送 JSON 行结果
package output

import (
	"liferayscan/pkg/types"
)

// 输出格式
const (
	FormatTXT     = "txt"
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Writer 探测结果的输出目标
type Writer interface {
	Write(fp *types.Fingerprint) error
	Close() error
}

// MultiWriter 依次写入多个输出目标
type MultiWriter []Writer

// Write 写入全部输出目标，返回第一个错误
func (m MultiWriter) Write(fp *types.Fingerprint) error {
	var first error
	for _, w := range m {
		if err := w.Write(fp); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close 关闭全部输出目标，返回第一个错误
func (m MultiWriter) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
