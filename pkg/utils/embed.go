package utils

import (
	"embed"
	"fmt"
	"os"

	"liferayscan/pkg/utils/common"

	"github.com/donnie4w/go-logger/logger"
)

// 内置字典文件名
const (
	WordlistUsers    = "users.txt"    // 常见屏幕名
	WordlistNames    = "names.txt"    // 常见名字
	WordlistPortlets = "portlets.txt" // 常见 portlet
)

//go:embed data/*.txt
var EmbeddedWordlistFS embed.FS

// GetWordlist 读取字典，path 为空时使用内置字典
//
//	@Description: 返回的内容已去除注释和空行、排序并去重
//	@param name 内置字典文件名
//	@param path 自定义字典路径
func GetWordlist(name, path string) ([]string, error) {
	if path != "" {
		if !common.Exists(path) {
			return nil, fmt.Errorf("字典文件不存在: %s", path)
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("读取字典文件失败: %w", err)
		}
		defer func() { _ = file.Close() }()

		lines, err := ParseWordlist(file)
		if err != nil {
			return nil, fmt.Errorf("解析字典文件 %s 出错: %w", path, err)
		}
		logger.Debugf("加载自定义字典 %s，共 %d 条", path, len(lines))
		return lines, nil
	}

	file, err := EmbeddedWordlistFS.Open("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("未找到内置字典 %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	return ParseWordlist(file)
}

// GetUserCandidates 合并屏幕名字典与名字字典，作为博客 RSS 枚举的候选列表
func GetUserCandidates(usersPath, namesPath string) ([]string, error) {
	users, err := GetWordlist(WordlistUsers, usersPath)
	if err != nil {
		return nil, err
	}
	names, err := GetWordlist(WordlistNames, namesPath)
	if err != nil {
		return nil, err
	}
	return PrepareWordlist(append(users, names...)), nil
}
