package utils

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// ParseWordlist 按行读取字典并整理
func ParseWordlist(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	// 提升扫描缓存，避免异常长行导致的扫描失败
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return PrepareWordlist(lines), nil
}

// PrepareWordlist 去除首尾空白、注释行（# 开头）和空行，排序并去重，保留大小写
func PrepareWordlist(lines []string) []string {
	unique := make(map[string]struct{}, len(lines))
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := unique[line]; ok {
			continue
		}
		unique[line] = struct{}{}
		result = append(result, line)
	}
	sort.Strings(result)
	return result
}
