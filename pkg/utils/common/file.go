package common

import (
	"os"
	"path/filepath"
	"strings"
)

// Exists 判断文件是否存在（仅当可访问且存在时返回 true）
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsYamlFile 判断文件是否为YAML格式
func IsYamlFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// EnsureDir 确保文件所在目录存在
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
