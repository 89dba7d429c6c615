package types

import (
	"regexp"
	"strings"
)

// ServerInfo 定义服务器信息的结构体
type ServerInfo struct {
	OriginalServer string `json:"original_server" msgpack:"original_server"` // 原始服务器信息
	ServerType     string `json:"server_type" msgpack:"server_type"`         // 服务器类型
	Version        string `json:"version" msgpack:"version"`                 // 版本号
}

var serverVersionRe = regexp.MustCompile(`^(.*?)[/ ]v?([0-9][0-9.]*)$`)

// NewServerInfo 创建新的ServerInfo对象
func NewServerInfo(originalServer, serverType, version string) *ServerInfo {
	return &ServerInfo{
		OriginalServer: originalServer,
		ServerType:     serverType,
		Version:        version,
	}
}

// EmptyServerInfo 返回空的ServerInfo对象
func EmptyServerInfo() *ServerInfo {
	return &ServerInfo{}
}

// ParseServerInfo 拆分应用服务器名称与版本
//
//	"Apache Tomcat/9.0.41" => Apache Tomcat, 9.0.41
//	"GlassFish Server Open Source Edition 4.1" => GlassFish Server Open Source Edition, 4.1
func ParseServerInfo(server string) *ServerInfo {
	server = strings.TrimSpace(server)
	if server == "" {
		return EmptyServerInfo()
	}
	m := serverVersionRe.FindStringSubmatch(server)
	if m == nil {
		return NewServerInfo(server, server, "")
	}
	return NewServerInfo(server, strings.TrimSpace(m[1]), strings.TrimRight(m[2], "."))
}
