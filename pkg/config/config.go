// Package config 读取和生成 YAML 配置文件，命令行参数优先于配置文件
package config

import (
	"fmt"
	"os"

	"liferayscan/pkg/network"
	"liferayscan/pkg/types"
	"liferayscan/pkg/utils/common"

	"github.com/donnie4w/go-logger/logger"
	"gopkg.in/yaml.v2"
)

// 默认配置
const (
	DefaultConfigFile = "config.yaml"
	DefaultThreads    = 5
	DefaultWorkers    = 10
	DefaultFormat     = "txt"
)

// Config 配置文件结构
type Config struct {
	HTTP      HTTPConfig     `yaml:"http"`
	Scan      ScanConfig     `yaml:"scan"`
	Wordlists WordlistConfig `yaml:"wordlists"`
	Output    OutputConfig   `yaml:"output"`
}

// HTTPConfig 请求配置，超时单位为秒
type HTTPConfig struct {
	Proxy          string `yaml:"proxy"`
	Insecure       bool   `yaml:"insecure"`
	ConnectTimeout int    `yaml:"connect-timeout"`
	Timeout        int    `yaml:"timeout"`
	UserAgent      string `yaml:"user-agent"`
}

// ScanConfig 扫描配置
type ScanConfig struct {
	Threads           int  `yaml:"threads"`
	Workers           int  `yaml:"workers"`
	Force             bool `yaml:"force"`
	EnumerateUsers    bool `yaml:"enumerate-users"`
	EnumeratePortlets bool `yaml:"enumerate-portlets"`
}

// WordlistConfig 自定义字典路径，为空时使用内置字典
type WordlistConfig struct {
	Users    string `yaml:"users"`
	Names    string `yaml:"names"`
	Portlets string `yaml:"portlets"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Format  string `yaml:"format"`
	NoColor bool   `yaml:"no-color"`
	Match   string `yaml:"match"`
}

// Default 内置默认配置
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			ConnectTimeout: int(network.DefaultConnectTimeout.Seconds()),
			Timeout:        int(network.DefaultReadTimeout.Seconds()),
			UserAgent:      network.DefaultUserAgent,
		},
		Scan: ScanConfig{
			Threads: DefaultThreads,
			Workers: DefaultWorkers,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
		},
	}
}

// Load 读取配置文件，文件不存在时返回默认配置且 found 为 false
func Load(path string) (cfg *Config, found bool, err error) {
	cfg = Default()
	if path == "" || !common.Exists(path) {
		return cfg, false, nil
	}
	if !common.IsYamlFile(path) {
		return nil, false, fmt.Errorf("配置文件必须为yaml格式: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, false, fmt.Errorf("解析配置文件 %s 出错: %w", path, err)
	}
	return cfg, true, nil
}

// Marshal 序列化为YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("序列化配置失败: %w", err)
	}
	return data, nil
}

// Save 写入配置文件，已存在的文件不会被覆盖
func (c *Config) Save(path string) error {
	if common.Exists(path) {
		return fmt.Errorf("配置文件已存在: %s", path)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := common.EnsureDir(path); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	logger.Infof("配置文件已生成：%s", path)
	return nil
}

// Apply 将配置文件的值填入未在命令行显式指定的选项
//
//	@param changed 判断命令行参数是否被显式指定，参数为长参数名
func (c *Config) Apply(opts *types.CmdOptionsType, changed func(name string) bool) {
	setString := func(flag string, dst *string, v string) {
		if !changed(flag) {
			*dst = v
		}
	}
	setInt := func(flag string, dst *int, v int) {
		if !changed(flag) {
			*dst = v
		}
	}
	setBool := func(flag string, dst *bool, v bool) {
		if !changed(flag) {
			*dst = v
		}
	}

	setString("proxy", &opts.Proxy, c.HTTP.Proxy)
	setBool("insecure", &opts.Insecure, c.HTTP.Insecure)
	setInt("connect-timeout", &opts.ConnTimeout, c.HTTP.ConnectTimeout)
	setInt("timeout", &opts.Timeout, c.HTTP.Timeout)
	setString("user-agent", &opts.UserAgent, c.HTTP.UserAgent)

	setInt("threads", &opts.Threads, c.Scan.Threads)
	setInt("workers", &opts.Workers, c.Scan.Workers)
	setBool("force", &opts.Force, c.Scan.Force)
	setBool("enum-users", &opts.EnumUsers, c.Scan.EnumerateUsers)
	setBool("enum-portlets", &opts.EnumPortlets, c.Scan.EnumeratePortlets)

	setString("users-file", &opts.UsersFile, c.Wordlists.Users)
	setString("names-file", &opts.NamesFile, c.Wordlists.Names)
	setString("portlets-file", &opts.PortletsFile, c.Wordlists.Portlets)

	setString("format", &opts.Format, c.Output.Format)
	setBool("no-color", &opts.NoColor, c.Output.NoColor)
	setString("match", &opts.Match, c.Output.Match)
}

// Effective 根据最终生效的选项生成配置，用于 --print 输出
func Effective(opts *types.CmdOptionsType) *Config {
	return &Config{
		HTTP: HTTPConfig{
			Proxy:          opts.Proxy,
			Insecure:       opts.Insecure,
			ConnectTimeout: opts.ConnTimeout,
			Timeout:        opts.Timeout,
			UserAgent:      opts.UserAgent,
		},
		Scan: ScanConfig{
			Threads:           opts.Threads,
			Workers:           opts.Workers,
			Force:             opts.Force,
			EnumerateUsers:    opts.EnumUsers,
			EnumeratePortlets: opts.EnumPortlets,
		},
		Wordlists: WordlistConfig{
			Users:    opts.UsersFile,
			Names:    opts.NamesFile,
			Portlets: opts.PortletsFile,
		},
		Output: OutputConfig{
			Format:  opts.Format,
			NoColor: opts.NoColor,
			Match:   opts.Match,
		},
	}
}
