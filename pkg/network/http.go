package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chainreactors/proxyclient"
	"github.com/donnie4w/go-logger/logger"
	"github.com/zan8in/retryablehttp"
)

// 全局客户端配置
const (
	MaxDefaultBody        int64 = 8 * 1024 * 1024 // 8MB，Liferay 页面普遍较大
	DefaultConnectTimeout       = 20 * time.Second
	DefaultReadTimeout          = 20 * time.Second
	AcceptEncoding              = "gzip,deflate"
	HttpPrefix                  = "http://"  // HTTP协议前缀
	HttpsPrefix                 = "https://" // HTTPS协议前缀
)

// DefaultUserAgent 默认请求标识，由 cli 包按构建版本设置
var DefaultUserAgent = "LiferayScan/0.1.0"

// Config 请求客户端配置
type Config struct {
	ConnectTimeout time.Duration   // 建立连接超时
	ReadTimeout    time.Duration   // 读取响应超时
	UserAgent      string          // 固定的User-Agent
	Insecure       bool            // 是否跳过TLS证书校验，默认校验
	Proxy          string          // 代理地址，格式：scheme://host:port
	Logger         *logger.Logging // 日志输出，为空时使用默认格式
}

// Response 单次请求的规范化响应
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       string // 解压并转换为UTF-8后的响应体
	Raw        []byte // 解压后、字符集转换前的响应体
}

// HeaderValue 获取响应头，重复的响应头以逗号拼接
func (r *Response) HeaderValue(name string) string {
	if r == nil || r.Header == nil {
		return ""
	}
	return strings.Join(r.Header.Values(name), ", ")
}

// Client 单次GET请求的HTTP客户端，不重试、不跟随跳转
type Client struct {
	config Config
	client *retryablehttp.Client
	log    *logger.Logging
}

// NewLogger 创建与命令行一致格式的日志实例，verbose 为 false 时只输出告警及错误
func NewLogger(verbose bool) *logger.Logging {
	l := logger.NewLogger()
	l.SetFormat(logger.FORMAT_TIME | logger.FORMAT_LEVELFLAG | logger.FORMAT_SHORTFILENAME)
	l.SetFormatter("[{time}] {level} {message} [{file}]\n")
	if verbose {
		l.SetLevel(logger.LEVEL_INFO)
	} else {
		l.SetLevel(logger.LEVEL_WARN)
	}
	return l
}

// NewClient 根据配置创建客户端
func NewClient(config Config) (*Client, error) {
	setDefaults(&config)

	transport, err := createTransport(config)
	if err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		client: configureClient(config, transport),
		log:    config.Logger,
	}, nil
}

// Config 返回生效的客户端配置
func (c *Client) Config() Config {
	return c.config
}

// Fetch 发送GET请求并返回解码后的响应
//
//	@Description: 传输层失败时返回 *TransportError，gzip 解码失败时回退为原始响应体
//	@param ctx 上下文
//	@param rawURL 绝对URL，仅支持 http/https
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		if err == nil {
			err = fmt.Errorf("不支持的URL: %q", rawURL)
		}
		return nil, &TransportError{Kind: ErrUnreachable, URL: rawURL, Err: err}
	}

	c.log.Infof("Fetching %s", rawURL)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{Kind: ErrUnreachable, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept-Encoding", AcceptEncoding)

	resp, err := c.client.Do(req)
	if err != nil {
		terr := classify(rawURL, err)
		c.log.Errorf("Could not retrieve URL %s: %v", rawURL, terr)
		return nil, terr
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxDefaultBody))
	if err != nil {
		terr := classify(rawURL, err)
		c.log.Errorf("Could not retrieve URL %s: %v", rawURL, terr)
		return nil, terr
	}
	c.log.Infof("Received reply (%d bytes)", len(raw))

	body := decodeContent(resp.Header.Get("Content-Encoding"), raw, c.log)

	return &Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       normalizeCharset(resp.Header.Get("Content-Type"), body),
		Raw:        body,
	}, nil
}

// setDefaults 设置配置参数的默认值
func setDefaults(config *Config) {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Logger == nil {
		config.Logger = NewLogger(true)
	}
}

// newTLSConfig 创建TLS配置，insecure 为 true 时不校验证书
func newTLSConfig(insecure bool) *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: insecure,
		MinVersion:         tls.VersionTLS10,
	}
}

// createTransport 创建传输层
func createTransport(config Config) (*http.Transport, error) {
	dialer := &net.Dialer{
		Timeout:   config.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSClientConfig:       newTLSConfig(config.Insecure),
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.ReadTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		// 请求头中显式声明了 Accept-Encoding，由 decodeContent 自行解压
		DisableCompression: true,
	}

	if config.Proxy != "" {
		proxy, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, fmt.Errorf("代理地址解析失败: %w", err)
		}

		proxyDialer, err := proxyclient.NewClient(proxy)
		if err != nil {
			return nil, fmt.Errorf("创建代理客户端失败: %w", err)
		}
		transport.DialContext = proxyDialer.DialContext
		config.Logger.Debugf("使用代理：%s", config.Proxy)
	}

	return transport, nil
}

// configureClient 配置HTTP客户端参数
func configureClient(config Config, transport *http.Transport) *retryablehttp.Client {
	opts := retryablehttp.DefaultOptionsSingle
	opts.RetryMax = 0
	opts.Timeout = config.ConnectTimeout + config.ReadTimeout

	client := retryablehttp.NewClient(opts)

	client.HTTPClient.Transport = transport
	client.HTTPClient2.Transport = transport

	client.HTTPClient.Timeout = opts.Timeout
	client.HTTPClient2.Timeout = opts.Timeout

	// 探测依赖原始的 302 响应，禁止跟随跳转
	client.HTTPClient.CheckRedirect = noRedirect
	client.HTTPClient2.CheckRedirect = noRedirect

	return client
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// EnsureScheme 为缺少协议的目标补全协议前缀，443端口使用https
func EnsureScheme(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	lower := strings.ToLower(host)
	if strings.HasPrefix(lower, HttpPrefix) || strings.HasPrefix(lower, HttpsPrefix) || strings.Contains(lower, "://") {
		return host
	}

	u, err := url.Parse(HttpPrefix + host)
	if err == nil && u.Port() == "443" {
		return HttpsPrefix + host
	}
	return HttpPrefix + host
}
