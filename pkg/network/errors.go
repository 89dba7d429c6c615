package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// 传输错误类型
var (
	ErrTimeout     = errors.New("timeout")
	ErrUnreachable = errors.New("unreachable")
)

// TransportError 单次请求的传输层错误，Kind 为 ErrTimeout 或 ErrUnreachable
type TransportError struct {
	Kind error
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is 支持 errors.Is(err, ErrTimeout) 形式的判断
func (e *TransportError) Is(target error) bool {
	return target == e.Kind
}

// DecodeError 响应声明了压缩编码但内容无法解压，仅记录日志，不向上返回
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s 解压失败: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// classify 将底层错误归类为超时或不可达
func classify(rawURL string, err error) *TransportError {
	var terr *TransportError
	if errors.As(err, &terr) {
		return terr
	}
	if isTimeout(err) {
		return &TransportError{Kind: ErrTimeout, URL: rawURL, Err: err}
	}
	return &TransportError{Kind: ErrUnreachable, URL: rawURL, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// retryablehttp 在放弃重试时可能只保留错误文本
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}
