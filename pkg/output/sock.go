package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"liferayscan/pkg/types"
	"liferayscan/pkg/utils/common"

	"github.com/donnie4w/go-logger/logger"
)

// SockWriter 通过 Unix domain socket 向所有已连接的客户端推送 JSON 行结果
type SockWriter struct {
	path     string
	listener net.Listener
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

// NewSockWriter 创建socket监听，已存在的socket文件会被删除
func NewSockWriter(sockPath string) (*SockWriter, error) {
	// 确保输出目录存在
	if err := common.EnsureDir(sockPath); err != nil {
		return nil, fmt.Errorf("创建socket输出目录失败: %w", err)
	}

	// 删除已存在的socket文件（如果存在）
	_ = os.Remove(sockPath)

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("创建Unix domain socket失败: %w", err)
	}

	w := &SockWriter{
		path:     sockPath,
		listener: listener,
		conns:    make(map[net.Conn]struct{}),
	}

	w.wg.Add(1)
	go w.acceptLoop()
	return w, nil
}

// Path socket文件路径
func (w *SockWriter) Path() string {
	return w.path
}

func (w *SockWriter) acceptLoop() {
	defer w.wg.Done()
	for {
		conn, err := w.listener.Accept()
		if err != nil {
			// 监听已关闭，退出循环
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Errorf("Unix socket接受连接失败: %v", err)
			continue
		}

		w.mu.Lock()
		w.conns[conn] = struct{}{}
		w.mu.Unlock()

		go w.handleConnection(conn)
	}
}

// handleConnection 保持连接直到客户端断开
func (w *SockWriter) handleConnection(conn net.Conn) {
	defer w.drop(conn)

	buffer := make([]byte, 1024)
	for {
		if _, err := conn.Read(buffer); err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				logger.Debugf("Unix socket读取错误: %v", err)
			}
			return
		}
	}
}

func (w *SockWriter) drop(conn net.Conn) {
	w.mu.Lock()
	delete(w.conns, conn)
	w.mu.Unlock()
	_ = conn.Close()
}

// Clients 当前连接的客户端数
func (w *SockWriter) Clients() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.conns)
}

// Write 将结果以JSON行写入所有连接，写入失败的连接会被断开
func (w *SockWriter) Write(fp *types.Fingerprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	var failed []net.Conn
	for conn := range w.conns {
		if _, err := conn.Write(data); err != nil {
			logger.Debugf("Unix socket写入失败: %v", err)
			failed = append(failed, conn)
		}
	}
	w.mu.Unlock()

	for _, conn := range failed {
		w.drop(conn)
	}
	return nil
}

// Close 关闭监听和所有连接，并删除socket文件
func (w *SockWriter) Close() error {
	err := w.listener.Close()
	w.wg.Wait()

	w.mu.Lock()
	for conn := range w.conns {
		_ = conn.Close()
	}
	w.conns = make(map[net.Conn]struct{})
	w.mu.Unlock()

	_ = os.Remove(w.path)
	return err
}
