package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"liferayscan/pkg/types"
	"liferayscan/pkg/utils/common"

	"github.com/vmihailenco/msgpack/v5"
)

// csv 与 txt 的表头
var csvHeader = []string{
	"URL", "Liferay", "版本", "默认语言", "组织邮箱域名", "开放注册", "SSO",
	"SOAP接口", "JSON接口", "找回密码", "验证码", "应用服务器", "客户端IP",
	"标题", "Favicon Hash", "技术栈", "用户", "Portlet", "耗时",
}

// FileWriter 将探测结果写入文件，可被多个协程并发调用
type FileWriter struct {
	mu        sync.Mutex
	path      string
	format    string
	file      *os.File
	buf       *bufio.Writer
	csvWriter *csv.Writer
	encoder   *msgpack.Encoder
}

// NewFileWriter 打开或创建输出文件
//
//	@Description: 新建的 csv 文件写入 UTF-8 BOM 与表头；已存在的文件以追加方式打开
func NewFileWriter(path, format string) (*FileWriter, error) {
	switch format {
	case FormatTXT, FormatCSV, FormatJSON, FormatMsgpack:
	default:
		return nil, fmt.Errorf("不支持的输出格式: %s", format)
	}

	// 确保输出目录存在
	if err := common.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	fileExists := common.Exists(path)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("打开输出文件失败: %w", err)
	}

	w := &FileWriter{
		path:   path,
		format: format,
		file:   file,
		buf:    bufio.NewWriter(file),
	}

	switch format {
	case FormatCSV:
		if !fileExists {
			// 写入UTF-8 BOM标识 (EF BB BF)，避免表格软件乱码
			if _, err := w.buf.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
				_ = file.Close()
				return nil, fmt.Errorf("写入UTF-8 BOM失败: %w", err)
			}
		}
		w.csvWriter = csv.NewWriter(w.buf)
		if !fileExists {
			if err := w.csvWriter.Write(csvHeader); err != nil {
				_ = file.Close()
				return nil, fmt.Errorf("写入CSV表头失败: %w", err)
			}
		}
	case FormatMsgpack:
		w.encoder = msgpack.NewEncoder(w.buf)
	}

	return w, nil
}

// Path 输出文件路径
func (w *FileWriter) Path() string {
	return w.path
}

// Write 写入单个目标的结果并立即刷新到磁盘
func (w *FileWriter) Write(fp *types.Fingerprint) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("输出文件已关闭")
	}

	var err error
	switch w.format {
	case FormatJSON:
		err = w.writeJSON(fp)
	case FormatCSV:
		err = w.writeCSV(fp)
	case FormatMsgpack:
		err = w.encoder.Encode(fp)
	default:
		_, err = w.buf.WriteString(textBlock(fp))
	}
	if err != nil {
		return fmt.Errorf("写入结果失败: %w", err)
	}
	return w.buf.Flush()
}

func (w *FileWriter) writeJSON(fp *types.Fingerprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}
	if _, err := w.buf.Write(data); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *FileWriter) writeCSV(fp *types.Fingerprint) error {
	if err := w.csvWriter.Write(csvRecord(fp)); err != nil {
		return err
	}
	w.csvWriter.Flush()
	return w.csvWriter.Error()
}

// Close 刷新缓冲并关闭文件
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	if w.csvWriter != nil {
		w.csvWriter.Flush()
	}
	flushErr := w.buf.Flush()
	err := w.file.Close()
	w.file = nil
	if flushErr != nil {
		return flushErr
	}
	return err
}

func csvRecord(fp *types.Fingerprint) []string {
	return []string{
		fp.Target,
		strconv.FormatBool(fp.IsLiferay),
		fp.Version,
		fp.Language,
		fp.OrganisationEmailDomain,
		strconv.FormatBool(fp.UserRegistrationEnabled),
		strconv.FormatBool(fp.SSOEnabled),
		strconv.FormatBool(fp.SOAPAPIExposed),
		strconv.FormatBool(fp.JSONAPIExposed),
		strconv.FormatBool(fp.PasswordResetEnabled),
		strconv.FormatBool(fp.PasswordResetCaptchaEnabled),
		fp.ServerVersion,
		fp.ClientIPDisclosed,
		fp.Title,
		fp.FaviconHash,
		strings.Join(fp.Technologies, "|"),
		strings.Join(formatUsers(fp.DiscoveredUsers), "|"),
		strings.Join(fp.InstalledPortlets, "|"),
		fp.Duration.String(),
	}
}

// textBlock txt 格式：每个目标一段，字段名与 csv 表头一致
func textBlock(fp *types.Fingerprint) string {
	record := csvRecord(fp)
	var sb strings.Builder
	sb.Grow(512)
	for i, name := range csvHeader {
		value := record[i]
		switch name {
		case "技术栈":
			value = formatStringArray(fp.Technologies)
		case "用户":
			value = formatStringArray(formatUsers(fp.DiscoveredUsers))
		case "Portlet":
			value = formatStringArray(fp.InstalledPortlets)
		default:
			value = orDash(value)
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat("-", 100))
	sb.WriteByte('\n')
	return sb.String()
}
