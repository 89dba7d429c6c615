package network

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/axgle/mahonia"
	"github.com/donnie4w/go-logger/logger"
	"golang.org/x/net/html/charset"
)

// decodeContent 按 Content-Encoding 解压响应体，解压失败时返回原始内容
func decodeContent(encoding string, raw []byte, log *logger.Logging) []byte {
	encoding = strings.ToLower(strings.TrimSpace(encoding))
	if len(raw) == 0 || encoding == "" {
		return raw
	}

	var (
		reader io.ReadCloser
		err    error
	)
	switch encoding {
	case "gzip", "x-gzip":
		reader, err = gzip.NewReader(bytes.NewReader(raw))
	case "deflate":
		reader, err = zlib.NewReader(bytes.NewReader(raw))
	default:
		return raw
	}
	if err != nil {
		log.Infof("Gzip decompression failed: %v", &DecodeError{Encoding: encoding, Err: err})
		return raw
	}
	defer func() { _ = reader.Close() }()

	decoded, err := io.ReadAll(io.LimitReader(reader, MaxDefaultBody))
	if err != nil {
		log.Infof("Gzip decompression failed: %v", &DecodeError{Encoding: encoding, Err: err})
		return raw
	}
	return decoded
}

// normalizeCharset 将响应体转换为UTF-8，无效字节替换为 U+FFFD，不会失败
func normalizeCharset(contentType string, body []byte) string {
	if len(body) == 0 {
		return ""
	}

	enc, name, certain := charset.DetermineEncoding(body, contentType)
	name = strings.ToLower(name)

	// 未声明编码且内容本身是合法UTF-8时不做转换
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return strings.ToValidUTF8(string(body), "\uFFFD")
	}

	if decoder := mahonia.NewDecoder(name); decoder != nil {
		return strings.ToValidUTF8(decoder.ConvertString(string(body)), "\uFFFD")
	}

	if enc != nil {
		if converted, err := enc.NewDecoder().Bytes(body); err == nil {
			return strings.ToValidUTF8(string(converted), "\uFFFD")
		}
	}

	return strings.ToValidUTF8(string(body), "\uFFFD")
}
