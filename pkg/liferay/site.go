package liferay

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"liferayscan/pkg/network"

	"github.com/PuerkitoBio/goquery"
	"github.com/donnie4w/go-logger/logger"
	"github.com/spaolacci/murmur3"
)

// Site 根路径页面的基础信息
type Site struct {
	Title        string
	FaviconURL   string
	FaviconHash  string
	Technologies []string
}

// 常见图片文件头标识
var imageFileHeaders = []string{
	"89504e470", "00000100", "474946383", "ffd8ffe00", "ffd8ffe10", "3c7376672", "3c3f786d6",
}

// SiteInfo 获取标题、favicon hash 与技术栈，结果不参与 Liferay 判定
func (s *Scanner) SiteInfo(ctx context.Context, target string) Site {
	var site Site
	resp := s.get(ctx, target, PathRoot)
	if resp == nil {
		return site
	}

	var doc *goquery.Document
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "html") || strings.Contains(resp.Body, "<") {
		var err error
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
		if err != nil {
			logger.Debugf("解析 %s 页面失败: %v", target, err)
		}
	}

	if doc != nil {
		site.Title = strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	}

	site.FaviconURL = faviconURL(endpoint(target, PathRoot), doc)
	if site.FaviconURL != "" {
		if icon, err := s.fetcher.Fetch(ctx, site.FaviconURL); err == nil {
			if hash, ok := FaviconHash(icon); ok {
				site.FaviconHash = hash
			}
		}
	}

	if s.tech != nil {
		site.Technologies = s.tech.Technologies(resp.Header, resp.Raw)
	}

	return site
}

// faviconURL 优先使用页面声明的图标，默认为 /favicon.ico
func faviconURL(pageURL string, doc *goquery.Document) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	href := ""
	if doc != nil {
		doc.Find("link[rel][href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			rel, _ := sel.Attr("rel")
			for _, field := range strings.Fields(strings.ToLower(rel)) {
				if field == "icon" {
					href, _ = sel.Attr("href")
					return false
				}
			}
			return true
		})
	}

	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "data:") {
		href = "/favicon.ico"
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// FaviconHash 计算 Shodan 格式的 favicon hash：按76列换行的 base64 再做 mmh3
func FaviconHash(resp *network.Response) (string, bool) {
	if resp == nil || resp.StatusCode != http.StatusOK || len(resp.Raw) == 0 {
		return "", false
	}
	if !isImage(resp.Header.Get("Content-Type"), resp.Raw) {
		return "", false
	}
	return fmt.Sprintf("%d", Mmh3Hash32(StandBase64Encode(resp.Raw))), true
}

func isImage(contentType string, data []byte) bool {
	if strings.HasPrefix(strings.ToLower(contentType), "image") {
		return true
	}
	n := len(data)
	if n > 8 {
		n = 8
	}
	head := fmt.Sprintf("%x", data[:n])
	for _, fh := range imageFileHeaders {
		if strings.HasPrefix(head, fh) {
			return true
		}
	}
	return false
}

// StandBase64Encode 与 Python base64.encodebytes 一致，每76个字符换行并以换行结尾
func StandBase64Encode(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	var sb strings.Builder
	sb.Grow(len(encoded) + len(encoded)/76 + 1)
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// Mmh3Hash32 有符号的 murmur3 32位哈希
func Mmh3Hash32(data []byte) int32 {
	return int32(murmur3.Sum32(data))
}
