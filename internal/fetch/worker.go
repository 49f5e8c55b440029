package fetch

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/SiteMapCrawl/internal/models"
	"github.com/RecoveryAshes/SiteMapCrawl/internal/utils"
	"github.com/andybalholm/brotli"
)

// unknownMimeType Content-Type缺失或未收到响应时的占位值
const unknownMimeType = "unknown"

// FetchPage 抓取单个页面并返回结果记录
//
// 永远不向外返回错误: 所有失败都写入PageResult的Error字段,
// 单个URL的失败绝不应中断整个运行
//
// saveFiles为true时通过registry分配文件名并把响应体写入outputDir;
// 写文件失败只记入Error,状态码/大小/类型保持已抓取到的值
// (抓取本身成功了,失败的只是持久化)
func FetchPage(client *http.Client, pageURL, outputDir string, saveFiles bool, registry *NameRegistry, headers http.Header) models.PageResult {
	result := models.PageResult{
		URL:      pageURL,
		MimeType: unknownMimeType,
	}

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("Request failed: %v", err)
		return result
	}
	for name, values := range headers {
		req.Header[name] = values
	}

	resp, err := client.Do(req)
	if err != nil {
		// 传输层失败,没有拿到任何响应
		result.Error = fmt.Sprintf("Request failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if mime := resp.Header.Get("Content-Type"); mime != "" {
		result.MimeType = mime
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to read response body: %v", err)
		return result
	}

	// 响应体可能按Accept-Encoding压缩过,先解压再计量和落盘
	if encoding := resp.Header.Get("Content-Encoding"); encoding != "" {
		decompressed, err := decompressBody(encoding, body)
		if err != nil {
			// 解压失败继续用原始body
			utils.Warnf("解压响应失败 [%s] (编码=%s): %v", pageURL, encoding, err)
		} else {
			body = decompressed
		}
	}

	result.ContentLength = len(body)

	if saveFiles {
		filename := registry.Claim(pageURL)
		path := filepath.Join(outputDir, filename)
		if err := os.WriteFile(path, body, 0644); err != nil {
			result.Error = fmt.Sprintf("Failed to save file: %v", err)
			return result
		}
		utils.Debugf("页面已保存: %s (%d bytes) - %s", filename, len(body), pageURL)
	}

	return result
}

// decompressBody 根据Content-Encoding解压响应体
// 支持 gzip、deflate、br (Brotli)
func decompressBody(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()
		return io.ReadAll(reader)

	case "br":
		return io.ReadAll(brotli.NewReader(bytes.NewReader(body)))

	case "", "identity":
		return body, nil

	default:
		return nil, fmt.Errorf("不支持的压缩编码: %s", encoding)
	}
}
