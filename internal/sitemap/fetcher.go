package sitemap

import (
	"fmt"
	"io"
	"net/http"
)

// StatusError sitemap请求返回了非2xx状态码
type StatusError struct {
	URL        string
	StatusCode int
}

// Error 实现error接口
func (e *StatusError) Error() string {
	return fmt.Sprintf("获取sitemap失败 [%s]: HTTP %d", e.URL, e.StatusCode)
}

// TransportError sitemap请求在传输层失败(连接、超时等)
type TransportError struct {
	URL string
	Err error
}

// Error 实现error接口
func (e *TransportError) Error() string {
	return fmt.Sprintf("获取sitemap失败 [%s]: %v", e.URL, e.Err)
}

// Unwrap 支持errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Fetcher 获取sitemap原始XML内容
type Fetcher struct {
	client  *http.Client
	headers http.Header
}

// NewFetcher 创建sitemap获取器
// headers为每个请求附加的HTTP头部,可为nil
// Accept-Encoding会被移除,压缩交给net/http传输层自动协商和解压,
// 这里拿到的始终是解压后的XML文本
func NewFetcher(client *http.Client, headers http.Header) *Fetcher {
	cloned := headers.Clone()
	if cloned == nil {
		cloned = make(http.Header)
	}
	cloned.Del("Accept-Encoding")

	return &Fetcher{
		client:  client,
		headers: cloned,
	}
}

// Fetch 获取一个sitemap的原始内容
// 非2xx状态码返回*StatusError,传输层失败返回*TransportError
// 不做重试,单个sitemap获取失败由上层决定是否隔离
func (f *Fetcher) Fetch(sitemapURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, sitemapURL, nil)
	if err != nil {
		return "", &TransportError{URL: sitemapURL, Err: err}
	}
	for name, values := range f.headers {
		req.Header[name] = values
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: sitemapURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: sitemapURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{URL: sitemapURL, Err: err}
	}

	return string(body), nil
}
