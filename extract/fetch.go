package extract

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	fetchTimeout = 30 * time.Second
	userAgent    = "Mozilla/5.0 (compatible; vellum/1.0; +https://github.com/ByLCY/vellum)"
	// maxBodySize 限制单次下载体积，防御异常响应。
	maxBodySize = 32 << 20
)

func defaultClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// Fetch 下载一个页面并返回响应体。
func Fetch(rawURL string) ([]byte, error) {
	return fetchURL(defaultClient(), rawURL)
}

func fetchURL(client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 %s 失败: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("请求 %s 返回 %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("读取 %s 响应失败: %w", rawURL, err)
	}
	return data, nil
}
