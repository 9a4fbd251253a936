package extract

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ImageLoader 取回文章引用的图片，实现 layout.ImageLoader。
// 支持 http(s) 与内联 data: 地址。
type ImageLoader struct {
	Client *http.Client
}

// NewImageLoader 返回带默认超时的图片加载器。
func NewImageLoader() *ImageLoader {
	return &ImageLoader{Client: defaultClient()}
}

func (l *ImageLoader) Load(src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURL(src)
	}
	client := l.Client
	if client == nil {
		client = defaultClient()
	}
	return fetchURL(client, src)
}

// decodeDataURL 解析 data:[<mediatype>][;base64],<data> 形式的内联图片。
func decodeDataURL(src string) ([]byte, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, fmt.Errorf("data 地址缺少数据段")
	}
	meta, payload := src[len("data:"):comma], src[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("解码 base64 图片失败: %w", err)
		}
		return data, nil
	}
	// 非 base64 的数据段按百分号编码传输。
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("解码百分号编码图片失败: %w", err)
	}
	return []byte(decoded), nil
}
