package fonts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed NotoEmoji
var fontFS embed.FS

// Load 返回内置字体的字节数据，path 可写为 "embed:NotoEmoji/static/NotoEmoji-Regular.ttf"
// 或直接 "NotoEmoji-Regular.ttf".
func Load(path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "embed:")
	clean := strings.TrimPrefix(path, "NotoEmoji/static/")
	target := "NotoEmoji/static/" + clean
	data, err := fontFS.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", target, err)
	}
	return data, nil
}

// Emoji 返回默认的 emoji 字体（常规字重）。
func Emoji() ([]byte, error) {
	return Load("NotoEmoji/static/NotoEmoji-Regular.ttf")
}

// EmojiBold 返回加粗字重的 emoji 字体。
func EmojiBold() ([]byte, error) {
	return Load("NotoEmoji/static/NotoEmoji-Bold.ttf")
}
