package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/vellum/emoji"
	"github.com/ByLCY/vellum/extract"
	"github.com/ByLCY/vellum/layout"
	fpdfcanvas "github.com/ByLCY/vellum/renderer/fpdf"
)

func main() {
	pageURL := flag.String("url", "", "文章页面地址")
	input := flag.String("in", "", "本地 HTML 文件路径（与 -url 二选一）")
	outDir := flag.String("out", "output", "PDF 输出目录")
	debug := flag.String("debug", "", "文章模型调试 JSON 输出路径")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	if *pageURL == "" && *input == "" {
		log.Fatal("必须指定 -url 或 -in")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path, err := run(*pageURL, *input, *outDir, *debug, logger)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", path)
}

// run 串联抓取、提取、排版与输出，返回生成文件的路径。
func run(pageURL, inputPath, outDir, debugPath string, logger *slog.Logger) (string, error) {
	htmlBytes, err := loadHTML(pageURL, inputPath)
	if err != nil {
		return "", err
	}

	art, err := extract.FromHTML(htmlBytes, pageURL)
	if err != nil {
		return "", fmt.Errorf("提取文章失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(art, debugPath); err != nil {
			return "", err
		}
	}

	ras, err := emoji.NewRasterizer()
	if err != nil {
		// emoji 字体缺失只影响 emoji 呈现，不阻断整篇渲染。
		logger.Warn("emoji 光栅器初始化失败", "error", err)
		ras = nil
	}

	var emojiSrc layout.EmojiSource
	if ras != nil {
		emojiSrc = ras
	}
	data, filename, err := layout.Render(art, fpdfcanvas.New(), layout.Options{
		Emoji:  emojiSrc,
		Images: extract.NewImageLoader(),
		Logger: logger,
	})
	if err != nil {
		return "", fmt.Errorf("排版失败: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	outPath := filepath.Join(outDir, filename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return outPath, nil
}

func loadHTML(pageURL, inputPath string) ([]byte, error) {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("无法读取 HTML 文件 %s: %w", inputPath, err)
		}
		return data, nil
	}
	data, err := extract.Fetch(pageURL)
	if err != nil {
		return nil, fmt.Errorf("抓取页面失败: %w", err)
	}
	return data, nil
}

func writeDebug(art any, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化调试 JSON 失败: %w", err)
	}
	if err := os.WriteFile(debugPath, data, 0o644); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
