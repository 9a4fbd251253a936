// Package emoji 负责 emoji 字素的像素测量与位图化。页面画布无法把
// 彩色 emoji 当作矢量字形绘制，因此每个（字素, 样式, 字号）组合只
// 栅格化一次，之后以图片形式嵌入页面。
package emoji

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/vellum/fonts"
)

// deviceScale 是栅格化的设备像素比，2 倍可以在常见缩放下保持清晰。
const deviceScale = 2.0

// baselineRatio 把字母基线近似在行高的 85% 处。
const baselineRatio = 0.85

// Bitmap 是一个已栅格化的 emoji 字素。
type Bitmap struct {
	PNG []byte // PNG 编码的像素数据
	W   int    // 像素宽
	H   int    // 像素高
}

type cacheKey struct {
	grapheme string
	bold     bool
	italic   bool
	size     float64
}

// Rasterizer 持有 emoji 字体与按内容寻址的缓存。
// 一次文档生成调用独占一个实例，不得跨调用共享（见渲染引擎的并发约定）。
type Rasterizer struct {
	family  *canvas.FontFamily
	widths  map[cacheKey]float64
	bitmaps map[cacheKey]*Bitmap
}

// NewRasterizer 加载内置的 Noto Emoji 字体并初始化空缓存。
func NewRasterizer() (*Rasterizer, error) {
	family := canvas.NewFontFamily("vellum-emoji")
	regular, err := fonts.Emoji()
	if err != nil {
		return nil, err
	}
	if err := family.LoadFont(regular, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载 emoji 字体失败: %w", err)
	}
	if bold, err := fonts.EmojiBold(); err == nil {
		// 粗体字重缺失时退回常规字重，不视为错误
		_ = family.LoadFont(bold, 0, canvas.FontBold)
	}
	return &Rasterizer{
		family:  family,
		widths:  map[cacheKey]float64{},
		bitmaps: map[cacheKey]*Bitmap{},
	}, nil
}

// face 返回给定样式与字号的字体面。emoji 没有斜体字形，italic 只参与缓存键。
func (r *Rasterizer) face(bold bool, sizePx float64) *canvas.FontFace {
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	return r.family.Face(sizePx, canvas.Black, style, canvas.FontNormal)
}

// MeasurePx 返回字素在栅格表面上的前进宽度（像素单位与字号同系）。
func (r *Rasterizer) MeasurePx(grapheme string, bold, italic bool, sizePx float64) float64 {
	key := cacheKey{grapheme, bold, italic, sizePx}
	if w, ok := r.widths[key]; ok {
		return w
	}
	w := r.face(bold, sizePx).TextWidth(grapheme)
	if w <= 0 {
		// 字体不覆盖该字素时按一个 em 占位，保证测量函数总是返回
		w = sizePx
	}
	r.widths[key] = w
	return w
}

// Bitmap 栅格化一个字素并缓存结果；同键的重复调用直接命中缓存，
// 不会再次渲染。
func (r *Rasterizer) Bitmap(grapheme string, bold, italic bool, sizePx float64) (*Bitmap, error) {
	key := cacheKey{grapheme, bold, italic, sizePx}
	if bm, ok := r.bitmaps[key]; ok {
		return bm, nil
	}

	face := r.face(bold, sizePx)
	w := face.TextWidth(grapheme)
	if w <= 0 {
		w = sizePx
	}
	metrics := face.Metrics()
	h := metrics.LineHeight
	if h <= 0 {
		h = sizePx * 1.2
	}

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与布局一致：左上角为原点
	ctx.DrawText(0, h*baselineRatio, canvas.NewTextLine(face, grapheme, canvas.Left))

	img := rasterizer.Draw(c, canvas.DPMM(deviceScale), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 emoji 位图失败: %w", err)
	}
	bm := &Bitmap{
		PNG: buf.Bytes(),
		W:   img.Bounds().Dx(),
		H:   img.Bounds().Dy(),
	}
	r.bitmaps[key] = bm
	return bm, nil
}
