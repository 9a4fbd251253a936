package layout

import (
	"strings"

	"github.com/ByLCY/vellum/article"
	"github.com/ByLCY/vellum/emoji"
	"github.com/ByLCY/vellum/textnorm"
)

// EmojiSource 提供 emoji 字形的像素宽度与位图。
// *emoji.Rasterizer 实现了该接口。
type EmojiSource interface {
	MeasurePx(grapheme string, bold, italic bool, sizePx float64) float64
	Bitmap(grapheme string, bold, italic bool, sizePx float64) (*emoji.Bitmap, error)
}

// 测量安全系数：轻微高估避免累计误差导致的行溢出。
const (
	textSafety  = 1.02
	emojiSafety = 1.08
)

// refGlyph 用于推导像素宽度到 pt 宽度的换算系数。
const refGlyph = "M"

// FragmentKind 区分行内片段的绘制方式。
type FragmentKind int

const (
	// FragText 用页面字体绘制。
	FragText FragmentKind = iota
	// FragEmoji 以位图形式绘制。
	FragEmoji
)

// Fragment 是 token 内部的一个同类片段。
type Fragment struct {
	Kind    FragmentKind
	Content string
	Width   float64
}

type factorKey struct {
	bold   bool
	italic bool
	size   float64
}

// Measurer 统一文本与 emoji 的宽度测量。画布侧测量带字体状态，
// 因此 Measurer 不可并发使用。
type Measurer struct {
	canvas  Canvas
	emoji   EmojiSource
	factors map[factorKey]float64
}

// NewMeasurer 构造一个绑定到 canvas 的测量器；es 可为 nil。
func NewMeasurer(c Canvas, es EmojiSource) *Measurer {
	return &Measurer{
		canvas:  c,
		emoji:   es,
		factors: make(map[factorKey]float64),
	}
}

func segFont(seg article.Segment) (Family, Style) {
	f := FamilyBody
	if seg.Mono {
		f = FamilyMono
	}
	return f, Style{Bold: seg.Bold, Italic: seg.Italic}
}

func (m *Measurer) setFont(seg article.Segment, size float64) {
	fam, st := segFont(seg)
	m.canvas.SetFont(fam, st)
	m.canvas.SetFontSize(size)
}

// TextWidth 返回文本在指定样式与字号下的宽度（含安全系数）。
// 文本在测量前会被归一化，与绘制路径保持一致。
func (m *Measurer) TextWidth(text string, seg article.Segment, size float64) float64 {
	m.setFont(seg, size)
	return m.canvas.MeasureText(textnorm.Normalize(text)) * textSafety
}

// emojiFactor 返回当前样式/字号下像素宽度到 pt 宽度的换算系数。
// 系数来自同一参考字形在两套测量体系下的宽度之比，与光栅器的
// 内部单位无关；同一 (样式, 字号) 只推导一次。
func (m *Measurer) emojiFactor(seg article.Segment, size float64) float64 {
	key := factorKey{bold: seg.Bold, italic: seg.Italic, size: size}
	if f, ok := m.factors[key]; ok {
		return f
	}
	m.setFont(seg, size)
	refPt := m.canvas.MeasureText(refGlyph)
	refPx := m.emoji.MeasurePx(refGlyph, seg.Bold, seg.Italic, size*pxPerPt)
	f := 1.0
	if refPx > 0 && refPt > 0 {
		f = refPt / refPx
	}
	m.factors[key] = f
	return f
}

// EmojiWidth 返回单个 emoji 字素簇占用的宽度（含安全系数）。
// 没有 emoji 源时退回按文本测量。
func (m *Measurer) EmojiWidth(g string, seg article.Segment, size float64) float64 {
	if m.emoji == nil {
		return m.TextWidth(g, seg, size)
	}
	px := m.emoji.MeasurePx(g, seg.Bold, seg.Italic, size*pxPerPt)
	return px * m.emojiFactor(seg, size) * emojiSafety
}

// Split 归一化 token 并按字素簇切分为文本/emoji 片段。
// 返回归一化后的文本、片段列表与总宽度；token 不含 emoji 时
// 片段列表为 nil，调用方可走整段绘制的快路径。
// 片段内容拼接后恒等于归一化文本。
func (m *Measurer) Split(token string, seg article.Segment, size float64) (string, []Fragment, float64) {
	norm := textnorm.Normalize(token)
	if m.emoji == nil || !mayContainEmoji(norm) {
		return norm, nil, m.TextWidth(norm, seg, size)
	}

	var frags []Fragment
	var buf strings.Builder
	total := 0.0
	flushText := func() {
		if buf.Len() == 0 {
			return
		}
		w := m.TextWidth(buf.String(), seg, size)
		frags = append(frags, Fragment{Kind: FragText, Content: buf.String(), Width: w})
		total += w
		buf.Reset()
	}
	hasEmoji := false
	for _, g := range textnorm.Graphemes(norm) {
		if textnorm.IsEmojiGrapheme(g) {
			flushText()
			w := m.EmojiWidth(g, seg, size)
			frags = append(frags, Fragment{Kind: FragEmoji, Content: g, Width: w})
			total += w
			hasEmoji = true
			continue
		}
		buf.WriteString(g)
	}
	flushText()

	if !hasEmoji {
		// 快速预判误报，退回整段测量，避免片段拆分引入的误差。
		return norm, nil, m.TextWidth(norm, seg, size)
	}
	return norm, frags, total
}

// mayContainEmoji 是廉价预判：低码位文本直接走纯文本路径。
func mayContainEmoji(s string) bool {
	for _, r := range s {
		if r >= 0x2000 {
			return true
		}
	}
	return false
}
