package layout

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"log/slog"

	"github.com/ByLCY/vellum/article"
)

// emojiBaseline 是 emoji 位图基线距位图顶部的比例，
// 与光栅化时的基线位置保持一致。
const emojiBaseline = 0.85

// engine 持有一次渲染的全部状态。
type engine struct {
	canvas   Canvas
	m        *Measurer
	page     *pageState
	theme    Theme
	log      *slog.Logger
	images   ImageLoader
	emoji    EmojiSource
	headings []OutlineHeading
}

func (e *engine) lineHeight(size float64) float64 {
	return size * e.theme.LineFactor
}

func (e *engine) contentWidth() float64 {
	return e.page.contentWidth()
}

// drawTextLine 在 x 起点、当前游标行内绘制一行，返回行末 x。
// 游标推进由调用方负责。
func (e *engine) drawTextLine(ln Line, x, size float64, base Color) float64 {
	baseline := e.page.y + size*e.theme.AscentFactor
	for _, part := range ln.Parts {
		fam, st := segFont(part.Seg)
		e.canvas.SetFont(fam, st)
		e.canvas.SetFontSize(size)
		col := base
		if part.Seg.Link != "" {
			col = e.theme.LinkColor
		}
		e.canvas.SetTextColor(col)

		switch {
		case part.Fragments == nil && part.Seg.Link != "":
			e.canvas.DrawLinkedText(part.Text, x, baseline, part.Seg.Link)
		case part.Fragments == nil:
			e.canvas.DrawText(part.Text, x, baseline)
		default:
			e.drawFragments(part, x, baseline, size)
			if part.Seg.Link != "" {
				e.canvas.AddLinkRegion(x, e.page.y, part.Width, e.lineHeight(size), part.Seg.Link)
			}
		}
		x += part.Width
	}
	return x
}

// drawFragments 逐片段绘制混排 token：文本走字体，emoji 贴位图。
func (e *engine) drawFragments(part LinePart, x, baseline, size float64) {
	for _, fr := range part.Fragments {
		switch fr.Kind {
		case FragEmoji:
			if e.emoji != nil {
				bm, err := e.emoji.Bitmap(fr.Content, part.Seg.Bold, part.Seg.Italic, size*pxPerPt)
				if err == nil && bm != nil {
					h := size
					w := h
					if bm.H > 0 {
						w = h * float64(bm.W) / float64(bm.H)
					}
					e.canvas.DrawImage(bm.PNG, "png", x, baseline-size*emojiBaseline, w, h)
					x += fr.Width
					continue
				}
				e.log.Warn("emoji 位图生成失败，按文本绘制", "grapheme", fr.Content, "error", err)
			}
			e.canvas.DrawText(fr.Content, x, baseline)
			x += fr.Width
		default:
			e.canvas.DrawText(fr.Content, x, baseline)
			x += fr.Width
		}
	}
}

// drawWrapped 折行并绘制一组 Segment。indent 缩进左边界。
func (e *engine) drawWrapped(segs []article.Segment, size float64, col Color, indent float64) {
	width := e.contentWidth() - indent
	lh := e.lineHeight(size)
	for _, ln := range e.m.layoutLines(segs, width, size) {
		e.page.ensureSpace(lh)
		if len(ln.Parts) > 0 {
			e.drawTextLine(ln, e.theme.Margin.Left+indent, size, col)
		}
		e.page.advance(lh)
	}
}

func (e *engine) drawParagraph(segs []article.Segment) {
	e.drawWrapped(segs, e.theme.BodySize, e.theme.TextColor, 0)
	e.page.advance(e.theme.BlockSpacing)
}

// drawHeading 绘制标题并记录大纲锚点。锚点在首行分页判定之后
// 记录，保证页码与纵坐标指向标题实际位置。
func (e *engine) drawHeading(text string, level int) {
	size := e.theme.headingSize(level)
	lh := e.lineHeight(size)
	if !e.page.atTop() {
		e.page.advance(e.theme.BlockSpacing * 0.5)
	}
	e.page.ensureSpace(lh)

	e.headings = append(e.headings, OutlineHeading{
		ID:    len(e.headings) + 1,
		Text:  text,
		Level: level,
		Page:  e.canvas.PageCount(),
		Y:     e.page.y,
	})

	segs := []article.Segment{{Text: text, Bold: true}}
	for i, ln := range e.m.layoutLines(segs, e.contentWidth(), size) {
		if i > 0 {
			e.page.ensureSpace(lh)
		}
		if len(ln.Parts) > 0 {
			e.drawTextLine(ln, e.theme.Margin.Left, size, e.theme.TextColor)
		}
		e.page.advance(lh)
	}
	e.page.advance(e.theme.BlockSpacing * 0.5)
}

// drawList 绘制列表：标记宽度实测，续行悬挂缩进对齐正文。
func (e *engine) drawList(list *article.List) {
	if list == nil {
		return
	}
	size := e.theme.BodySize
	lh := e.lineHeight(size)
	markerSeg := article.Segment{}

	for i, item := range list.Items {
		marker := "• "
		if list.Ordered {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		markerW := e.m.TextWidth(marker, markerSeg, size)
		width := e.contentWidth() - markerW
		for j, ln := range e.m.layoutLines(item, width, size) {
			e.page.ensureSpace(lh)
			if j == 0 {
				one := Line{Parts: []LinePart{{Seg: markerSeg, Text: marker, Width: markerW}}}
				e.drawTextLine(one, e.theme.Margin.Left, size, e.theme.TextColor)
			}
			if len(ln.Parts) > 0 {
				e.drawTextLine(ln, e.theme.Margin.Left+markerW, size, e.theme.TextColor)
			}
			e.page.advance(lh)
		}
	}
	e.page.advance(e.theme.BlockSpacing)
}

// drawQuote 绘制引用块：弱化文字色，每行左侧画竖条。
func (e *engine) drawQuote(segs []article.Segment) {
	size := e.theme.BodySize
	lh := e.lineHeight(size)
	indent := e.theme.QuoteIndent
	width := e.contentWidth() - indent
	for _, ln := range e.m.layoutLines(segs, width, size) {
		e.page.ensureSpace(lh)
		e.canvas.SetFillColor(e.theme.QuoteBar)
		e.canvas.FillRect(e.theme.Margin.Left, e.page.y, 2.5, lh)
		if len(ln.Parts) > 0 {
			e.drawTextLine(ln, e.theme.Margin.Left+indent, size, e.theme.MutedColor)
		}
		e.page.advance(lh)
	}
	e.page.advance(e.theme.BlockSpacing)
}

type codeRow struct {
	line Line
	size float64
}

// drawCode 绘制代码块：制表符展开为空格，超宽行压缩字号至下限，
// 仍超宽则在 token 边界折行。底色按页内分段铺设，单行也要推进，
// 永不因放不下而死循环。
func (e *engine) drawCode(code *article.Code) {
	if code == nil {
		return
	}
	text := strings.ReplaceAll(code.Text, "\t", "    ")
	text = strings.ReplaceAll(text, " ", " ")
	logical := strings.Split(text, "\n")
	for len(logical) > 0 && strings.TrimSpace(logical[len(logical)-1]) == "" {
		logical = logical[:len(logical)-1]
	}
	if len(logical) == 0 {
		return
	}

	pad := e.theme.CodePadding
	width := e.contentWidth() - 2*pad
	monoSeg := article.Segment{Mono: true}

	var rows []codeRow
	for _, raw := range logical {
		size := e.theme.CodeSize
		if widest := e.widestToken(raw, monoSeg, size); widest > width {
			shrunk := size * width / widest
			if shrunk < e.theme.MinCodeSize {
				shrunk = e.theme.MinCodeSize
			}
			size = shrunk
		}
		wrapped := e.m.layoutLines([]article.Segment{{Text: raw, Mono: true}}, width, size)
		if len(wrapped) == 0 {
			wrapped = []Line{{}}
		}
		for _, ln := range wrapped {
			rows = append(rows, codeRow{line: ln, size: size})
		}
	}

	i := 0
	for i < len(rows) {
		first := e.lineHeight(rows[i].size)
		e.page.ensureSpace(2*pad + first)

		// 本页能容纳的行数；至少取一行保证推进。
		count := 0
		h := 2 * pad
		for j := i; j < len(rows); j++ {
			rh := e.lineHeight(rows[j].size)
			if count > 0 && h+rh > e.page.remaining() {
				break
			}
			h += rh
			count++
		}

		e.canvas.SetFillColor(e.theme.CodeBg)
		e.canvas.FillRect(e.theme.Margin.Left, e.page.y, e.contentWidth(), h)
		e.page.advance(pad)
		for j := i; j < i+count; j++ {
			row := rows[j]
			if len(row.line.Parts) > 0 {
				e.drawTextLine(row.line, e.theme.Margin.Left+pad, row.size, e.theme.CodeColor)
			}
			e.page.advance(e.lineHeight(row.size))
		}
		e.page.advance(pad)
		i += count
	}
	e.page.advance(e.theme.BlockSpacing)
}

// widestToken 返回一行代码里最宽 token 的宽度，用于判定压缩字号。
func (e *engine) widestToken(line string, seg article.Segment, size float64) float64 {
	widest := 0.0
	for _, tok := range tokenize(line) {
		core := strings.TrimRight(tok, " \t")
		if core == "" {
			continue
		}
		if w := e.m.TextWidth(core, seg, size); w > widest {
			widest = w
		}
	}
	return widest
}

// drawImage 取回并绘制图片：等比缩小到内容区内，永不放大，
// 取回或解码失败只告警跳过。
func (e *engine) drawImage(img *article.Image) {
	if img == nil || img.Src == "" || e.images == nil {
		return
	}
	data, err := e.images.Load(img.Src)
	if err != nil {
		e.log.Warn("图片获取失败，跳过", "src", img.Src, "error", err)
		return
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		e.log.Warn("图片解码失败，跳过", "src", img.Src, "error", err)
		return
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return
	}

	w := PxToPt(float64(cfg.Width))
	h := PxToPt(float64(cfg.Height))
	if maxW := e.contentWidth(); w > maxW {
		h *= maxW / w
		w = maxW
	}
	if maxH := e.page.maxY() - e.theme.Margin.Top; h > maxH {
		w *= maxH / h
		h = maxH
	}

	e.page.ensureSpace(h)
	x := e.theme.Margin.Left + (e.contentWidth()-w)/2
	e.canvas.DrawImage(data, "", x, e.page.y, w, h)
	e.page.advance(h + e.theme.BlockSpacing)
}

// drawCaption 绘制图注：弱化斜体小字，逐行居中。
func (e *engine) drawCaption(segs []article.Segment) {
	size := e.theme.CaptionSize
	lh := e.lineHeight(size)
	styled := make([]article.Segment, len(segs))
	for i, s := range segs {
		s.Italic = true
		styled[i] = s
	}
	for _, ln := range e.m.layoutLines(styled, e.contentWidth(), size) {
		e.page.ensureSpace(lh)
		if len(ln.Parts) > 0 {
			x := e.theme.Margin.Left + (e.contentWidth()-ln.Width)/2
			e.drawTextLine(ln, x, size, e.theme.MutedColor)
		}
		e.page.advance(lh)
	}
	e.page.advance(e.theme.BlockSpacing)
}

// drawRule 绘制分隔线。
func (e *engine) drawRule() {
	const ruleSpace = 14.0
	e.page.ensureSpace(ruleSpace)
	y := e.page.y + ruleSpace/2
	e.canvas.SetDrawColor(e.theme.RuleColor)
	e.canvas.SetLineWidth(0.75)
	e.canvas.DrawLine(e.theme.Margin.Left, y, e.theme.Margin.Left+e.contentWidth(), y)
	e.page.advance(ruleSpace + e.theme.BlockSpacing*0.5)
}

func (e *engine) drawItem(item article.ContentItem) {
	switch item.Kind {
	case article.KindParagraph:
		e.drawParagraph(item.Segments)
	case article.KindList:
		e.drawList(item.List)
	case article.KindQuote:
		e.drawQuote(item.Segments)
	case article.KindCode:
		e.drawCode(item.Code)
	case article.KindImage:
		e.drawImage(item.Image)
	case article.KindCaption:
		e.drawCaption(item.Segments)
	case article.KindRule:
		e.drawRule()
	default:
		e.log.Warn("未知内容类型，跳过", "kind", int(item.Kind))
	}
}
