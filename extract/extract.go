// Package extract 把原始 HTML 还原为结构化文章模型：
// 先用 readability 提取正文，再用 goquery 遍历干净的 DOM，
// 映射为标题分节的块与行内样式片段。
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/ByLCY/vellum/article"
)

// wordsPerMinute 用于估算阅读时长。
const wordsPerMinute = 200

// FromHTML 解析一篇页面 HTML 并返回文章模型。
// pageURL 用于解析相对链接，可为空。
func FromHTML(htmlBytes []byte, pageURL string) (*article.Article, error) {
	var base *url.URL
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("解析页面地址失败: %w", err)
		}
		base = u
	}

	parser := readability.NewParser()
	ra, err := parser.Parse(bytes.NewReader(htmlBytes), base)
	if err != nil {
		return nil, fmt.Errorf("正文提取失败: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ra.Content))
	if err != nil {
		return nil, fmt.Errorf("解析提取结果失败: %w", err)
	}

	b := &builder{base: base}
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		b.walk(s)
	})
	b.flush()

	art := &article.Article{
		Title:              strings.TrimSpace(ra.Title),
		Author:             strings.TrimSpace(ra.Byline),
		CanonicalURL:       pageURL,
		Blocks:             b.blocks,
		Mentions:           b.mentions,
		ReadingTimeMinutes: readingTime(ra.TextContent),
	}
	if ra.Excerpt != "" && ra.Excerpt != art.Title {
		art.Subtitle = strings.TrimSpace(ra.Excerpt)
	}
	if ra.PublishedTime != nil {
		art.PublishedDate = ra.PublishedTime.Format("2006-01-02")
	}
	if ra.Image != "" {
		art.HeroImage = &article.Image{Src: b.resolve(ra.Image)}
	}
	fillHeadMeta(htmlBytes, art)
	return art, nil
}

// fillHeadMeta 从原始文档的 head 补齐提取器拿不到的元信息。
func fillHeadMeta(htmlBytes []byte, art *article.Article) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok && href != "" {
		art.CanonicalURL = href
	}
	if art.PublishedDate == "" {
		if v, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok && len(v) >= 10 {
			art.PublishedDate = v[:10]
		}
	}
	if art.Subtitle == "" {
		if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			art.Subtitle = strings.TrimSpace(v)
		}
	}
}

// readingTime 按每分钟 200 词估算，至少 1 分钟。
func readingTime(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// builder 累积遍历结果。当前分节的标题与条目在 flush 时合入块列表。
type builder struct {
	base     *url.URL
	blocks   []article.Block
	mentions []article.Mention

	heading string
	level   int
	items   []article.ContentItem
}

func (b *builder) flush() {
	if b.heading == "" && len(b.items) == 0 {
		return
	}
	b.blocks = append(b.blocks, article.Block{
		Heading: b.heading,
		Level:   b.level,
		Items:   b.items,
	})
	b.heading = ""
	b.level = 0
	b.items = nil
}

func (b *builder) add(item article.ContentItem) {
	b.items = append(b.items, item)
}

func (b *builder) resolve(href string) string {
	if b.base == nil || href == "" {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.base.ResolveReference(u).String()
}

func headingLevel(tag string) int {
	// h1 正文内出现时降级为 h2，大纲从二级开始。
	switch tag {
	case "h1", "h2":
		return 2
	case "h3":
		return 3
	default:
		return 4
	}
}

func (b *builder) walk(s *goquery.Selection) {
	tag := goquery.NodeName(s)
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.flush()
		b.heading = collapseSpace(s.Text())
		b.level = headingLevel(tag)

	case "p":
		if b.mentionCard(s) {
			return
		}
		segs := b.inlineSegments(s, article.Segment{})
		if segmentsBlank(segs) {
			return
		}
		b.add(article.ContentItem{Kind: article.KindParagraph, Segments: segs})

	case "ul", "ol":
		list := &article.List{Ordered: tag == "ol"}
		s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			segs := b.inlineSegments(li, article.Segment{})
			if !segmentsBlank(segs) {
				list.Items = append(list.Items, segs)
			}
		})
		if len(list.Items) > 0 {
			b.add(article.ContentItem{Kind: article.KindList, List: list})
		}

	case "blockquote":
		segs := b.inlineSegments(s, article.Segment{})
		if !segmentsBlank(segs) {
			b.add(article.ContentItem{Kind: article.KindQuote, Segments: segs})
		}

	case "pre":
		code := extractCode(s)
		if code != nil {
			b.add(article.ContentItem{Kind: article.KindCode, Code: code})
		}

	case "img":
		if img := b.imageFrom(s); img != nil {
			b.add(article.ContentItem{Kind: article.KindImage, Image: img})
		}

	case "figcaption":
		segs := b.inlineSegments(s, article.Segment{})
		if !segmentsBlank(segs) {
			b.add(article.ContentItem{Kind: article.KindCaption, Segments: segs})
		}

	case "hr":
		b.add(article.ContentItem{Kind: article.KindRule})

	case "figure", "picture", "div", "section", "article", "main", "span":
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			b.walk(child)
		})

	case "#text":
		if collapseSpace(s.Text()) != "" {
			b.add(article.ContentItem{
				Kind:     article.KindParagraph,
				Segments: []article.Segment{{Text: collapseSpace(s.Text())}},
			})
		}
	}
}

// mentionCard 识别文末的推荐卡片段落：整段唯一子节点是一个
// 带提及标记的链接。命中时归档为 Mention 而非正文段落。
func (b *builder) mentionCard(s *goquery.Selection) bool {
	links := s.ChildrenFiltered("a")
	if links.Length() != 1 {
		return false
	}
	a := links.First()
	// 链接外不能有其它正文，否则是普通段落。
	if collapseSpace(s.Text()) != collapseSpace(a.Text()) {
		return false
	}
	class, _ := a.Attr("class")
	if !strings.Contains(class, "mention") {
		if _, ok := a.Attr("data-mention"); !ok {
			return false
		}
	}
	href, _ := a.Attr("href")
	title := collapseSpace(a.Find("strong,b").First().Text())
	if title == "" {
		title = collapseSpace(a.Text())
	}
	if title == "" || href == "" {
		return false
	}
	sub := collapseSpace(strings.TrimPrefix(collapseSpace(a.Text()), title))
	b.mentions = append(b.mentions, article.Mention{
		Title:    title,
		Subtitle: sub,
		URL:      b.resolve(href),
	})
	return true
}

func (b *builder) imageFrom(s *goquery.Selection) *article.Image {
	src, _ := s.Attr("src")
	if src == "" {
		src, _ = s.Attr("data-src")
	}
	if src == "" {
		return nil
	}
	img := &article.Image{Src: b.resolve(src)}
	if w, ok := s.Attr("width"); ok {
		fmt.Sscanf(w, "%d", &img.Width)
	}
	if h, ok := s.Attr("height"); ok {
		fmt.Sscanf(h, "%d", &img.Height)
	}
	return img
}

func extractCode(s *goquery.Selection) *article.Code {
	text := s.Text()
	lang := ""
	if codeSel := s.Find("code"); codeSel.Length() > 0 {
		text = codeSel.Text()
		if class, ok := codeSel.Attr("class"); ok {
			for _, c := range strings.Fields(class) {
				if strings.HasPrefix(c, "language-") {
					lang = strings.TrimPrefix(c, "language-")
					break
				}
			}
		}
	}
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &article.Code{Text: text, Language: lang}
}

// inlineSegments 递归展开行内节点为样式片段，相邻同样式片段合并。
func (b *builder) inlineSegments(s *goquery.Selection, style article.Segment) []article.Segment {
	var segs []article.Segment
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		segs = append(segs, b.inlineNode(child, style)...)
	})
	return mergeSegments(segs)
}

func (b *builder) inlineNode(s *goquery.Selection, style article.Segment) []article.Segment {
	switch goquery.NodeName(s) {
	case "#text":
		text := s.Text()
		if text == "" {
			return nil
		}
		seg := style
		seg.Text = text
		return []article.Segment{seg}
	case "br":
		seg := style
		seg.Text = "\n"
		return []article.Segment{seg}
	case "b", "strong":
		style.Bold = true
	case "i", "em":
		style.Italic = true
	case "code", "kbd", "samp":
		style.Mono = true
	case "a":
		if href, ok := s.Attr("href"); ok {
			style.Link = b.resolve(href)
		}
	case "script", "style":
		return nil
	}
	var segs []article.Segment
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		segs = append(segs, b.inlineNode(child, style)...)
	})
	return segs
}

// mergeSegments 合并相邻同样式片段并压缩段内空白。
func mergeSegments(segs []article.Segment) []article.Segment {
	var out []article.Segment
	for _, s := range segs {
		s.Text = collapseInline(s.Text)
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].SameStyle(s) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	// 收尾去掉整体首尾空白。
	if len(out) > 0 {
		out[0].Text = strings.TrimLeft(out[0].Text, " ")
		last := len(out) - 1
		out[last].Text = strings.TrimRight(out[last].Text, " ")
		if out[0].Text == "" && len(out) == 1 {
			return nil
		}
	}
	return out
}

// collapseInline 把换行外的空白折叠为单个空格，保留 \n。
func collapseInline(s string) string {
	if s == "\n" {
		return s
	}
	var b strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		if space && b.Len() == 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func segmentsBlank(segs []article.Segment) bool {
	for _, s := range segs {
		if strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}
