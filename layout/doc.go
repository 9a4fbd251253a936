package layout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ByLCY/vellum/article"
)

// Render 把一篇文章排版到画布上，返回序列化后的文档字节
// 与建议文件名。画布实例一次渲染后即作废。
func Render(art *article.Article, c Canvas, opts Options) ([]byte, string, error) {
	if art == nil {
		return nil, "", fmt.Errorf("文章为空")
	}
	if c == nil {
		return nil, "", fmt.Errorf("画布为空")
	}
	theme := opts.Theme
	if theme.BodySize == 0 {
		theme = DefaultTheme()
	}

	e := &engine{
		canvas: c,
		m:      NewMeasurer(c, opts.Emoji),
		theme:  theme,
		log:    opts.logger(),
		images: opts.Images,
		emoji:  opts.Emoji,
	}
	c.SetMeta(art.Title, art.Author)
	c.AddPage()
	e.page = newPageState(c, theme.Margin)

	e.drawFrontMatter(art)
	for _, b := range art.Blocks {
		if b.Heading != "" {
			e.drawHeading(b.Heading, b.Level)
		}
		for _, item := range b.Items {
			e.drawItem(item)
		}
	}
	e.drawMentions(art.Mentions)

	attachOutline(c, buildOutline(e.headings), e.log)

	data, err := c.Save()
	if err != nil {
		return nil, "", fmt.Errorf("序列化文档失败: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("渲染结果为空")
	}
	return data, BuildFilename(art.Title, art.PublishedDate), nil
}

// drawFrontMatter 绘制文首区：大标题、副标题、署名行、
// 规范链接与头图。
func (e *engine) drawFrontMatter(art *article.Article) {
	if art.Title != "" {
		e.drawWrapped([]article.Segment{{Text: art.Title, Bold: true}},
			e.theme.TitleSize, e.theme.TextColor, 0)
		e.page.advance(e.theme.BlockSpacing * 0.5)
	}
	if art.Subtitle != "" {
		e.drawWrapped([]article.Segment{{Text: art.Subtitle}},
			e.theme.SubtitleSize, e.theme.MutedColor, 0)
		e.page.advance(e.theme.BlockSpacing * 0.5)
	}

	var meta []string
	if art.Author != "" {
		meta = append(meta, art.Author)
	}
	if art.PublishedDate != "" {
		meta = append(meta, art.PublishedDate)
	}
	if art.ReadingTimeMinutes > 0 {
		meta = append(meta, fmt.Sprintf("%d 分钟阅读", art.ReadingTimeMinutes))
	}
	if len(meta) > 0 {
		e.drawWrapped([]article.Segment{{Text: strings.Join(meta, " · ")}},
			e.theme.CaptionSize, e.theme.MutedColor, 0)
	}
	if art.CanonicalURL != "" {
		e.drawWrapped([]article.Segment{{Text: art.CanonicalURL, Link: art.CanonicalURL}},
			e.theme.CaptionSize, e.theme.MutedColor, 0)
	}
	e.page.advance(e.theme.BlockSpacing)

	if art.HeroImage != nil {
		e.drawImage(art.HeroImage)
	}
}

// drawMentions 绘制文末的提及卡片列表。
func (e *engine) drawMentions(mentions []article.Mention) {
	if len(mentions) == 0 {
		return
	}
	e.drawRule()
	for _, m := range mentions {
		segs := []article.Segment{{Text: m.Title, Bold: true, Link: m.URL}}
		if m.Subtitle != "" {
			segs = append(segs, article.Segment{Text: "\n" + m.Subtitle})
		}
		e.drawWrapped(segs, e.theme.BodySize, e.theme.MutedColor, 0)
		e.page.advance(e.theme.BlockSpacing * 0.5)
	}
}

var (
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	illegalPattern = regexp.MustCompile(`[^0-9A-Za-z_-]`)
	repeatPattern  = regexp.MustCompile(`_+`)
)

// titleSeparators 之后的内容视为站点名等附属信息，截断丢弃。
// 裸连字符只在两侧有空格时视为分隔符，避免误伤连写词。
var titleSeparators = []string{"—", "–", "|", ":", " - "}

// BuildFilename 由标题与发布日期推导文件名：截断分隔符之后的
// 内容，非法字符替换为下划线并折叠，日期合法时作为前缀。
// 清理后为空则退回 article.pdf。
func BuildFilename(title, publishedDate string) string {
	name := title
	for _, sep := range titleSeparators {
		if idx := strings.Index(name, sep); idx >= 0 {
			name = name[:idx]
		}
	}
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = illegalPattern.ReplaceAllString(name, "_")
	name = repeatPattern.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "article.pdf"
	}
	if datePattern.MatchString(publishedDate) {
		return publishedDate + "-" + name + ".pdf"
	}
	return name + ".pdf"
}
