package extract

import (
	"strings"
	"testing"

	"github.com/ByLCY/vellum/article"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head>
<title>Why Ducks Migrate — Field Notes</title>
<link rel="canonical" href="https://example.com/ducks"/>
<meta property="article:published_time" content="2025-03-04T10:00:00Z"/>
<meta property="og:description" content="Notes on seasonal movement."/>
</head>
<body>
<article>
<h1>Why Ducks Migrate</h1>
<p>Every autumn, ducks across the northern hemisphere begin a long journey
south. The journey is driven by food availability rather than temperature,
a distinction that surprises many casual observers of waterfowl behavior.
Research over the last decade has sharpened our understanding considerably.</p>
<h2>Navigation</h2>
<p>Ducks combine <strong>magnetic sensing</strong> with <em>landmark memory</em>
to navigate. Juveniles follow experienced adults on their first trip, and the
route becomes fixed after only one or two seasons of repetition. See the
<a href="/methods">methods appendix</a> for instrumentation details.</p>
<ul>
<li>Magnetic field detection</li>
<li>Stellar orientation at night</li>
</ul>
<blockquote>Migration is less a marathon than a relay of short hops.</blockquote>
<pre><code class="language-go">func migrate() { fly() }</code></pre>
<h3>Tracking data</h3>
<p>Satellite tags record position every few hours, producing dense tracks
that reveal stopover sites previously unknown to researchers. These sites
turn out to be critical bottlenecks for entire flyway populations.</p>
<hr/>
</article>
</body>
</html>`

func TestFromHTMLStructure(t *testing.T) {
	art, err := FromHTML([]byte(fixtureHTML), "https://example.com/ducks-draft")
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	if !strings.Contains(art.Title, "Ducks") {
		t.Fatalf("标题不符：%q", art.Title)
	}
	if art.CanonicalURL != "https://example.com/ducks" {
		t.Fatalf("规范链接应取自 link[rel=canonical]：%q", art.CanonicalURL)
	}
	if art.PublishedDate != "2025-03-04" {
		t.Fatalf("发布日期不符：%q", art.PublishedDate)
	}
	if art.ReadingTimeMinutes < 1 {
		t.Fatalf("阅读时长至少 1 分钟：%d", art.ReadingTimeMinutes)
	}
	if len(art.Blocks) == 0 {
		t.Fatal("未提取到任何块")
	}

	var headings []string
	kinds := map[article.Kind]bool{}
	for _, b := range art.Blocks {
		if b.Heading != "" {
			headings = append(headings, b.Heading)
		}
		for _, item := range b.Items {
			kinds[item.Kind] = true
		}
	}
	if !kinds[article.KindParagraph] {
		t.Fatal("缺少段落")
	}
	found := false
	for _, h := range headings {
		if strings.Contains(h, "Navigation") {
			found = true
		}
	}
	if !found {
		t.Fatalf("缺少 Navigation 标题：%v", headings)
	}
}

func TestFromHTMLInlineStyles(t *testing.T) {
	art, err := FromHTML([]byte(fixtureHTML), "https://example.com/ducks")
	if err != nil {
		t.Fatalf("提取失败: %v", err)
	}
	var bold, italic, linked bool
	for _, b := range art.Blocks {
		for _, item := range b.Items {
			for _, s := range item.Segments {
				if s.Bold {
					bold = true
				}
				if s.Italic {
					italic = true
				}
				if s.Link != "" {
					if !strings.HasPrefix(s.Link, "https://example.com/") {
						t.Fatalf("相对链接未解析：%q", s.Link)
					}
					linked = true
				}
			}
		}
	}
	if !bold || !italic || !linked {
		t.Fatalf("行内样式缺失：bold=%v italic=%v linked=%v", bold, italic, linked)
	}
}

func TestHeadingLevelMapping(t *testing.T) {
	cases := map[string]int{"h1": 2, "h2": 2, "h3": 3, "h4": 4, "h5": 4, "h6": 4}
	for tag, want := range cases {
		if got := headingLevel(tag); got != want {
			t.Fatalf("headingLevel(%q) = %d，期望 %d", tag, got, want)
		}
	}
}

func TestMergeSegments(t *testing.T) {
	segs := mergeSegments([]article.Segment{
		{Text: "hello "},
		{Text: "world"},
		{Text: "bold", Bold: true},
		{Text: " more", Bold: true},
	})
	if len(segs) != 2 {
		t.Fatalf("相邻同样式片段应合并：got %d 段 %+v", len(segs), segs)
	}
	if segs[0].Text != "hello world" {
		t.Fatalf("合并结果不符：%q", segs[0].Text)
	}
	if !segs[1].Bold || segs[1].Text != "bold more" {
		t.Fatalf("加粗段合并不符：%+v", segs[1])
	}
}

func TestCollapseInlineKeepsNewline(t *testing.T) {
	if got := collapseInline("a\nb"); got != "a b" {
		t.Fatalf("段内换行应折叠为空格：%q", got)
	}
	if got := collapseInline("\n"); got != "\n" {
		t.Fatalf("br 产生的换行应保留：%q", got)
	}
	if got := collapseInline("a   b\t c"); got != "a b c" {
		t.Fatalf("连续空白应折叠：%q", got)
	}
}

func TestReadingTime(t *testing.T) {
	if got := readingTime(""); got != 1 {
		t.Fatalf("空文本至少 1 分钟：%d", got)
	}
	if got := readingTime(strings.Repeat("word ", 199)); got != 1 {
		t.Fatalf("199 词应为 1 分钟：%d", got)
	}
	if got := readingTime(strings.Repeat("word ", 201)); got != 2 {
		t.Fatalf("201 词应为 2 分钟：%d", got)
	}
}

func TestDecodeDataURL(t *testing.T) {
	data, err := decodeDataURL("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("解码结果不符：%q", data)
	}
	if _, err := decodeDataURL("data:image/png"); err == nil {
		t.Fatal("缺少数据段应报错")
	}
}

func TestDecodeDataURLPercentEncoded(t *testing.T) {
	data, err := decodeDataURL("data:image/svg+xml,%3Csvg%3E%20%3C%2Fsvg%3E")
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if string(data) != "<svg> </svg>" {
		t.Fatalf("百分号编码未还原：%q", data)
	}
	if _, err := decodeDataURL("data:image/svg+xml,%zz"); err == nil {
		t.Fatal("非法百分号编码应报错")
	}
}

func TestExtractCodeLanguage(t *testing.T) {
	s := selection(t, `<pre><code class="language-go">func migrate() { fly() }
</code></pre>`, "pre")
	code := extractCode(s)
	if code == nil {
		t.Fatal("代码块未提取")
	}
	if code.Language != "go" {
		t.Fatalf("代码语言不符：%q", code.Language)
	}
	if code.Text != "func migrate() { fly() }" {
		t.Fatalf("代码内容不符（尾随换行应去除）：%q", code.Text)
	}
}

func TestExtractCodeWithoutLanguage(t *testing.T) {
	s := selection(t, `<pre>plain shell output</pre>`, "pre")
	code := extractCode(s)
	if code == nil {
		t.Fatal("无 code 子节点的 pre 也应提取")
	}
	if code.Language != "" {
		t.Fatalf("不应推断出语言：%q", code.Language)
	}
	if code.Text != "plain shell output" {
		t.Fatalf("代码内容不符：%q", code.Text)
	}
}
