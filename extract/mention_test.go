package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func selection(t *testing.T, html, query string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("解析测试片段失败: %v", err)
	}
	return doc.Find(query).First()
}

func TestMentionCardRecognized(t *testing.T) {
	b := &builder{}
	s := selection(t,
		`<p><a class="mention-card" href="https://example.com/a"><strong>Another Post</strong> worth reading</a></p>`,
		"p")
	if !b.mentionCard(s) {
		t.Fatal("提及卡片未被识别")
	}
	if len(b.mentions) != 1 {
		t.Fatalf("期望 1 条提及，got %d", len(b.mentions))
	}
	m := b.mentions[0]
	if m.Title != "Another Post" {
		t.Fatalf("提及标题不符：%q", m.Title)
	}
	if m.Subtitle != "worth reading" {
		t.Fatalf("提及副标题不符：%q", m.Subtitle)
	}
	if m.URL != "https://example.com/a" {
		t.Fatalf("提及链接不符：%q", m.URL)
	}
}

func TestMentionCardRejectsPlainLinkParagraph(t *testing.T) {
	b := &builder{}
	s := selection(t, `<p><a href="https://example.com/a">just a link</a></p>`, "p")
	if b.mentionCard(s) {
		t.Fatal("普通链接段落不应识别为提及卡片")
	}
	s = selection(t, `<p>text with <a class="mention" href="/a">link</a> and more</p>`, "p")
	if b.mentionCard(s) {
		t.Fatal("链接外带正文的段落不应识别为提及卡片")
	}
	if len(b.mentions) != 0 {
		t.Fatalf("不应累积提及：%v", b.mentions)
	}
}

func TestMentionCardDataAttribute(t *testing.T) {
	b := &builder{}
	s := selection(t, `<p><a data-mention href="/a">Titled Mention</a></p>`, "p")
	if !b.mentionCard(s) {
		t.Fatal("data-mention 链接未被识别")
	}
	if b.mentions[0].Title != "Titled Mention" {
		t.Fatalf("标题不符：%q", b.mentions[0].Title)
	}
}
