package article

import "testing"

func TestSegmentSameStyle(t *testing.T) {
	a := Segment{Text: "x", Bold: true, Link: "https://example.com"}
	b := Segment{Text: "y", Bold: true, Link: "https://example.com"}
	if !a.SameStyle(b) {
		t.Fatal("文本不同但样式相同，应判定同样式")
	}
	c := Segment{Text: "y", Bold: true}
	if a.SameStyle(c) {
		t.Fatal("链接不同不应判定同样式")
	}
	d := Segment{Text: "y", Bold: true, Italic: true, Link: "https://example.com"}
	if a.SameStyle(d) {
		t.Fatal("斜体不同不应判定同样式")
	}
}
