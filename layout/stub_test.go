package layout

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/ByLCY/vellum/emoji"
)

// fakeCanvas 以固定字宽实现 Canvas，记录全部绘制调用供断言。
// 每个字符宽度为 0.5 倍字号，与真实字体无关但可预测。
type fakeCanvas struct {
	size   float64
	family Family
	style  Style

	pages   int
	curPage int

	texts    []fakeText
	images   []fakeImage
	rects    []fakeRect
	lines    []fakeLine
	regions  []fakeRegion
	outline  []fakeOutline
	title    string
	author   string
	failPage int // 挂接该页书签时返回错误；0 表示不失败
}

type fakeText struct {
	text   string
	x, y   float64
	size   float64
	family Family
	style  Style
	link   string
}

type fakeImage struct {
	x, y, w, h float64
}

type fakeRect struct {
	x, y, w, h float64
}

type fakeLine struct {
	x1, y1, x2, y2 float64
}

type fakeRegion struct {
	x, y, w, h float64
	url        string
}

type fakeOutline struct {
	title string
	depth int
	dest  Destination
}

func newFakeCanvas() *fakeCanvas {
	return &fakeCanvas{size: 11}
}

func (c *fakeCanvas) SetFont(f Family, s Style) { c.family, c.style = f, s }
func (c *fakeCanvas) SetFontSize(size float64)  { c.size = size }
func (c *fakeCanvas) SetTextColor(Color)        {}
func (c *fakeCanvas) SetDrawColor(Color)        {}
func (c *fakeCanvas) SetFillColor(Color)        {}
func (c *fakeCanvas) SetLineWidth(float64)      {}

func (c *fakeCanvas) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * c.size * 0.5
}

func (c *fakeCanvas) DrawText(text string, x, y float64) {
	c.texts = append(c.texts, fakeText{text: text, x: x, y: y, size: c.size, family: c.family, style: c.style})
}

func (c *fakeCanvas) DrawLinkedText(text string, x, y float64, url string) {
	c.texts = append(c.texts, fakeText{text: text, x: x, y: y, size: c.size, family: c.family, style: c.style, link: url})
}

func (c *fakeCanvas) DrawImage(_ []byte, _ string, x, y, w, h float64) {
	c.images = append(c.images, fakeImage{x: x, y: y, w: w, h: h})
}

func (c *fakeCanvas) DrawLine(x1, y1, x2, y2 float64) {
	c.lines = append(c.lines, fakeLine{x1: x1, y1: y1, x2: x2, y2: y2})
}

func (c *fakeCanvas) FillRect(x, y, w, h float64) {
	c.rects = append(c.rects, fakeRect{x: x, y: y, w: w, h: h})
}

func (c *fakeCanvas) AddLinkRegion(x, y, w, h float64, url string) {
	c.regions = append(c.regions, fakeRegion{x: x, y: y, w: w, h: h, url: url})
}

func (c *fakeCanvas) AddPage() {
	c.pages++
	c.curPage = c.pages
}

func (c *fakeCanvas) PageWidth() float64  { return 595 }
func (c *fakeCanvas) PageHeight() float64 { return 842 }
func (c *fakeCanvas) PageCount() int      { return c.pages }

func (c *fakeCanvas) AddOutlineNode(title string, depth int, dest Destination) error {
	if c.failPage != 0 && dest.Page == c.failPage {
		return fmt.Errorf("目标页 %d 不可用", dest.Page)
	}
	c.outline = append(c.outline, fakeOutline{title: title, depth: depth, dest: dest})
	return nil
}

func (c *fakeCanvas) SetMeta(title, author string) { c.title, c.author = title, author }

func (c *fakeCanvas) Save() ([]byte, error) { return []byte("%PDF-fake"), nil }

// fakeEmoji 返回固定的方形位图，记录测量调用次数。
type fakeEmoji struct {
	measured map[string]int
}

func newFakeEmoji() *fakeEmoji {
	return &fakeEmoji{measured: make(map[string]int)}
}

func (f *fakeEmoji) MeasurePx(g string, _, _ bool, sizePx float64) float64 {
	f.measured[g]++
	return sizePx
}

func (f *fakeEmoji) Bitmap(string, bool, bool, float64) (*emoji.Bitmap, error) {
	return &emoji.Bitmap{PNG: []byte("png"), W: 64, H: 64}, nil
}

func newTestEngine(c *fakeCanvas, es EmojiSource) *engine {
	th := DefaultTheme()
	c.AddPage()
	return &engine{
		canvas: c,
		m:      NewMeasurer(c, es),
		page:   newPageState(c, th.Margin),
		theme:  th,
		log:    slog.New(slog.DiscardHandler),
		emoji:  es,
	}
}
