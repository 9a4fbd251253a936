// Package fpdf 基于 codeberg.org/go-pdf/fpdf 实现 layout.Canvas。
package fpdf

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	gofpdf "codeberg.org/go-pdf/fpdf"
	"github.com/gabriel-vasile/mimetype"

	"github.com/ByLCY/vellum/layout"
)

// Canvas 是写向 PDF 的页面画布。A4 纵向，单位 pt，
// 自动分页关闭——分页完全由排版引擎驱动。
type Canvas struct {
	pdf *gofpdf.Fpdf
	// 图片按内容哈希注册，同图多次绘制只嵌入一份数据。
	registered map[string]string
}

var _ layout.Canvas = (*Canvas)(nil)

// New 构造一个空白画布。首页由调用方通过 AddPage 显式添加。
func New() *Canvas {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	return &Canvas{
		pdf:        pdf,
		registered: make(map[string]string),
	}
}

func familyName(f layout.Family) string {
	if f == layout.FamilyMono {
		return "Courier"
	}
	return "Helvetica"
}

func styleCode(s layout.Style) string {
	var b strings.Builder
	if s.Bold {
		b.WriteByte('B')
	}
	if s.Italic {
		b.WriteByte('I')
	}
	return b.String()
}

func (c *Canvas) SetFont(family layout.Family, style layout.Style) {
	// 字号传 0 表示沿用当前字号。
	c.pdf.SetFont(familyName(family), styleCode(style), 0)
}

func (c *Canvas) SetFontSize(size float64) {
	c.pdf.SetFontSize(size)
}

func (c *Canvas) SetTextColor(col layout.Color) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *Canvas) SetDrawColor(col layout.Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
}

func (c *Canvas) SetFillColor(col layout.Color) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
}

func (c *Canvas) SetLineWidth(w float64) {
	c.pdf.SetLineWidth(w)
}

func (c *Canvas) MeasureText(text string) float64 {
	return c.pdf.GetStringWidth(text)
}

func (c *Canvas) DrawText(text string, x, y float64) {
	c.pdf.Text(x, y, text)
}

func (c *Canvas) DrawLinkedText(text string, x, y float64, url string) {
	c.pdf.Text(x, y, text)
	size, _ := c.pdf.GetFontSize()
	w := c.pdf.GetStringWidth(text)
	c.pdf.LinkString(x, y-size*0.8, w, size*1.1, url)
}

func (c *Canvas) DrawImage(data []byte, format string, x, y, w, h float64) {
	if len(data) == 0 {
		return
	}
	if format == "" {
		format = sniffImageType(data)
		if format == "" {
			return
		}
	}
	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	sum := sha1.Sum(data)
	name := hex.EncodeToString(sum[:])
	if _, ok := c.registered[name]; !ok {
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		c.registered[name] = format
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func sniffImageType(data []byte) string {
	switch mimetype.Detect(data).String() {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	default:
		return ""
	}
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *Canvas) AddLinkRegion(x, y, w, h float64, url string) {
	c.pdf.LinkString(x, y, w, h, url)
}

func (c *Canvas) AddPage() {
	c.pdf.AddPage()
}

func (c *Canvas) PageWidth() float64 {
	w, _ := c.pdf.GetPageSize()
	return w
}

func (c *Canvas) PageHeight() float64 {
	_, h := c.pdf.GetPageSize()
	return h
}

func (c *Canvas) PageCount() int {
	return c.pdf.PageCount()
}

// AddOutlineNode 在目标页写入书签。底层书签只能挂到当前页，
// 因此临时切页再切回。
func (c *Canvas) AddOutlineNode(title string, depth int, dest layout.Destination) error {
	if dest.Page < 1 || dest.Page > c.pdf.PageCount() {
		return fmt.Errorf("书签目标页 %d 越界（共 %d 页）", dest.Page, c.pdf.PageCount())
	}
	cur := c.pdf.PageNo()
	c.pdf.SetPage(dest.Page)
	c.pdf.Bookmark(title, depth, dest.Y)
	c.pdf.SetPage(cur)
	return nil
}

func (c *Canvas) SetMeta(title, author string) {
	if title != "" {
		c.pdf.SetTitle(title, true)
	}
	if author != "" {
		c.pdf.SetAuthor(author, true)
	}
}

func (c *Canvas) Save() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写出 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}
