package layout

// 该文件定义排版引擎消费的页面画布契约。引擎只依赖这些原语，
// 不关心底层 PDF 写入器如何序列化对象图。

// Family 标识画布上可用的字体族。
type Family int

const (
	// FamilyBody 是正文字体（比例字体）。
	FamilyBody Family = iota
	// FamilyMono 是代码块使用的等宽字体。
	FamilyMono
)

// Style 描述字体样式标志。
type Style struct {
	Bold   bool
	Italic bool
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Destination 是书签/链接跳转的目标：页码（从 1 起）加纵坐标。
// Y 使用排版坐标系（页面顶部为原点）。
type Destination struct {
	Page int
	Y    float64
}

// DestY 把顶部原点的纵坐标换算为目标格式期望的底部原点坐标。
func (d Destination) DestY(pageHeight float64) float64 {
	return pageHeight - d.Y
}

// Canvas 是页面画布 API：引擎绘制文本、图片与图形，并在文档收尾时
// 挂接书签。所有坐标与尺寸均为 pt，页面顶部为原点。
// 一次文档生成调用独占一个 Canvas 实例。
type Canvas interface {
	SetFont(family Family, style Style)
	SetFontSize(size float64)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	SetFillColor(c Color)
	SetLineWidth(w float64)

	// MeasureText 返回当前字体/字号下文本的前进宽度。
	MeasureText(text string) float64

	// DrawText 在基线 (x, y) 处绘制文本。
	DrawText(text string, x, y float64)
	// DrawLinkedText 绘制文本并在其上注册指向 url 的可点击区域。
	DrawLinkedText(text string, x, y float64, url string)

	// DrawImage 绘制一张图片；format 为空时由实现自行探测。
	DrawImage(data []byte, format string, x, y, w, h float64)
	DrawLine(x1, y1, x2, y2 float64)
	FillRect(x, y, w, h float64)
	AddLinkRegion(x, y, w, h float64, url string)

	AddPage()
	PageWidth() float64
	PageHeight() float64
	PageCount() int

	// AddOutlineNode 添加一个书签节点；depth 从 0 起表示层级深度。
	// 无法解析目标页时返回错误，调用方跳过该节点即可。
	AddOutlineNode(title string, depth int, dest Destination) error

	// SetMeta 写入文档元信息。
	SetMeta(title, author string)

	// Save 序列化文档并返回字节数据。
	Save() ([]byte, error)
}
