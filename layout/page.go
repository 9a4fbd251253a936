package layout

// pageState 维护当前页的纵向游标。ensureSpace 是整个引擎里
// 唯一的分页决策点：各块渲染器在绘制前声明所需高度。
type pageState struct {
	canvas Canvas
	margin Margin
	y      float64
}

func newPageState(c Canvas, m Margin) *pageState {
	return &pageState{canvas: c, margin: m, y: m.Top}
}

// ensureSpace 保证当前游标下方至少有 h 的可用高度，
// 否则翻页并把游标重置到新页顶部。
func (p *pageState) ensureSpace(h float64) {
	if p.y+h <= p.maxY() {
		return
	}
	p.canvas.AddPage()
	p.y = p.margin.Top
}

// advance 把游标下移 h。
func (p *pageState) advance(h float64) {
	p.y += h
}

// maxY 是本页内容区的底界。
func (p *pageState) maxY() float64 {
	return p.canvas.PageHeight() - p.margin.Bottom
}

// remaining 返回本页剩余可用高度。
func (p *pageState) remaining() float64 {
	return p.maxY() - p.y
}

// contentWidth 返回内容区宽度。
func (p *pageState) contentWidth() float64 {
	return p.canvas.PageWidth() - p.margin.Left - p.margin.Right
}

// atTop 报告游标是否在页顶（尚未绘制任何内容）。
func (p *pageState) atTop() bool {
	return p.y <= p.margin.Top
}
