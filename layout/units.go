package layout

// 单位换算。页面几何统一用 pt；图片固有尺寸按 CSS 像素（96dpi）折算。

const (
	ptPerInch = 72.0
	pxPerInch = 96.0

	// pxPerPt 用于把排版字号换算成光栅像素字号。
	pxPerPt = pxPerInch / ptPerInch
)

// PxToPt 把 CSS 像素换算为 pt。
func PxToPt(px float64) float64 {
	return px * ptPerInch / pxPerInch
}

// PtToPx 把 pt 换算为 CSS 像素。
func PtToPx(pt float64) float64 {
	return pt * pxPerInch / ptPerInch
}
