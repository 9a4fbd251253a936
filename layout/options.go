package layout

import (
	"log/slog"
)

// Margin 描述页面四边留白（pt）。
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Theme 集中排版参数：字号、颜色、留白与间距。
// 零值不可直接使用，调用方应从 DefaultTheme 出发按需覆盖。
type Theme struct {
	Margin Margin

	BodySize     float64
	TitleSize    float64
	SubtitleSize float64
	H2Size       float64
	H3Size       float64
	H4Size       float64
	CodeSize     float64
	// MinCodeSize 是代码行横向压缩的字号下限。
	MinCodeSize float64
	CaptionSize float64

	// LineFactor 是行高与字号之比。
	LineFactor float64
	// AscentFactor 是基线距行顶的比例。
	AscentFactor float64

	BlockSpacing float64
	QuoteIndent  float64
	CodePadding  float64

	TextColor  Color
	MutedColor Color
	LinkColor  Color
	CodeColor  Color
	CodeBg     Color
	RuleColor  Color
	QuoteBar   Color
}

// DefaultTheme 返回 A4 文章版式的默认参数。
func DefaultTheme() Theme {
	return Theme{
		Margin: Margin{Top: 56, Right: 48, Bottom: 56, Left: 48},

		BodySize:     11,
		TitleSize:    20,
		SubtitleSize: 13,
		H2Size:       16,
		H3Size:       14,
		H4Size:       12.5,
		CodeSize:     10,
		MinCodeSize:  7,
		CaptionSize:  9.5,

		LineFactor:   1.45,
		AscentFactor: 0.8,

		BlockSpacing: 9,
		QuoteIndent:  14,
		CodePadding:  6,

		TextColor:  Color{R: 30, G: 30, B: 30},
		MutedColor: Color{R: 110, G: 110, B: 110},
		LinkColor:  Color{R: 17, G: 85, B: 204},
		CodeColor:  Color{R: 45, G: 45, B: 45},
		CodeBg:     Color{R: 245, G: 245, B: 245},
		RuleColor:  Color{R: 200, G: 200, B: 200},
		QuoteBar:   Color{R: 210, G: 210, B: 210},
	}
}

func (t Theme) headingSize(level int) float64 {
	switch level {
	case 2:
		return t.H2Size
	case 3:
		return t.H3Size
	default:
		return t.H4Size
	}
}

// ImageLoader 按来源地址取回图片字节。取不到时返回错误，
// 引擎会跳过该图片而非中断整篇渲染。
type ImageLoader interface {
	Load(src string) ([]byte, error)
}

// Options 配置一次渲染。
type Options struct {
	// Theme 为零值时使用 DefaultTheme。
	Theme Theme
	// Emoji 提供 emoji 的测量与位图；为 nil 时 emoji 按普通文本处理。
	Emoji EmojiSource
	// Images 为 nil 时跳过所有图片。
	Images ImageLoader
	// Logger 为 nil 时丢弃日志。
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
