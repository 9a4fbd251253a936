package article

// 该文件定义抽取结果的文档模型，是抽取器与排版引擎之间的契约边界。
// 排版引擎不关心文档如何产生，只依赖这里的结构。

// Article 表示一篇待渲染的文章。构造完成后视为不可变，
// 一次渲染调用独占其所有权。
type Article struct {
	Title              string    `json:"title"`
	Subtitle           string    `json:"subtitle,omitempty"`
	Author             string    `json:"author"`
	PublishedDate      string    `json:"publishedDate,omitempty"` // 形如 2025-01-02，允许为空
	ReadingTimeMinutes int       `json:"readingTimeMinutes,omitempty"`
	CanonicalURL       string    `json:"canonicalUrl"`
	HeroImage          *Image    `json:"heroImage,omitempty"`
	Blocks             []Block   `json:"blocks"`
	Mentions           []Mention `json:"mentions,omitempty"`
}

// Block 表示一个以标题分隔的章节。Heading 为空表示首个标题前的引导内容。
type Block struct {
	Heading string        `json:"heading,omitempty"`
	Level   int           `json:"level"` // 标题层级，>= 2
	Items   []ContentItem `json:"items"`
}

// Kind 标记 ContentItem 的具体类型，渲染器按其做穷举分发。
type Kind int

const (
	KindParagraph Kind = iota
	KindList
	KindQuote
	KindCode
	KindImage
	KindCaption
	KindRule
)

// ContentItem 是段落、列表、引用、代码、图片、图注与分隔线的带标签联合。
// 只有 Kind 对应的字段有效。
type ContentItem struct {
	Kind     Kind      `json:"kind"`
	Segments []Segment `json:"segments,omitempty"` // paragraph/quote/caption
	List     *List     `json:"list,omitempty"`
	Code     *Code     `json:"code,omitempty"`
	Image    *Image    `json:"image,omitempty"`
}

// List 表示有序或无序列表，每一项是一组 Segment。
type List struct {
	Ordered bool        `json:"ordered"`
	Items   [][]Segment `json:"items"`
}

// Code 表示原样保留空白的代码块。
type Code struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Image 记录图片来源与可选的原始尺寸（像素）。
type Image struct {
	Src    string `json:"src"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Segment 是共享同一样式的文本片段。Text 中可能含有换行符，
// 排版引擎将其视为强制断行标记。生产方应当预先合并相邻同样式的
// 片段以减少碎片，但引擎必须容忍未合并的输入。
type Segment struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Mono   bool   `json:"mono,omitempty"`
	Link   string `json:"link,omitempty"`
}

// SameStyle 判断两个片段的样式标志是否完全一致（用于生产方合并）。
func (s Segment) SameStyle(o Segment) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Mono == o.Mono && s.Link == o.Link
}

// Mention 表示文中引用的外部卡片（标题、可选副标题与链接）。
type Mention struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	URL      string `json:"url"`
}
