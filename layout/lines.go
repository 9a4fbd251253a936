package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/vellum/article"
)

// 行折算：把一串带样式的 Segment 布置成若干不超过最大宽度的行。
// 折行只发生在 token 边界，token 内部（含 emoji 片段）永不拆开。

// LinePart 是一行中样式一致的连续片段。Seg 的 Text 字段不使用，
// 实际文本在 Text 中（已归一化）。
type LinePart struct {
	Seg       article.Segment
	Text      string
	Width     float64
	Fragments []Fragment // nil 表示纯文本，整段一次绘制
}

// Line 是折行结果中的一行。空行（Parts 为空）表示段内强制空行。
type Line struct {
	Parts []LinePart
	Width float64
}

// token = 非空白串带其尾随空白，或行首的空白串。
var tokenPattern = regexp.MustCompile(`\S+[ \t]*|[ \t]+`)

func tokenize(chunk string) []string {
	return tokenPattern.FindAllString(chunk, -1)
}

// coalesceSingles 合并连续的单字符 token（忽略尾随空白判定字符数）。
// 纯空白 token 终止合并且自身不参与。避免逐字 token 造成
// 一字一行的退化折行。
func coalesceSingles(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
		}
	}
	for _, t := range tokens {
		core := strings.TrimRight(t, " \t")
		if core != "" && utf8.RuneCountInString(core) == 1 {
			buf.WriteString(t)
			continue
		}
		flush()
		out = append(out, t)
	}
	flush()
	return out
}

func isBlankToken(s string) bool {
	return strings.TrimSpace(s) == ""
}

// layoutLines 对一组 Segment 做贪心折行。
// 规则：
//   - Segment 内的 \n 强制换行，连续 \n 产生保留的空行；
//   - token 放不下且当前行非空时换行，换行后行首的纯空白 token 丢弃；
//   - 单个 token 超过最大宽度时独占一行（允许溢出，保证推进）；
//   - 相邻同样式 token 不回并，绘制时逐片段输出。
func (m *Measurer) layoutLines(segs []article.Segment, maxWidth, size float64) []Line {
	var lines []Line
	var cur Line
	push := func() {
		lines = append(lines, cur)
		cur = Line{}
	}

	for _, seg := range segs {
		chunks := strings.Split(seg.Text, "\n")
		for ci, chunk := range chunks {
			if ci > 0 {
				push()
			}
			if chunk == "" {
				continue
			}
			for _, tok := range coalesceSingles(tokenize(chunk)) {
				norm, frags, w := m.Split(tok, seg, size)
				if norm == "" {
					continue
				}
				if len(cur.Parts) > 0 && cur.Width+w > maxWidth {
					push()
					if isBlankToken(norm) {
						continue
					}
				}
				if len(cur.Parts) == 0 && isBlankToken(norm) && len(lines) > 0 {
					// 换行后的行首空白不绘制。
					continue
				}
				cur.Parts = append(cur.Parts, LinePart{
					Seg:       seg,
					Text:      norm,
					Width:     w,
					Fragments: frags,
				})
				cur.Width += w
			}
		}
	}
	if len(cur.Parts) > 0 {
		push()
	}
	return lines
}
