// Package textnorm 把视觉样式化的 Unicode 码点映射为 ASCII 安全的等价形式，
// 并把文本切分为用户感知的字素簇。PDF 内置字体只覆盖 Latin-1，
// 网页文章里常见的数学字母、智能引号与 emoji 都必须先经过这里处理。
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctMap 列出已知会让 PDF 写入器出问题的标点码点及其 ASCII 替换。
// NFKD 覆盖不到这些（它们不是兼容分解的产物）。
var punctMap = map[rune]string{
	'‐': "-",   // hyphen
	'‑': "-",   // non-breaking hyphen
	'‒': "-",   // figure dash
	'–': "-",   // en dash
	'—': "-",   // em dash
	'―': "-",   // horizontal bar
	'‘': "'",   // left single quote
	'’': "'",   // right single quote
	'‚': "'",   // single low quote
	'‛': "'",   // single reversed quote
	'“': `"`,   // left double quote
	'”': `"`,   // right double quote
	'„': `"`,   // double low quote
	'…': "...", // ellipsis
	'«': `"`,   // left guillemet
	'»': `"`,   // right guillemet
	'‹': "'",   // single left guillemet
	'›': "'",   // single right guillemet
	' ': " ",   // no-break space
	' ': " ",   // en space
	' ': " ",   // em space
	' ': " ",   // thin space
	'​': "",    // zero-width space
	'−': "-",   // minus sign
}

// mathRange 描述一段连续的数学字母数字区块到 ASCII 基准字符的偏移映射。
// 区块内部的保留空位（如 U+1D455）没有对应码点，不会出现在输入里。
type mathRange struct {
	lo, hi rune
	base   rune
}

var mathRanges = []mathRange{
	{0x1D400, 0x1D419, 'A'}, // bold
	{0x1D41A, 0x1D433, 'a'},
	{0x1D434, 0x1D44D, 'A'}, // italic
	{0x1D44E, 0x1D467, 'a'},
	{0x1D468, 0x1D481, 'A'}, // bold italic
	{0x1D482, 0x1D49B, 'a'},
	{0x1D49C, 0x1D4B5, 'A'}, // script
	{0x1D4B6, 0x1D4CF, 'a'},
	{0x1D4D0, 0x1D4E9, 'A'}, // bold script
	{0x1D4EA, 0x1D503, 'a'},
	{0x1D504, 0x1D51C, 'A'}, // fraktur
	{0x1D51E, 0x1D537, 'a'},
	{0x1D538, 0x1D550, 'A'}, // double-struck
	{0x1D552, 0x1D56B, 'a'},
	{0x1D5A0, 0x1D5B9, 'A'}, // sans-serif
	{0x1D5BA, 0x1D5D3, 'a'},
	{0x1D5D4, 0x1D5ED, 'A'}, // sans-serif bold
	{0x1D5EE, 0x1D607, 'a'},
	{0x1D608, 0x1D621, 'A'}, // sans-serif italic
	{0x1D622, 0x1D63B, 'a'},
	{0x1D670, 0x1D689, 'A'}, // monospace
	{0x1D68A, 0x1D6A3, 'a'},
	{0x1D7CE, 0x1D7D7, '0'}, // bold digits
	{0x1D7D8, 0x1D7E1, '0'},
	{0x1D7E2, 0x1D7EB, '0'},
	{0x1D7EC, 0x1D7F5, '0'},
	{0x1D7F6, 0x1D7FF, '0'},
}

func mathToASCII(r rune) (rune, bool) {
	if r < 0x1D400 || r > 0x1D7FF {
		return 0, false
	}
	for _, m := range mathRanges {
		if r >= m.lo && r <= m.hi {
			return m.base + (r - m.lo), true
		}
	}
	return 0, false
}

// strippableMark 判定可以丢弃的非间距附加记号。
// 变体选择符（U+FE00–FE0F）必须保留，否则后续的 emoji 识别会失效。
func strippableMark(r rune) bool {
	if r >= 0xFE00 && r <= 0xFE0F {
		return false
	}
	return unicode.Is(unicode.Mn, r)
}

// applyTables 对每个码点查显式映射表，未命中的原样保留。
func applyTables(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := punctMap[r]; ok {
			b.WriteString(rep)
			continue
		}
		if mapped, ok := mathToASCII(r); ok {
			b.WriteRune(mapped)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize 把样式化码点还原为 ASCII 安全形式：先查显式映射表，
// 再做兼容分解并剥离组合记号，最后对分解结果再过一遍映射表——
// 兼容分解本身会产出表内码点（如 U+FE58 分解为 em dash），
// 只查一遍会漏掉它们。未识别的码点原样保留。
// 幂等：Normalize(Normalize(x)) == Normalize(x)。纯函数，无副作用。
func Normalize(s string) string {
	if s == "" {
		return s
	}
	mapped := applyTables(s)
	chain := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(strippableMark)), norm.NFC)
	out, _, err := transform.String(chain, mapped)
	if err != nil {
		// 变换失败时退回映射表阶段的结果，保证函数对任意输入总是返回
		return mapped
	}
	return applyTables(out)
}
