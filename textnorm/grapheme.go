package textnorm

import "unicode"

const (
	runeZWJ    = '‍' // zero-width joiner
	runeVS16   = '️' // variation selector-16（要求 emoji 呈现）
	runeKeycap = '⃣' // combining enclosing keycap
)

// pictographic 近似 Extended_Pictographic 类别的码点区间。
// 没有引入完整的 UCD 表，这份区间覆盖实际文章中出现的 emoji。
var pictographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x231A, Hi: 0x231B, Stride: 1},
		{Lo: 0x23E9, Hi: 0x23FA, Stride: 1},
		{Lo: 0x25AA, Hi: 0x25AB, Stride: 1},
		{Lo: 0x25FB, Hi: 0x25FE, Stride: 1},
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2B05, Hi: 0x2B07, Stride: 1},
		{Lo: 0x2B1B, Hi: 0x2B1C, Stride: 1},
		{Lo: 0x2B50, Hi: 0x2B50, Stride: 1},
		{Lo: 0x2B55, Hi: 0x2B55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303D, Hi: 0x303D, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1F0FF, Stride: 1},
		{Lo: 0x1F170, Hi: 0x1F251, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1},
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
		{Lo: 0x1F700, Hi: 0x1F77F, Stride: 1},
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1},
		{Lo: 0x1FA00, Hi: 0x1FAFF, Stride: 1},
	},
}

func isPictographic(r rune) bool { return unicode.Is(pictographic, r) }

func isRegionalIndicator(r rune) bool { return r >= 0x1F1E6 && r <= 0x1F1FF }

func isSkinTone(r rune) bool { return r >= 0x1F3FB && r <= 0x1F3FF }

func isVariationSelector(r rune) bool { return r >= 0xFE00 && r <= 0xFE0F }

// Graphemes 把文本切分为用户感知的字符。ZWJ 序列、变体选择符后缀、
// 肤色修饰符、键帽与成对的区域指示符都归入同一个簇；
// 其余情形逐码点切分（规则缺失时的降级行为，绝不报错）。
func Graphemes(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	out := make([]string, 0, len(runes))
	for i := 0; i < len(runes); {
		j := i + 1
		riCount := 1
		if !isRegionalIndicator(runes[i]) {
			riCount = 0
		}
		for j < len(runes) {
			r := runes[j]
			prev := runes[j-1]
			switch {
			case r == runeZWJ, isVariationSelector(r), r == runeKeycap, isSkinTone(r):
				// 附属码点：总是延续当前簇
			case unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc):
				// 组合记号
			case prev == runeZWJ && isPictographic(r):
				// ZWJ 之后的图形字符是序列的一部分
			case riCount == 1 && isRegionalIndicator(r):
				// 区域指示符两两成对（旗帜）
				riCount = 2
			default:
				goto done
			}
			j++
		}
	done:
		out = append(out, string(runes[i:j]))
		i = j
	}
	return out
}

// IsEmojiGrapheme 判断一个字素簇是否应按 emoji 位图渲染：
// 含 ZWJ、VS16，或任一码点落在图形区间内。
func IsEmojiGrapheme(g string) bool {
	for _, r := range g {
		if r == runeZWJ || r == runeVS16 || isPictographic(r) {
			return true
		}
	}
	return false
}
