package core

// StandardHeaders 标准头文件白名单
// 拼写建议的编辑距离候选按此枚举顺序断破平局
var StandardHeaders = []string{
	"stdio.h", "stdlib.h", "string.h", "math.h", "ctype.h", "time.h",
	"assert.h", "stdarg.h", "setjmp.h", "signal.h", "locale.h",
	"limits.h", "float.h", "errno.h", "stddef.h", "stdbool.h",
	"stdint.h", "inttypes.h", "wchar.h", "wctype.h", "iso646.h",
	"complex.h", "tgmath.h", "fenv.h",
}

// SuggestHeader 对白名单外的头文件名给出最近的标准头建议
// 距离取最小值且 ≤2 才接受；并列时按白名单枚举顺序取第一个
func SuggestHeader(header string) (string, bool) {
	for _, std := range StandardHeaders {
		if header == std {
			return "", false // 已是标准头
		}
	}

	best := ""
	bestDist := -1
	for _, std := range StandardHeaders {
		dist := Levenshtein(header, std)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = std, dist
		}
	}
	if bestDist >= 0 && bestDist <= 2 {
		return best, true
	}
	return "", false
}

// Levenshtein 经典两行 DP 编辑距离
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
