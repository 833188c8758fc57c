package heuristic

import (
	"fmt"
	"strings"
)

// formatFuncs 按格式串输出/输入的函数及格式串参数位置（0 基）
var formatFuncs = map[string]int{
	"printf": 0, "fprintf": 1, "sprintf": 1, "snprintf": 2,
	"scanf": 0, "fscanf": 1, "sscanf": 1,
}

// formatFuncOrder 检查顺序固定，保证两次运行输出一致
var formatFuncOrder = []string{
	"printf", "fprintf", "sprintf", "snprintf", "scanf", "fscanf", "sscanf",
}

// scanfFuncs 输入族，参数需要取址
var scanfFuncs = map[string]bool{
	"scanf": true, "fscanf": true, "sscanf": true,
}

// callArguments 提取 name( 之后的实参文本，括号配对、引号感知
// 找不到配对右括号（跨行调用）时返回 false
func callArguments(line string, openParen int) (string, bool) {
	depth := 0
	inString, inChar, escaped := false, false, false
	for i := openParen; i < len(line); i++ {
		ch := line[i]
		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if inChar {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '\'' {
				inChar = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '\'':
			inChar = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return line[openParen+1 : i], true
			}
		}
	}
	return "", false
}

// splitArgs 顶层逗号分割，引号与括号嵌套感知
func splitArgs(args string) []string {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil
	}

	var (
		parts   []string
		start   int
		depth   int
		inStr   bool
		inChr   bool
		escaped bool
	)
	for i := 0; i < len(args); i++ {
		ch := args[i]
		if inStr {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inStr = false
			}
			continue
		}
		if inChr {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '\'' {
				inChr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case '\'':
			inChr = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(args[start:]))
	return parts
}

// countSpecifiers 统计格式串里的转换说明符，%% 算字面量
func countSpecifiers(format string) int {
	count := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			i++ // %% 跳过
			continue
		}
		count++
	}
	return count
}

// quotedLiteral 参数是否为字符串字面量，是则返回去引号内容
func quotedLiteral(arg string) (string, bool) {
	if len(arg) >= 2 && arg[0] == '"' && arg[len(arg)-1] == '"' {
		return arg[1 : len(arg)-1], true
	}
	return "", false
}

// checkFormatCall 对一行里的格式化调用做参数数量与取址惯例检查
// lookup 用于判断 scanf 目标是否为字符数组（可为 nil）
func checkFormatCall(line string, lookup func(string) *symbol) []string {
	var problems []string

	for _, callee := range formatFuncOrder {
		fmtIdx := formatFuncs[callee]
		pos := 0
		for {
			idx := indexOfCall(line, callee, pos)
			if idx < 0 {
				break
			}
			openParen := idx + len(callee)
			pos = openParen

			args, ok := callArguments(line, strings.Index(line[openParen:], "(")+openParen)
			if !ok {
				continue
			}
			parts := splitArgs(args)
			if len(parts) <= fmtIdx {
				continue
			}
			format, isLiteral := quotedLiteral(parts[fmtIdx])
			if !isLiteral {
				continue // 非字面量格式串不做计数
			}

			specifiers := countSpecifiers(format)
			supplied := len(parts) - fmtIdx - 1

			if supplied < specifiers {
				problems = append(problems, fmt.Sprintf(
					"'%s' format string expects %d argument(s) but %d supplied (too few arguments)",
					callee, specifiers, supplied))
			} else if supplied > specifiers {
				problems = append(problems, fmt.Sprintf(
					"'%s' format string expects %d argument(s) but %d supplied (too many arguments)",
					callee, specifiers, supplied))
			}

			// scanf 惯例：目标参数应取地址，字符数组除外
			if scanfFuncs[callee] {
				for _, arg := range parts[fmtIdx+1:] {
					if arg == "" || strings.HasPrefix(arg, "&") {
						continue
					}
					if lookup != nil {
						if sym := lookup(arg); sym != nil && sym.isArray &&
							strings.Contains(sym.baseType, "char") {
							continue
						}
					}
					problems = append(problems, fmt.Sprintf(
						"'%s' argument '%s' should be an address (use &%s)", callee, arg, arg))
				}
			}
		}
	}

	return problems
}

// indexOfCall 在 pos 之后找 callee( 形式的调用，要求词边界
func indexOfCall(line, callee string, pos int) int {
	for {
		idx := strings.Index(line[pos:], callee)
		if idx < 0 {
			return -1
		}
		idx += pos
		before := idx == 0 || !isIdentChar(line[idx-1])
		afterIdx := skipSpaces(line, idx+len(callee))
		after := afterIdx < len(line) && line[afterIdx] == '('
		if before && after {
			return idx
		}
		pos = idx + len(callee)
		if pos >= len(line) {
			return -1
		}
	}
}

// checkInfiniteLoop 判断一行是否为可疑死循环
// for(;;) 或 while(1)/while(true)，且同一行没有 break/return/exit(
func checkInfiniteLoop(stripped string) bool {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, stripped)

	infinite := strings.Contains(compact, "for(;;)") ||
		strings.Contains(compact, "while(1)") ||
		strings.Contains(compact, "while(true)")
	if !infinite {
		return false
	}
	return !strings.Contains(compact, "break") &&
		!strings.Contains(compact, "return") &&
		!strings.Contains(compact, "exit(")
}
