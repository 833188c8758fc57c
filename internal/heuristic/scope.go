package heuristic

import (
	"strings"
	"unicode"
)

// pointerClass 指针初始化的分类
type pointerClass int

const (
	pointerUnset pointerClass = iota
	pointerNullLike
	pointerAddressOf
	pointerHeap
)

// symbol 作用域内的一个符号
type symbol struct {
	name        string
	baseType    string
	isPointer   bool
	isArray     bool
	initialized bool
	ptrClass    pointerClass
	declLine    int
}

// scope 一个词法块的符号表
type scope struct {
	key     string
	symbols map[string]*symbol
}

// scopeStack 每遇到字面 { 压栈、} 出栈的作用域栈
// 全局表单独存放，作为查找兜底
type scopeStack struct {
	stack    []*scope
	globals  map[string]*symbol
	funcName string
	depth    int
}

func newScopeStack() *scopeStack {
	return &scopeStack{globals: make(map[string]*symbol)}
}

// push 进入新块；seed 非空时预置符号（函数参数）
func (s *scopeStack) push(key string, seed []*symbol) {
	sc := &scope{key: key, symbols: make(map[string]*symbol)}
	for _, sym := range seed {
		sc.symbols[sym.name] = sym
	}
	s.stack = append(s.stack, sc)
	s.depth++
}

// pop 离开当前块
func (s *scopeStack) pop() {
	if len(s.stack) == 0 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.depth--
	if len(s.stack) == 0 {
		s.funcName = ""
	}
}

// declare 在当前块（无块时为全局表）登记符号
func (s *scopeStack) declare(sym *symbol) {
	if len(s.stack) == 0 {
		s.globals[sym.name] = sym
		return
	}
	s.stack[len(s.stack)-1].symbols[sym.name] = sym
}

// lookup 由内向外查找，嵌套块遮蔽外层，全局表兜底
func (s *scopeStack) lookup(name string) *symbol {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if sym, ok := s.stack[i].symbols[name]; ok {
			return sym
		}
	}
	return s.globals[name]
}

// lineScanner 逐字符的行扫描状态机
// 字面量里的花括号不参与作用域计数；块注释状态跨行保持
type lineScanner struct {
	inBlockComment bool
}

// scan 处理一行，返回两个视图：
// structural 去掉注释且字面量内容抹空（引号保留），用于结构识别；
// code 只去掉注释，字面量原样保留，用于格式串检查
func (ls *lineScanner) scan(line string) (structural, code string) {
	runes := []rune(line)
	structOut := make([]rune, len(runes))
	codeOut := make([]rune, len(runes))
	copy(structOut, runes)
	copy(codeOut, runes)

	blank := func(i int, both bool) {
		structOut[i] = ' '
		if both {
			codeOut[i] = ' '
		}
	}

	inString, inChar, escaped := false, false, false
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ls.inBlockComment {
			if ch == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				ls.inBlockComment = false
				blank(i, true)
				blank(i+1, true)
				i++
				continue
			}
			blank(i, true)
			continue
		}

		if inString {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
				continue
			}
			blank(i, false)
			continue
		}
		if inChar {
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '\'' {
				inChar = false
				continue
			}
			blank(i, false)
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '\'':
			inChar = true
		case '/':
			if i+1 < len(runes) {
				switch runes[i+1] {
				case '/':
					// 行注释，行尾全部抹掉
					for j := i; j < len(runes); j++ {
						blank(j, true)
					}
					return string(structOut), string(codeOut)
				case '*':
					ls.inBlockComment = true
					blank(i, true)
					blank(i+1, true)
					i++
				}
			}
		}
	}
	return string(structOut), string(codeOut)
}

// braceDelta 统计行内（字面量外）花括号
func braceDelta(stripped string) (opens, closes int) {
	for _, ch := range stripped {
		switch ch {
		case '{':
			opens++
		case '}':
			closes++
		}
	}
	return opens, closes
}

// declKeywords 声明识别用的固定类型关键字集合
var declKeywords = map[string]bool{
	"int": true, "char": true, "float": true, "double": true,
	"long": true, "short": true, "unsigned": true, "signed": true,
}

// isIdentChar 标识符字符
func isIdentChar(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}

// identifierAt 从 pos 开始提取标识符，返回标识符与其后的下标
func identifierAt(s string, pos int) (string, int) {
	end := pos
	for end < len(s) && isIdentChar(s[end]) {
		end++
	}
	return s[pos:end], end
}

// skipSpaces 跳过空白
func skipSpaces(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

// assignmentAt 判断 pos 处是否为赋值运算符（排除比较）
// 返回运算符长度，0 表示不是赋值
func assignmentAt(s string, pos int) int {
	if pos >= len(s) {
		return 0
	}
	switch s[pos] {
	case '=':
		// == 是比较
		if pos+1 < len(s) && s[pos+1] == '=' {
			return 0
		}
		// <= >= != 的第二个字符
		if pos > 0 && (s[pos-1] == '<' || s[pos-1] == '>' || s[pos-1] == '!') {
			return 0
		}
		return 1
	case '+', '-', '*', '/', '%':
		if pos+1 < len(s) && s[pos+1] == '=' && (pos+2 >= len(s) || s[pos+2] != '=') {
			return 2
		}
	}
	return 0
}

// looksLikeSignature 是否为以 { 结尾的函数签名行
// 形如 ret name(args) {，用于给新作用域预置参数
func looksLikeSignature(stripped string) (name string, params string, ok bool) {
	trimmed := strings.TrimSpace(stripped)
	if !strings.HasSuffix(trimmed, "{") {
		return "", "", false
	}
	body := strings.TrimSpace(strings.TrimSuffix(trimmed, "{"))
	open := strings.Index(body, "(")
	closing := strings.LastIndex(body, ")")
	if open <= 0 || closing != len(body)-1 || closing < open {
		return "", "", false
	}

	head := strings.TrimSpace(body[:open])
	fields := strings.Fields(strings.ReplaceAll(head, "*", " "))
	if len(fields) < 2 {
		return "", "", false // 没有返回类型，更像 if/while/for
	}
	name = fields[len(fields)-1]
	if controlKeywords[name] || !isIdentStart(name) {
		return "", "", false
	}
	return name, body[open+1 : closing], true
}

// controlKeywords 控制流关键字，不是函数名
var controlKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "return": true, "sizeof": true,
}

func isIdentStart(s string) bool {
	if s == "" {
		return false
	}
	ch := rune(s[0])
	return ch == '_' || unicode.IsLetter(ch)
}

// parseParams 把参数列表解析为预初始化的符号
func parseParams(params string) []*symbol {
	params = strings.TrimSpace(params)
	if params == "" || params == "void" {
		return nil
	}

	var seed []*symbol
	for _, part := range strings.Split(params, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "..." {
			continue
		}
		isPtr := strings.Contains(part, "*")
		isArr := strings.Contains(part, "[")
		// 参数名是最后一个标识符
		clean := strings.NewReplacer("*", " ", "[", " ", "]", " ").Replace(part)
		fields := strings.Fields(clean)
		if len(fields) == 0 {
			continue
		}
		name := fields[len(fields)-1]
		if !isIdentStart(name) || declKeywords[name] {
			continue
		}
		seed = append(seed, &symbol{
			name:        name,
			baseType:    strings.Join(fields[:len(fields)-1], " "),
			isPointer:   isPtr,
			isArray:     isArr,
			initialized: true, // 参数视为已初始化
		})
	}
	return seed
}
