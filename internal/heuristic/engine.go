package heuristic

import (
	"fmt"
	"strings"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// Config 启发式引擎配置
type Config struct {
	// StrictFlow 打开流敏感变体：指针重新赋值会清除空指针状态
	StrictFlow bool
}

// Engine 基于作用域栈的文本启发式引擎
// 结构化解析器不可用时完整重现 AST 路径的缺陷类别，
// 另加死循环与格式串检查
type Engine struct {
	cfg Config
}

// NewEngine 创建启发式引擎
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// familyCheck 启发式层的头文件检查函数族
type familyCheck struct {
	fn      string
	headers []string
}

// familyChecks 检查顺序固定
var familyChecks = []familyCheck{
	{"malloc", []string{"stdlib.h"}},
	{"calloc", []string{"stdlib.h"}},
	{"realloc", []string{"stdlib.h"}},
	{"free", []string{"stdlib.h"}},
	{"printf", []string{"stdio.h"}},
	{"fprintf", []string{"stdio.h"}},
	{"sprintf", []string{"stdio.h"}},
	{"snprintf", []string{"stdio.h"}},
	{"scanf", []string{"stdio.h"}},
	{"fscanf", []string{"stdio.h"}},
	{"sscanf", []string{"stdio.h"}},
	{"sqrt", []string{"math.h", "tgmath.h"}},
	{"pow", []string{"math.h", "tgmath.h"}},
	{"sin", []string{"math.h", "tgmath.h"}},
	{"cos", []string{"math.h", "tgmath.h"}},
	{"tan", []string{"math.h", "tgmath.h"}},
	{"fabs", []string{"math.h", "tgmath.h"}},
	{"floor", []string{"math.h", "tgmath.h"}},
	{"ceil", []string{"math.h", "tgmath.h"}},
	{"exp", []string{"math.h", "tgmath.h"}},
	{"log", []string{"math.h", "tgmath.h"}},
}

// parseInclude 解析 include 行，返回裸头文件名
func parseInclude(raw string) (header string, system, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
	if !strings.HasPrefix(rest, "include") {
		return "", false, false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "include"))

	if strings.HasPrefix(rest, "<") {
		if end := strings.Index(rest, ">"); end > 1 {
			return strings.TrimSpace(rest[1:end]), true, true
		}
	}
	if strings.HasPrefix(rest, "\"") {
		if end := strings.Index(rest[1:], "\""); end >= 0 {
			return strings.TrimSpace(rest[1 : 1+end]), false, true
		}
	}
	return "", false, false
}

// collectIncludes 预扫描文件的全部 include
func collectIncludes(lines []string) map[string]bool {
	includes := make(map[string]bool)
	for _, raw := range lines {
		if header, _, ok := parseInclude(raw); ok {
			includes[header] = true
		}
	}
	return includes
}

// isStructOpen 该行是否打开了 struct/typedef struct 的定义体
func isStructOpen(trimmed string) bool {
	if strings.Contains(trimmed, "=") {
		return false // struct 变量初始化不是定义体
	}
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return false
	}
	if fields[0] == "struct" || (fields[0] == "typedef" && len(fields) > 1 && fields[1] == "struct") {
		return strings.Contains(trimmed, "{")
	}
	return false
}

// ScanUnit 对单个源文件执行完整的作用域栈扫描
func (e *Engine) ScanUnit(unit *core.SourceUnit) []core.Issue {
	var issues []core.Issue

	ls := &lineScanner{}
	scopes := newScopeStack()
	includes := collectIncludes(unit.Lines)
	structDepth := 0

	for i, raw := range unit.Lines {
		lineNo := i + 1
		structural, code := ls.scan(raw)
		trimmed := strings.TrimSpace(structural)

		// include 行：尖括号头做拼写检查，其余指令跳过
		if header, system, ok := parseInclude(raw); ok {
			if system {
				if suggestion, found := core.SuggestHeader(header); found {
					issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryHeaderSpelling,
						fmt.Sprintf("unknown system header <%s>, did you mean <%s>?", header, suggestion)))
				}
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		opens, closes := braceDelta(structural)

		// struct 体内只维护嵌套计数，成员永不进入检查
		if structDepth > 0 {
			structDepth += opens - closes
			if structDepth < 0 {
				structDepth = 0
			}
			continue
		}
		if isStructOpen(trimmed) && opens > closes {
			structDepth = opens - closes
			continue
		}

		// 行首闭括号先出栈，让 } else { 之类的行换对作用域
		for strings.HasPrefix(trimmed, "}") && closes > 0 {
			scopes.pop()
			closes--
			trimmed = strings.TrimSpace(trimmed[1:])
		}

		// 函数签名行：压入预置了参数的新作用域
		consumedOpen := false
		if name, params, ok := looksLikeSignature(structural); ok && scopes.depth == 0 {
			scopes.funcName = name
			scopes.push(fmt.Sprintf("%s#%d", name, scopes.depth+1), parseParams(params))
			consumedOpen = true
		}

		// 声明行：登记符号
		declared := make(map[string]bool)
		for _, sym := range parseDeclaration(trimmed, lineNo) {
			scopes.declare(sym)
			declared[sym.name] = true
		}

		// 死循环
		if checkInfiniteLoop(structural) {
			issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryInfiniteLoop,
				"suspicious infinite loop without break, return or exit"))
		}

		// 格式串检查（在保留字面量的视图上）
		for _, msg := range checkFormatCall(code, scopes.lookup) {
			issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryFormat, msg))
		}

		// 库函数头文件检查
		for _, fc := range familyChecks {
			if indexOfCall(structural, fc.fn, 0) < 0 {
				continue
			}
			satisfied := false
			for _, h := range fc.headers {
				if includes[h] {
					satisfied = true
					break
				}
			}
			if !satisfied {
				issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryHeader,
					fmt.Sprintf("call to '%s' requires #include <%s>",
						fc.fn, strings.Join(fc.headers, "> or <"))))
			}
		}

		// 使用点扫描
		issues = append(issues, e.scanUsages(unit, structural, lineNo, scopes, declared)...)

		// 花括号推进作用域栈
		for k := 0; k < opens; k++ {
			if consumedOpen {
				consumedOpen = false
				continue
			}
			scopes.push(fmt.Sprintf("%s#%d", scopes.funcName, scopes.depth+1), nil)
		}
		for k := 0; k < closes; k++ {
			scopes.pop()
		}
	}

	return issues
}

// parseDeclaration 识别声明行并解析声明符
// 含 ( 的行（原型、调用、for 头）不算声明
func parseDeclaration(trimmed string, lineNo int) []*symbol {
	if trimmed == "" || strings.Contains(trimmed, "(") ||
		strings.HasPrefix(trimmed, "return") || !strings.HasSuffix(trimmed, ";") {
		return nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) == 0 || !declKeywords[fields[0]] {
		return nil
	}

	// 吃掉前导类型关键字（unsigned long long int ...）
	idx := 0
	for idx < len(fields) && declKeywords[fields[idx]] {
		idx++
	}
	if idx == len(fields) {
		return nil
	}
	baseType := strings.Join(fields[:idx], " ")
	rest := strings.TrimSuffix(strings.Join(fields[idx:], " "), ";")

	var syms []*symbol
	for _, piece := range splitArgs(rest) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		declPart, initPart := piece, ""
		if eq := strings.Index(piece, "="); eq >= 0 {
			declPart = strings.TrimSpace(piece[:eq])
			initPart = strings.TrimSpace(piece[eq+1:])
		}

		isPtr := strings.Contains(declPart, "*")
		isArr := strings.Contains(declPart, "[")
		nameClean := strings.NewReplacer("*", " ", "[", " ", "]", " ").Replace(declPart)
		nameFields := strings.Fields(nameClean)
		if len(nameFields) == 0 {
			continue
		}
		name := nameFields[0]
		if !isIdentStart(name) || declKeywords[name] || controlKeywords[name] {
			continue
		}

		sym := &symbol{
			name:        name,
			baseType:    baseType,
			isPointer:   isPtr,
			isArray:     isArr,
			initialized: initPart != "",
			declLine:    lineNo,
		}
		if isPtr && initPart != "" {
			sym.ptrClass = classifyPointerInit(initPart)
		}
		syms = append(syms, sym)
	}
	return syms
}

// classifyPointerInit 指针初始化分类：空值 / 取址 / 堆分配
func classifyPointerInit(init string) pointerClass {
	switch {
	case init == "NULL" || init == "0" || init == "nullptr":
		return pointerNullLike
	case strings.HasPrefix(init, "&"):
		return pointerAddressOf
	case strings.Contains(init, "malloc") || strings.Contains(init, "calloc") ||
		strings.Contains(init, "realloc"):
		return pointerHeap
	default:
		return pointerUnset
	}
}

// scanUsages 在一行里扫描已知符号的读、写与解引用
func (e *Engine) scanUsages(unit *core.SourceUnit, structural string, lineNo int,
	scopes *scopeStack, declared map[string]bool) []core.Issue {

	var issues []core.Issue

	for pos := 0; pos < len(structural); {
		ch := structural[pos]
		if !isIdentChar(ch) || (ch >= '0' && ch <= '9') {
			pos++
			continue
		}
		name, end := identifierAt(structural, pos)
		start := pos
		pos = end
		if name == "" || declKeywords[name] || controlKeywords[name] {
			continue
		}

		sym := scopes.lookup(name)
		if sym == nil || declared[name] || sym.declLine == lineNo {
			continue
		}

		// 出现点的前后文
		prev := prevNonSpace(structural, start)
		next := skipSpaces(structural, end)

		// &name 视为写（典型的出参取址）
		if prev == '&' {
			sym.initialized = true
			continue
		}

		// 解引用：*name、name-> 或 name[
		deref := false
		if prev == '*' && isUnaryStar(structural, start) {
			deref = true
		} else if next+1 < len(structural) && structural[next] == '-' && structural[next+1] == '>' {
			deref = true
		} else if next < len(structural) && structural[next] == '[' && !sym.isArray {
			deref = true
		}

		if deref && sym.isPointer {
			switch {
			case sym.ptrClass == pointerNullLike:
				issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryNullPointer,
					fmt.Sprintf("pointer '%s' is NULL here and dereferencing it is undefined behavior", name)))
			case !sym.initialized:
				issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryWildPointer,
					fmt.Sprintf("pointer '%s' is dereferenced but never initialized (wild pointer)", name)))
			}
			continue
		}

		// 写：紧跟赋值运算符
		if opLen := assignmentAt(structural, next); opLen > 0 {
			sym.initialized = true
			if sym.isPointer {
				rhs := strings.TrimSpace(structural[next+opLen:])
				rhs = strings.TrimSuffix(rhs, ";")
				cls := classifyPointerInit(rhs)
				if e.cfg.StrictFlow {
					// 流敏感：重新赋值更新空指针状态
					sym.ptrClass = cls
				} else if cls == pointerNullLike {
					// 默认流不敏感：只允许变得更危险，不会洗白
					sym.ptrClass = pointerNullLike
				}
			}
			continue
		}

		// 读：未初始化则上报
		if !sym.initialized {
			issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryUninitialized,
				fmt.Sprintf("variable '%s' may be used before initialization", name)))
		}
	}

	return issues
}

// prevNonSpace 向前找最近的非空白字符，没有返回 0
func prevNonSpace(s string, pos int) byte {
	for i := pos - 1; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

// isUnaryStar 判断 start 前的 * 是一元解引用而不是乘法
func isUnaryStar(s string, start int) bool {
	i := start - 1
	for i >= 0 && (s[i] == ' ' || s[i] == '\t') {
		i--
	}
	if i < 0 || s[i] != '*' {
		return false
	}
	// * 前面还是标识符或右括号则是乘法
	j := i - 1
	for j >= 0 && (s[j] == ' ' || s[j] == '\t') {
		j--
	}
	if j < 0 {
		return true
	}
	return !isIdentChar(s[j]) && s[j] != ')' && s[j] != ']'
}
