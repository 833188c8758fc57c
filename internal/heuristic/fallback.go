package heuristic

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// simpleDeclTypes 最小回退层识别的类型关键字
var simpleDeclTypes = map[string]bool{
	"int": true, "char": true, "float": true, "double": true,
	"long": true, "short": true,
}

// MinimalScanUnit 单文件最小回退：解析器构造失败但目录可读时使用
// 只做裸声明匹配和 malloc/printf 的头文件子串检查，精度最低的一档
func MinimalScanUnit(unit *core.SourceUnit) []core.Issue {
	var issues []core.Issue

	hasStdlib := strings.Contains(unit.Text, "stdlib.h")
	hasStdio := strings.Contains(unit.Text, "stdio.h")

	for i, raw := range unit.Lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		if name, ok := simpleDeclName(trimmed); ok {
			issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryUninitialized,
				fmt.Sprintf("variable '%s' may be used before initialization", name)))
		}

		if strings.Contains(raw, "malloc(") && !hasStdlib {
			issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryHeader,
				"call to 'malloc' requires #include <stdlib.h>"))
		}
		if strings.Contains(raw, "printf(") && !hasStdio {
			issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryHeader,
				"call to 'printf' requires #include <stdio.h>"))
		}
	}

	return issues
}

// simpleDeclName 匹配 `type name;` 形式且没有 = 的裸声明
func simpleDeclName(trimmed string) (string, bool) {
	if !strings.HasSuffix(trimmed, ";") ||
		strings.Contains(trimmed, "=") || strings.Contains(trimmed, "(") {
		return "", false
	}
	fields := strings.Fields(strings.TrimSuffix(trimmed, ";"))
	if len(fields) != 2 || !simpleDeclTypes[fields[0]] {
		return "", false
	}
	name := strings.Trim(fields[1], "*[]0123456789")
	if !isIdentStart(name) {
		return "", false
	}
	return name, true
}

// ScanDirectory 整目录回退：目录枚举/读取本身失败后的最后一档
// 重新读取每个 .c 文件并做比最小回退更丰富的文本扫描
func ScanDirectory(dir string) ([]core.Issue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &core.DirectoryError{Path: dir, Err: err}
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".c") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	var issues []core.Issue
	for _, path := range files {
		unit, err := core.LoadSourceUnit(path)
		if err != nil {
			log.Printf("warning: skipping unreadable file %s: %v", path, err)
			continue
		}
		issues = append(issues, scanFileRich(unit)...)
	}
	return issues, nil
}

// scanFileRich 整目录回退的单文件扫描
func scanFileRich(unit *core.SourceUnit) []core.Issue {
	var issues []core.Issue

	includes := collectIncludes(unit.Lines)
	structDepth := 0
	ls := &lineScanner{}

	for i, raw := range unit.Lines {
		lineNo := i + 1
		structural, _ := ls.scan(raw)
		trimmed := strings.TrimSpace(structural)
		opens, closes := braceDelta(structural)

		// struct 体嵌套计数，成员不算未初始化候选
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

		// 声明样行：含 = ( return 的不算
		if name, ok := declCandidate(trimmed); ok {
			switch classifyScope(unit.Lines, i) {
			case scopeFunction:
				issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryUninitialized,
					fmt.Sprintf("local variable '%s' may be used before initialization", name)))
			case scopeGlobal:
				issues = append(issues, core.NewIssue(unit, lineNo, core.CategoryUninitialized,
					fmt.Sprintf("global variable '%s' is declared without an initializer", name)))
			}
		}

		// 头文件检查：malloc/free/printf 族/scanf 族/math 族
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
	}

	return issues
}

// declCandidate 声明样行识别：固定关键字集合开头，
// 不含 =、( 或 return，以分号结束
func declCandidate(trimmed string) (string, bool) {
	if trimmed == "" || strings.Contains(trimmed, "=") ||
		strings.Contains(trimmed, "(") || strings.Contains(trimmed, "return") ||
		!strings.HasSuffix(trimmed, ";") {
		return "", false
	}
	fields := strings.Fields(strings.TrimSuffix(trimmed, ";"))
	if len(fields) < 2 || !declKeywords[fields[0]] {
		return "", false
	}
	name := strings.Trim(fields[len(fields)-1], "*[]0123456789")
	if !isIdentStart(name) || declKeywords[name] {
		return "", false
	}
	return name, true
}

// scopeKind 候选声明所在位置的分类结果
type scopeKind int

const (
	scopeUnknown scopeKind = iota
	scopeFunction
	scopeGlobal
)

// classifyScope 向上扫描判定候选声明在函数内还是全局
// 函数内：向上找到以 { 结尾的函数签名，遇到原型、指令或空行则截断；
// 全局：向上越过 include/空行/其他声明，一路到文件头或先撞上非声明构造
func classifyScope(lines []string, idx int) scopeKind {
	for j := idx - 1; j >= 0; j-- {
		t := strings.TrimSpace(lines[j])
		if t == "" || strings.HasPrefix(t, "#") {
			break
		}
		// 原型：有参数列表但以分号结束
		if strings.Contains(t, "(") && strings.HasSuffix(t, ";") {
			break
		}
		if strings.HasSuffix(t, "{") && strings.Contains(t, "(") {
			return scopeFunction
		}
	}

	for j := idx - 1; j >= 0; j-- {
		t := strings.TrimSpace(lines[j])
		if t == "" || strings.HasPrefix(t, "#") || strings.HasSuffix(t, ";") {
			continue
		}
		return scopeUnknown // 撞上非声明构造
	}
	return scopeGlobal
}
