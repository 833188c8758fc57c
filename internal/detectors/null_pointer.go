package detectors

import (
	"fmt"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// NullPointerDetector 空指针解引用检测器
// 流不敏感：声明行把指针赋成 NULL/0 后，之后每次解引用都上报，
// 中间的重新赋值默认不予理会；strictFlow 打开后重新赋值会清除空指针状态
type NullPointerDetector struct {
	*core.BaseDetector
	strictFlow bool
}

// NewNullPointerDetector 创建空指针检测器
func NewNullPointerDetector(strictFlow bool) *NullPointerDetector {
	return &NullPointerDetector{
		BaseDetector: core.NewBaseDetector(
			"null_pointer",
			"Detects dereference of pointers initialized to NULL",
		),
		strictFlow: strictFlow,
	}
}

// isNullInit 初始化表达式是否为空值
func isNullInit(text string) bool {
	return text == "NULL" || text == "0" || text == "((void *)0)" || text == "(void *)0" || text == "nullptr"
}

// Run 执行检测
func (d *NullPointerDetector) Run(unit *core.ParsedUnit) ([]core.Issue, error) {
	var issues []core.Issue

	for _, decl := range unit.Declarations() {
		if !decl.IsPointer || !isNullInit(decl.InitText) {
			continue
		}

		derefs := afterDecl(unit.Dereferences(decl.Name), decl.Line)
		sortOccurrences(derefs)

		// strictFlow 下需要知道写出现的位置
		var writes []core.Occurrence
		if d.strictFlow {
			for _, occ := range afterDecl(unit.Usages(decl.Name), decl.Line) {
				if occ.Write {
					writes = append(writes, occ)
				}
			}
			sortOccurrences(writes)
		}

		for _, deref := range derefs {
			if d.strictFlow && reassignedBefore(writes, deref) {
				continue
			}
			issues = append(issues, d.IssueAtLine(unit, deref.Line, core.CategoryNullPointer,
				fmt.Sprintf("pointer '%s' is NULL here and dereferencing it is undefined behavior", decl.Name)))
		}
	}

	return issues, nil
}

// reassignedBefore 解引用之前是否存在对该名字的写
func reassignedBefore(writes []core.Occurrence, deref core.Occurrence) bool {
	for _, w := range writes {
		if w.Line < deref.Line || (w.Line == deref.Line && w.Col < deref.Col) {
			return true
		}
	}
	return false
}
