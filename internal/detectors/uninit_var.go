package detectors

import (
	"fmt"
	"sort"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// UninitVarDetector 未初始化变量 / 野指针检测器
// 默认刻意保持顺序不敏感：逐出现点扫描时不回查已写入标志，
// 写之后的读仍会上报（保守过近似）；strictFlow 打开后按流敏感变体执行
type UninitVarDetector struct {
	*core.BaseDetector
	strictFlow bool
}

// NewUninitVarDetector 创建未初始化变量检测器
func NewUninitVarDetector(strictFlow bool) *UninitVarDetector {
	return &UninitVarDetector{
		BaseDetector: core.NewBaseDetector(
			"uninit_var",
			"Detects use of uninitialized variables and dereference of uninitialized (wild) pointers",
		),
		strictFlow: strictFlow,
	}
}

// sortOccurrences 按源码顺序排序
func sortOccurrences(occs []core.Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if occs[i].Line != occs[j].Line {
			return occs[i].Line < occs[j].Line
		}
		return occs[i].Col < occs[j].Col
	})
}

// afterDecl 只保留声明行之后的出现点
// 声明行之前（含声明行本身）的出现永不参与判定
func afterDecl(occs []core.Occurrence, declLine int) []core.Occurrence {
	kept := occs[:0:0]
	for _, occ := range occs {
		if occ.Line > declLine {
			kept = append(kept, occ)
		}
	}
	return kept
}

// Run 执行检测
func (d *UninitVarDetector) Run(unit *core.ParsedUnit) ([]core.Issue, error) {
	var issues []core.Issue

	for _, decl := range unit.Declarations() {
		if decl.IsInitialized || decl.IsParameter {
			continue
		}

		usages := afterDecl(unit.Usages(decl.Name), decl.Line)
		sortOccurrences(usages)

		// 第一遍：按源码顺序扫描使用点
		// 写出现置位标志且不上报；非写出现一律上报
		initialized := false
		for _, occ := range usages {
			if occ.Write {
				initialized = true
				continue
			}
			if d.strictFlow && initialized {
				continue
			}
			issues = append(issues, d.IssueAtLine(unit, occ.Line, core.CategoryUninitialized,
				fmt.Sprintf("variable '%s' may be used before initialization", decl.Name)))
		}

		// 第二遍：指针且扫描结束后仍未初始化，则所有解引用都是野指针
		// 只看扫描结束时的标志值，不考虑写与解引用的相对顺序
		if decl.IsPointer && !initialized {
			derefs := afterDecl(unit.Dereferences(decl.Name), decl.Line)
			sortOccurrences(derefs)
			for _, occ := range derefs {
				issues = append(issues, d.IssueAtLine(unit, occ.Line, core.CategoryWildPointer,
					fmt.Sprintf("pointer '%s' is dereferenced but never initialized (wild pointer)", decl.Name)))
			}
		}
	}

	return issues, nil
}
