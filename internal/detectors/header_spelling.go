package detectors

import (
	"fmt"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// HeaderSpellingDetector 系统头文件拼写检测器
// 只看尖括号 include；白名单之外的名字按编辑距离给出建议
type HeaderSpellingDetector struct {
	*core.BaseDetector
}

// NewHeaderSpellingDetector 创建拼写检测器
func NewHeaderSpellingDetector() *HeaderSpellingDetector {
	return &HeaderSpellingDetector{
		BaseDetector: core.NewBaseDetector(
			"header_spelling",
			"Detects misspelled system header names in #include directives",
		),
	}
}

// Run 执行检测
func (d *HeaderSpellingDetector) Run(unit *core.ParsedUnit) ([]core.Issue, error) {
	var issues []core.Issue

	for _, inc := range unit.Includes() {
		if !inc.System {
			continue
		}
		suggestion, ok := core.SuggestHeader(inc.Header)
		if !ok {
			continue
		}
		issues = append(issues, d.IssueAtLine(unit, inc.Line, core.CategoryHeaderSpelling,
			fmt.Sprintf("unknown system header <%s>, did you mean <%s>?", inc.Header, suggestion)))
	}

	return issues, nil
}
