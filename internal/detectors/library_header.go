package detectors

import (
	"fmt"
	"strings"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// LibraryHeaderDetector 库函数调用与头文件匹配检测器
// 调用了表内函数但任何一个可接受头文件都没被包含时上报
type LibraryHeaderDetector struct {
	*core.BaseDetector
}

// NewLibraryHeaderDetector 创建头文件检测器
func NewLibraryHeaderDetector() *LibraryHeaderDetector {
	return &LibraryHeaderDetector{
		BaseDetector: core.NewBaseDetector(
			"library_header",
			"Detects calls to standard library functions whose headers are not included",
		),
	}
}

// includedHeaders 收集文件包含的裸头文件名（尖括号与引号一视同仁）
func includedHeaders(unit *core.ParsedUnit) map[string]bool {
	headers := make(map[string]bool)
	for _, inc := range unit.Includes() {
		headers[inc.Header] = true
	}
	return headers
}

// Run 执行检测
func (d *LibraryHeaderDetector) Run(unit *core.ParsedUnit) ([]core.Issue, error) {
	var issues []core.Issue
	included := includedHeaders(unit)

	// 同一函数多次调用各自上报一次，按调用点定位
	for _, call := range unit.Calls() {
		accepted, ok := libcHeaders[call.Callee]
		if !ok {
			continue
		}

		satisfied := false
		for _, header := range accepted {
			if included[header] {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}

		issues = append(issues, d.IssueAtLine(unit, call.Line, core.CategoryHeader,
			fmt.Sprintf("call to '%s' requires #include <%s>",
				call.Callee, strings.Join(accepted, "> or <"))))
	}

	return issues, nil
}
