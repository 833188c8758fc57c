package report

import (
	"fmt"
	"io"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// TextWriter 文本格式报告写入器
// 每个问题两行：`路径:行号: [类别] 消息`，下一行缩进给出源码行
type TextWriter struct {
	writer    io.Writer
	showStats bool
}

// TextOption 文本选项
type TextOption func(*TextWriter)

// WithStats 追加统计信息
func WithStats() TextOption {
	return func(w *TextWriter) {
		w.showStats = true
	}
}

// NewTextWriter 创建文本写入器
func NewTextWriter(writer io.Writer, options ...TextOption) *TextWriter {
	w := &TextWriter{writer: writer}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// capabilityBanner 固定的能力横幅，列出支持的检查
var capabilityBanner = []string{
	"Supported checks:",
	"  Uninitialized   use of a variable before initialization",
	"  NullPointer     dereference of a pointer initialized to NULL",
	"  WildPointer     dereference of a pointer that is never initialized",
	"  Header          standard library call without the required #include",
	"  HeaderSpelling  misspelled system header name",
	"  InfiniteLoop    for(;;) / while(1) without break, return or exit",
	"  Format          printf/scanf format string and argument mismatch",
}

// Write 生成并写入文本报告
func (w *TextWriter) Write(result *ScanResult) error {
	if len(result.Issues) == 0 {
		fmt.Fprintf(w.writer, "No problems detected in %s.\n", result.Root)
	} else {
		for _, issue := range result.Issues {
			fmt.Fprintf(w.writer, "%s:%d: [%s] %s\n", issue.File, issue.Line, issue.Category, issue.Message)
			if issue.Code != "" {
				fmt.Fprintf(w.writer, "    %s\n", issue.Code)
			}
		}
	}

	fmt.Fprintln(w.writer)
	for _, line := range capabilityBanner {
		fmt.Fprintln(w.writer, line)
	}

	if w.showStats {
		w.writeStatistics(result)
	}
	return nil
}

// writeStatistics 追加统计信息
func (w *TextWriter) writeStatistics(result *ScanResult) {
	byCategory := make(map[core.Category]int)
	for _, issue := range result.Issues {
		byCategory[issue.Category]++
	}

	fmt.Fprintf(w.writer, "\nSummary:\n")
	fmt.Fprintf(w.writer, "  Mode: %s\n", result.Mode)
	fmt.Fprintf(w.writer, "  Files scanned: %d\n", result.FilesScanned)
	fmt.Fprintf(w.writer, "  Issues found: %d\n", len(result.Issues))
	for _, cat := range core.Categories {
		if byCategory[cat] > 0 {
			fmt.Fprintf(w.writer, "    %s: %d\n", cat, byCategory[cat])
		}
	}
	fmt.Fprintf(w.writer, "  Duration: %s\n", result.Duration)
}
