package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// ToolInfo 工具信息
type ToolInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Summary 问题统计摘要
type Summary struct {
	Total        int            `json:"total"`
	ByCategory   map[string]int `json:"by_category"`
	BySeverity   map[string]int `json:"by_severity"`
	FilesScanned int            `json:"files_scanned"`
}

// JSONReport JSON 格式报告
type JSONReport struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Tool        ToolInfo     `json:"tool"`
	Root        string       `json:"root"`
	Mode        string       `json:"mode"`
	Summary     Summary      `json:"summary"`
	Issues      []core.Issue `json:"issues"`
}

// JSONWriter JSON 报告写入器
type JSONWriter struct {
	writer io.Writer
	pretty bool
}

// JSONOption JSON 选项
type JSONOption func(*JSONWriter)

// WithPrettyJSON 启用缩进输出
func WithPrettyJSON() JSONOption {
	return func(w *JSONWriter) {
		w.pretty = true
	}
}

// NewJSONWriter 创建 JSON 写入器
func NewJSONWriter(writer io.Writer, options ...JSONOption) *JSONWriter {
	w := &JSONWriter{writer: writer}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Write 生成并写入 JSON 报告
func (w *JSONWriter) Write(result *ScanResult) error {
	byCategory := make(map[string]int)
	bySeverity := make(map[string]int)
	for _, issue := range result.Issues {
		byCategory[string(issue.Category)]++
		bySeverity[issue.Severity]++
	}

	report := JSONReport{
		GeneratedAt: time.Now(),
		Tool: ToolInfo{
			Name:        "cbugscan",
			Version:     "1.0.0",
			Description: "Static analyzer for likely runtime defects in C sources",
		},
		Root: result.Root,
		Mode: result.Mode,
		Summary: Summary{
			Total:        len(result.Issues),
			ByCategory:   byCategory,
			BySeverity:   bySeverity,
			FilesScanned: result.FilesScanned,
		},
		Issues: result.Issues,
	}
	if report.Issues == nil {
		report.Issues = []core.Issue{}
	}

	encoder := json.NewEncoder(w.writer)
	if w.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}
