package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

// Format 报告格式类型
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat 解析格式名
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", name)
	}
}

// ScanResult 一次完整扫描的结果
type ScanResult struct {
	Root         string        `json:"root"`   // 被扫描目录
	Mode         string        `json:"mode"`   // ast / heuristic / directory-fallback
	Issues       []core.Issue  `json:"issues"` // 按文件、检测器、行号排好序
	FilesScanned int           `json:"files_scanned"`
	Duration     time.Duration `json:"duration"`
}

// Writer 报告写入器接口
type Writer interface {
	Write(result *ScanResult) error
}

// Manager 报告管理器：按格式选择写入器并落到目标输出
type Manager struct {
	format  Format
	out     io.Writer
	outFile string
	verbose bool
}

// ManagerOption 管理器选项
type ManagerOption func(*Manager)

// WithFormat 设置报告格式
func WithFormat(format Format) ManagerOption {
	return func(m *Manager) {
		m.format = format
	}
}

// WithOutput 设置输出流
func WithOutput(out io.Writer) ManagerOption {
	return func(m *Manager) {
		m.out = out
	}
}

// WithOutputFile 设置输出文件，留空走标准输出
func WithOutputFile(path string) ManagerOption {
	return func(m *Manager) {
		m.outFile = path
	}
}

// WithVerbose 打开统计输出
func WithVerbose() ManagerOption {
	return func(m *Manager) {
		m.verbose = true
	}
}

// NewManager 创建报告管理器
func NewManager(options ...ManagerOption) *Manager {
	m := &Manager{
		format: FormatText,
		out:    os.Stdout,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Write 生成报告
func (m *Manager) Write(result *ScanResult) error {
	out := m.out
	if m.outFile != "" {
		file, err := os.Create(m.outFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		out = file
	}

	var writer Writer
	switch m.format {
	case FormatJSON:
		writer = NewJSONWriter(out, WithPrettyJSON())
	default:
		opts := []TextOption{}
		if m.verbose {
			opts = append(opts, WithStats())
		}
		writer = NewTextWriter(out, opts...)
	}
	return writer.Write(result)
}
