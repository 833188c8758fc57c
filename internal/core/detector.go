package core

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Category 缺陷类别
type Category string

const (
	CategoryUninitialized  Category = "Uninitialized"
	CategoryNullPointer    Category = "NullPointer"
	CategoryWildPointer    Category = "WildPointer"
	CategoryHeader         Category = "Header"
	CategoryHeaderSpelling Category = "HeaderSpelling"
	CategoryInfiniteLoop   Category = "InfiniteLoop"
	CategoryFormat         Category = "Format"
)

// Categories 所有支持的检查类别（能力横幅按此顺序列出）
var Categories = []Category{
	CategoryUninitialized,
	CategoryNullPointer,
	CategoryWildPointer,
	CategoryHeader,
	CategoryHeaderSpelling,
	CategoryInfiniteLoop,
	CategoryFormat,
}

// Issue 表示检测器发现的一个问题
// 构造完成后只写一次，不再修改
type Issue struct {
	File     string   `json:"file"`
	Line     int      `json:"line"` // 1 基行号
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Severity string   `json:"severity"`
	Code     string   `json:"code,omitempty"` // 去除首尾空白的源码行
}

// severityFor 类别到严重性的固定映射
func severityFor(cat Category) string {
	switch cat {
	case CategoryNullPointer, CategoryWildPointer:
		return "high"
	case CategoryUninitialized, CategoryInfiniteLoop, CategoryFormat:
		return "medium"
	default:
		return "low"
	}
}

// NewIssue 构造一个问题，附带对应源码行
func NewIssue(unit *SourceUnit, line int, cat Category, message string) Issue {
	return Issue{
		File:     unit.Path,
		Line:     line,
		Category: cat,
		Message:  message,
		Severity: severityFor(cat),
		Code:     strings.TrimSpace(unit.Line(line)),
	}
}

// Detector AST 路径检测器接口
type Detector interface {
	// Name 返回检测器名称
	Name() string

	// Description 返回检测器描述
	Description() string

	// Run 在已解析的翻译单元上执行检测
	Run(unit *ParsedUnit) ([]Issue, error)
}

// BaseDetector 基础检测器，提供通用功能
type BaseDetector struct {
	name        string
	description string
}

// NewBaseDetector 创建基础检测器
func NewBaseDetector(name, description string) *BaseDetector {
	return &BaseDetector{name: name, description: description}
}

// Name 返回检测器名称
func (d *BaseDetector) Name() string {
	return d.name
}

// Description 返回检测器描述
func (d *BaseDetector) Description() string {
	return d.description
}

// IssueAt 在节点位置构造问题
func (d *BaseDetector) IssueAt(unit *ParsedUnit, node *sitter.Node, cat Category, message string) Issue {
	return NewIssue(unit.Unit, LineOf(node), cat, message)
}

// IssueAtLine 在指定行构造问题
func (d *BaseDetector) IssueAtLine(unit *ParsedUnit, line int, cat Category, message string) Issue {
	return NewIssue(unit.Unit, line, cat, message)
}

// DirectoryError 目录枚举或读取失败
// 触发整目录启发式回退；回退也失败时为致命错误
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory error at %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}
