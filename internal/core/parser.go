package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// ParseError 表示结构化解析失败
// 扫描器捕获此错误后将文件降级到启发式路径
type ParseError struct {
	FilePath string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.FilePath, e.Reason)
}

// Capability 表示结构化解析器的可用性
// 每次运行只探测一次，结果传递给调度器（不依赖加载失败作为控制流信号）
type Capability struct {
	Available bool
	Reason    string // 不可用时的原因
}

// ProbeCapability 探测 tree-sitter C 解析器是否可用
// 用一段极小的 C 源码做一次完整的解析往返
func ProbeCapability() (result Capability) {
	defer func() {
		if r := recover(); r != nil {
			result = Capability{Available: false, Reason: fmt.Sprintf("parser panic: %v", r)}
		}
	}()

	parser := sitter.NewParser()
	lang := c.GetLanguage()
	if lang == nil {
		return Capability{Available: false, Reason: "c grammar not linked"}
	}
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte("int main(void) { return 0; }\n"))
	if err != nil || tree == nil {
		return Capability{Available: false, Reason: "probe parse failed"}
	}
	if tree.RootNode() == nil || tree.RootNode().HasError() {
		return Capability{Available: false, Reason: "probe parse produced error tree"}
	}

	return Capability{Available: true}
}

// SourceUnit 一个源文件：路径、全文、行数组
// 加载后不可变
type SourceUnit struct {
	Path  string
	Text  string
	Lines []string
}

// LoadSourceUnit 读取文件并切分为行
func LoadSourceUnit(path string) (*SourceUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return NewSourceUnit(path, string(data)), nil
}

// NewSourceUnit 从已有文本构造源单元
func NewSourceUnit(path, text string) *SourceUnit {
	return &SourceUnit{
		Path:  path,
		Text:  text,
		Lines: strings.Split(text, "\n"),
	}
}

// Line 返回 1 基行号对应的源码行，越界返回空串
func (u *SourceUnit) Line(n int) string {
	if n < 1 || n > len(u.Lines) {
		return ""
	}
	return u.Lines[n-1]
}

// ParsedUnit 表示一个已解析的翻译单元
type ParsedUnit struct {
	Unit     *SourceUnit
	Root     *sitter.Node
	Source   []byte
	Tree     *sitter.Tree
	Language string
}

// Close 释放 tree-sitter 树
func (u *ParsedUnit) Close() {
	if u.Tree != nil {
		u.Tree.Close()
	}
}

// languageFor 根据文件扩展名选择语法
// 目录扫描只投喂 .c，直接传入的 .h/.cpp 路径仍可解析
func languageFor(filename string) (*sitter.Language, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".c":
		return c.GetLanguage(), "c", nil
	case ".h", ".cpp", ".cxx", ".cc", ".hpp", ".hxx", ".hh":
		return cpp.GetLanguage(), "cpp", nil
	default:
		return nil, "", fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ParseSource 解析一段 C 源码
func ParseSource(ctx context.Context, unit *SourceUnit) (*ParsedUnit, error) {
	lang, langName, err := languageFor(unit.Path)
	if err != nil {
		return nil, &ParseError{FilePath: unit.Path, Reason: err.Error()}
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	source := []byte(unit.Text)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{FilePath: unit.Path, Reason: err.Error()}
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, &ParseError{FilePath: unit.Path, Reason: "parser returned empty tree"}
	}

	return &ParsedUnit{
		Unit:     unit,
		Root:     tree.RootNode(),
		Source:   source,
		Tree:     tree,
		Language: langName,
	}, nil
}

// ParseFile 读取并解析单个文件
func ParseFile(ctx context.Context, filePath string) (*ParsedUnit, error) {
	unit, err := LoadSourceUnit(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSource(ctx, unit)
}

// queryCache 缓存已编译的查询，避免重复创建 Query 对象
var (
	queryCacheMu sync.Mutex
	queryCache   = make(map[string]*sitter.Query)
)

// compiledQuery 从缓存获取或创建 Query
func compiledQuery(pattern, language string) (*sitter.Query, error) {
	key := language + ":" + pattern

	queryCacheMu.Lock()
	defer queryCacheMu.Unlock()

	if q, ok := queryCache[key]; ok {
		return q, nil
	}

	var lang *sitter.Language
	if language == "c" {
		lang = c.GetLanguage()
	} else {
		lang = cpp.GetLanguage()
	}

	q, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	queryCache[key] = q
	return q, nil
}

// QueryMatch 表示查询匹配的结果
type QueryMatch struct {
	Node     *sitter.Node
	Captures map[string]*sitter.Node
}

// Query 在语法树上执行 s-expression 查询
func (u *ParsedUnit) Query(pattern string) ([]QueryMatch, error) {
	query, err := compiledQuery(pattern, u.Language)
	if err != nil {
		return nil, err
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, u.Root)

	var matches []QueryMatch
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		if len(match.Captures) == 0 {
			continue
		}

		qm := QueryMatch{
			Node:     match.Captures[0].Node,
			Captures: make(map[string]*sitter.Node),
		}
		for _, capture := range match.Captures {
			qm.Captures[query.CaptureNameForId(capture.Index)] = capture.Node
		}
		matches = append(matches, qm)
	}

	return matches, nil
}

// Text 获取节点的源代码文本
func (u *ParsedUnit) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()
	if end > uint32(len(u.Source)) {
		end = uint32(len(u.Source))
	}
	if start > end || start >= uint32(len(u.Source)) {
		return ""
	}
	return string(u.Source[start:end])
}

// LineOf 返回节点起点的 1 基行号
func LineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// ColumnOf 返回节点起点的 1 基列号
func ColumnOf(node *sitter.Node) int {
	return int(node.StartPoint().Column) + 1
}
