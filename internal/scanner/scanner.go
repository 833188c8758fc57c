package scanner

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/detectors"
	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/heuristic"
	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/report"
)

// Scanner 逐文件的顺序扫描管线
// 三档降级：AST 检测器 → 单文件最小回退 → 整目录文本回退
type Scanner struct {
	capability   core.Capability
	detectors    []core.Detector
	engine       *heuristic.Engine
	suppressions *core.SuppressionTable
	verbose      bool

	// 检测器耗时统计
	detectorTimings map[string]time.Duration
}

// Options 扫描器配置
type Options struct {
	StrictFlow   bool
	Verbose      bool
	Suppressions *core.SuppressionTable
}

// New 创建扫描器
// capability 每次运行探测一次后传入，不在扫描期间重新探测
func New(capability core.Capability, opts Options) *Scanner {
	suppressions := opts.Suppressions
	if suppressions == nil {
		suppressions = core.DefaultSuppressions()
	}

	return &Scanner{
		capability: capability,
		detectors: []core.Detector{
			detectors.NewUninitVarDetector(opts.StrictFlow),
			detectors.NewNullPointerDetector(opts.StrictFlow),
			detectors.NewLibraryHeaderDetector(),
			detectors.NewHeaderSpellingDetector(),
		},
		engine:          heuristic.NewEngine(heuristic.Config{StrictFlow: opts.StrictFlow}),
		suppressions:    suppressions,
		verbose:         opts.Verbose,
		detectorTimings: make(map[string]time.Duration),
	}
}

// ScanDir 扫描目录下的全部 .c 文件
// 目录枚举失败时切换整目录回退；回退也失败则向上返回致命错误
func (s *Scanner) ScanDir(ctx context.Context, dir string) (*report.ScanResult, error) {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("warning: cannot enumerate %s (%v), falling back to directory-level scan", dir, err)
		issues, ferr := heuristic.ScanDirectory(dir)
		if ferr != nil {
			return nil, ferr
		}
		return &report.ScanResult{
			Root:         dir,
			Mode:         "directory-fallback",
			Issues:       s.suppressions.Apply(issues),
			FilesScanned: countFiles(issues),
			Duration:     time.Since(start),
		}, nil
	}

	mode := "ast"
	if !s.capability.Available {
		mode = "heuristic"
		log.Printf("warning: structured parser unavailable (%s), using heuristic engine", s.capability.Reason)
	}

	var (
		issues  []core.Issue
		scanned int
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".c") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		unit, err := core.LoadSourceUnit(path)
		if err != nil {
			// 单文件读取失败只跳过该文件
			log.Printf("warning: skipping unreadable file %s: %v", path, err)
			continue
		}
		scanned++
		if s.verbose {
			log.Printf("scanning %s", path)
		}

		issues = append(issues, s.scanUnit(ctx, unit)...)
	}

	if s.verbose {
		s.logDetectorTimings()
	}

	return &report.ScanResult{
		Root:         dir,
		Mode:         mode,
		Issues:       s.suppressions.Apply(issues),
		FilesScanned: scanned,
		Duration:     time.Since(start),
	}, nil
}

// ScanFile 扫描单个文件（跳过目录枚举，仍走完整降级链）
func (s *Scanner) ScanFile(ctx context.Context, path string) (*report.ScanResult, error) {
	start := time.Now()

	unit, err := core.LoadSourceUnit(path)
	if err != nil {
		return nil, err
	}

	mode := "ast"
	if !s.capability.Available {
		mode = "heuristic"
	}
	return &report.ScanResult{
		Root:         path,
		Mode:         mode,
		Issues:       s.suppressions.Apply(s.scanUnit(ctx, unit)),
		FilesScanned: 1,
		Duration:     time.Since(start),
	}, nil
}

// scanUnit 按能力选择检测路径
func (s *Scanner) scanUnit(ctx context.Context, unit *core.SourceUnit) []core.Issue {
	if !s.capability.Available {
		return s.engine.ScanUnit(unit)
	}

	parsed, err := core.ParseSource(ctx, unit)
	if err != nil {
		// 该文件解析失败：降到单文件最小回退，其余文件不受影响
		log.Printf("warning: %v, falling back to minimal scan", err)
		return heuristic.MinimalScanUnit(unit)
	}
	defer parsed.Close()

	var issues []core.Issue
	for _, detector := range s.detectors {
		issues = append(issues, s.runDetector(detector, parsed)...)
	}

	// 死循环与格式串检查只有文本实现，AST 档同样由引擎承担
	for _, issue := range s.engine.ScanUnit(unit) {
		if issue.Category == core.CategoryInfiniteLoop || issue.Category == core.CategoryFormat {
			issues = append(issues, issue)
		}
	}

	// 单文件内按行号稳定排序，保证两次运行输出一致
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})
	return issues
}

// runDetector 带崩溃隔离地执行单个检测器
// 检测器内部报错或 panic 只丢弃它对该文件的贡献
func (s *Scanner) runDetector(detector core.Detector, unit *core.ParsedUnit) (issues []core.Issue) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("warning: detector %s panicked on %s: %v", detector.Name(), unit.Unit.Path, r)
			issues = nil
		}
	}()

	begin := time.Now()
	issues, err := detector.Run(unit)
	s.detectorTimings[detector.Name()] += time.Since(begin)
	if err != nil {
		log.Printf("warning: detector %s failed on %s: %v", detector.Name(), unit.Unit.Path, err)
		return nil
	}
	return issues
}

// logDetectorTimings 打印检测器耗时统计
func (s *Scanner) logDetectorTimings() {
	type timing struct {
		name     string
		duration time.Duration
	}
	var timings []timing
	for name, duration := range s.detectorTimings {
		timings = append(timings, timing{name, duration})
	}
	sort.Slice(timings, func(i, j int) bool {
		return timings[i].duration > timings[j].duration
	})
	for _, t := range timings {
		log.Printf("detector %s: %s", t.name, t.duration)
	}
}

// countFiles 结果里涉及的文件数
func countFiles(issues []core.Issue) int {
	seen := make(map[string]bool)
	for _, issue := range issues {
		seen[issue.File] = true
	}
	return len(seen)
}

// Detectors 返回检测器名称列表（帮助输出用）
func (s *Scanner) Detectors() []string {
	var names []string
	for _, d := range s.detectors {
		names = append(names, fmt.Sprintf("%s: %s", d.Name(), d.Description()))
	}
	return names
}
