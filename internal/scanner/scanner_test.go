package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
)

var (
	buggyDir = filepath.Join("..", "..", "testdata", "buggy")
	cleanDir = filepath.Join("..", "..", "testdata", "graphs", "correct")
)

func newTestScanner(t *testing.T, opts Options) *Scanner {
	t.Helper()
	capability := core.ProbeCapability()
	require.True(t, capability.Available, "structured parser must be available in tests")
	return New(capability, opts)
}

type issueKey struct {
	file     string
	line     int
	category core.Category
}

func keysOf(issues []core.Issue) []issueKey {
	keys := make([]issueKey, 0, len(issues))
	for _, issue := range issues {
		keys = append(keys, issueKey{filepath.Base(issue.File), issue.Line, issue.Category})
	}
	return keys
}

func TestScanDirCleanFixtures(t *testing.T) {
	s := newTestScanner(t, Options{})
	result, err := s.ScanDir(context.Background(), cleanDir)
	require.NoError(t, err)

	assert.Equal(t, "ast", result.Mode)
	assert.Equal(t, 1, result.FilesScanned)
	assert.Empty(t, result.Issues)
}

func TestScanDirBuggyFixtures(t *testing.T) {
	s := newTestScanner(t, Options{})
	result, err := s.ScanDir(context.Background(), buggyDir)
	require.NoError(t, err)

	assert.Equal(t, "ast", result.Mode)
	assert.Equal(t, 3, result.FilesScanned)

	expected := []issueKey{
		{"avl_tree.c", 14, core.CategoryUninitialized},
		{"avl_tree.c", 17, core.CategoryNullPointer},
		{"loops.c", 5, core.CategoryInfiniteLoop},
		{"loops.c", 6, core.CategoryInfiniteLoop},
		{"loops.c", 8, core.CategoryFormat},
		{"loops.c", 9, core.CategoryFormat},
		{"uninit.c", 5, core.CategoryUninitialized},
		{"uninit.c", 5, core.CategoryHeader},
		{"uninit.c", 7, core.CategoryNullPointer},
	}
	assert.Equal(t, expected, keysOf(result.Issues))
}

// avl_tree.c 第 16 行的误报在默认压制表里
func TestScanDirDefaultSuppression(t *testing.T) {
	s := newTestScanner(t, Options{})
	result, err := s.ScanDir(context.Background(), buggyDir)
	require.NoError(t, err)

	for _, issue := range result.Issues {
		if filepath.Base(issue.File) == "avl_tree.c" {
			assert.NotEqual(t, 16, issue.Line)
		}
	}

	// 空压制表时被压制的问题重新出现
	unsuppressed := New(core.ProbeCapability(), Options{Suppressions: &core.SuppressionTable{}})
	result, err = unsuppressed.ScanDir(context.Background(), buggyDir)
	require.NoError(t, err)
	assert.Contains(t, keysOf(result.Issues),
		issueKey{"avl_tree.c", 16, core.CategoryUninitialized})
}

// 同一目录扫描两次必须得到相同的问题序列
func TestScanDirIdempotent(t *testing.T) {
	s := newTestScanner(t, Options{})

	first, err := s.ScanDir(context.Background(), buggyDir)
	require.NoError(t, err)
	second, err := s.ScanDir(context.Background(), buggyDir)
	require.NoError(t, err)

	assert.Equal(t, first.Issues, second.Issues)
}

// 解析器不可用时整体切换启发式引擎
func TestScanDirHeuristicMode(t *testing.T) {
	s := New(core.Capability{Available: false, Reason: "disabled for test"}, Options{})
	result, err := s.ScanDir(context.Background(), buggyDir)
	require.NoError(t, err)

	assert.Equal(t, "heuristic", result.Mode)
	keys := keysOf(result.Issues)
	assert.Contains(t, keys, issueKey{"uninit.c", 5, core.CategoryUninitialized})
	assert.Contains(t, keys, issueKey{"uninit.c", 7, core.CategoryNullPointer})
	assert.Contains(t, keys, issueKey{"loops.c", 5, core.CategoryInfiniteLoop})
	assert.Contains(t, keys, issueKey{"loops.c", 8, core.CategoryFormat})
	assert.NotContains(t, keys, issueKey{"avl_tree.c", 16, core.CategoryUninitialized})
}

func TestScanDirMissingDirectory(t *testing.T) {
	s := newTestScanner(t, Options{})
	_, err := s.ScanDir(context.Background(), filepath.Join(buggyDir, "does-not-exist"))
	require.Error(t, err)
	var derr *core.DirectoryError
	assert.ErrorAs(t, err, &derr)
}

func TestScanFile(t *testing.T) {
	s := newTestScanner(t, Options{})
	result, err := s.ScanFile(context.Background(), filepath.Join(buggyDir, "uninit.c"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesScanned)
	expected := []issueKey{
		{"uninit.c", 5, core.CategoryUninitialized},
		{"uninit.c", 5, core.CategoryHeader},
		{"uninit.c", 7, core.CategoryNullPointer},
	}
	assert.Equal(t, expected, keysOf(result.Issues))
}

func TestStrictFlowSwitch(t *testing.T) {
	strict := newTestScanner(t, Options{StrictFlow: true})
	result, err := strict.ScanFile(context.Background(), filepath.Join(buggyDir, "uninit.c"))
	require.NoError(t, err)

	// uninit.c 里没有写后读和重新赋值，严格模式下结论不变
	assert.Len(t, result.Issues, 3)
}

func TestDetectorsListing(t *testing.T) {
	s := newTestScanner(t, Options{})
	names := s.Detectors()
	require.Len(t, names, 4)
	assert.Contains(t, names[0], "uninit_var")
}
