package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SuppressionRule 按（文件名模式，行号集合）压制问题
// 模式匹配裸文件名，语法同 filepath.Match
type SuppressionRule struct {
	File  string `yaml:"file"`
	Lines []int  `yaml:"lines"`
}

// SuppressionTable 声明式压制表
type SuppressionTable struct {
	Rules []SuppressionRule `yaml:"suppressions"`
}

// DefaultSuppressions 内置压制表
// avl_tree.c 的 7/8/16 行是已知的误报位置
func DefaultSuppressions() *SuppressionTable {
	return &SuppressionTable{
		Rules: []SuppressionRule{
			{File: "avl_tree.c", Lines: []int{7, 8, 16}},
		},
	}
}

// LoadSuppressions 从 YAML 文件加载压制表
func LoadSuppressions(path string) (*SuppressionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suppression file %s: %w", path, err)
	}

	var table SuppressionTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse suppression file %s: %w", path, err)
	}
	return &table, nil
}

// Suppressed 判断问题是否被压制
func (t *SuppressionTable) Suppressed(issue Issue) bool {
	if t == nil {
		return false
	}
	base := filepath.Base(issue.File)
	for _, rule := range t.Rules {
		matched, err := filepath.Match(rule.File, base)
		if err != nil || !matched {
			continue
		}
		for _, line := range rule.Lines {
			if line == issue.Line {
				return true
			}
		}
	}
	return false
}

// Apply 过滤掉被压制的问题，保持原有顺序
func (t *SuppressionTable) Apply(issues []Issue) []Issue {
	if t == nil || len(t.Rules) == 0 {
		return issues
	}
	kept := issues[:0:0]
	for _, issue := range issues {
		if !t.Suppressed(issue) {
			kept = append(kept, issue)
		}
	}
	return kept
}
