package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/config"
	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/core"
	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/report"
	"github.com/LumiaBlack51/Clanguage-runtime-bug-detector/internal/scanner"
)

var cfgFile string

// rootCmd 唯一的命令：扫描一个目录
var rootCmd = &cobra.Command{
	Use:   "cbugscan [directory]",
	Short: "Static analyzer for likely runtime defects in C sources",
	Long: `cbugscan scans a directory of .c files and reports likely runtime
defects without executing the code: uninitialized variables, NULL and
wild pointer dereferences, missing or misspelled standard headers,
suspicious infinite loops, and printf/scanf format mismatches.

Parsing uses a tree-sitter C grammar; when the parser is unavailable
the tool degrades to a text-based heuristic engine.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./analyzer.yaml)")
	rootCmd.Flags().Bool("strict-flow", false, "Enable the flow-sensitive analysis variant")
	rootCmd.Flags().String("format", "text", "Report format (text, json)")
	rootCmd.Flags().String("output", "", "Write the report to a file instead of stdout")
	rootCmd.Flags().String("suppressions", "", "YAML suppression table (file pattern + lines)")
	rootCmd.Flags().BoolP("verbose", "v", false, "Verbose output with per-detector timings")
}

// loadConfig 组装 viper：默认值 < 配置文件 < 命令行参数
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("analyzer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件就用默认值，文件存在但读不了要报错
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindings := map[string]string{
		"analysis.strict_flow": "strict-flow",
		"report.format":        "format",
		"report.output":        "output",
		"suppressions.file":    "suppressions",
		"verbose":              "verbose",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	return config.New(v), nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Dir = args[0]
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	suppressions := core.DefaultSuppressions()
	if cfg.SuppressionFile != "" {
		suppressions, err = core.LoadSuppressions(cfg.SuppressionFile)
		if err != nil {
			return err
		}
	}

	// 能力协商：整次运行只探测一次
	capability := core.ProbeCapability()

	s := scanner.New(capability, scanner.Options{
		StrictFlow:   cfg.StrictFlow,
		Verbose:      cfg.Verbose,
		Suppressions: suppressions,
	})

	result, err := s.ScanDir(context.Background(), cfg.Dir)
	if err != nil {
		return err
	}

	opts := []report.ManagerOption{
		report.WithFormat(format),
		report.WithOutputFile(cfg.Output),
	}
	if cfg.Verbose {
		opts = append(opts, report.WithVerbose())
	}
	// 发现问题也正常退出，只有顶层失败才返回非零
	return report.NewManager(opts...).Write(result)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
