package config

import (
	"github.com/spf13/viper"
)

// Config 一次运行的全部配置
// 优先级：命令行参数 > 配置文件 > 默认值
type Config struct {
	Dir             string // 被扫描目录
	StrictFlow      bool   // 流敏感变体开关，默认保持流不敏感输出
	Format          string // 报告格式 text / json
	Output          string // 报告输出文件，留空走标准输出
	SuppressionFile string // 自定义压制表路径
	Verbose         bool
}

// DefaultDir 不给目录参数时扫描的样例目录
const DefaultDir = "tests/graphs/correct"

// SetDefaults 写入默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scan.dir", DefaultDir)
	v.SetDefault("analysis.strict_flow", false)
	v.SetDefault("report.format", "text")
	v.SetDefault("report.output", "")
	v.SetDefault("suppressions.file", "")
	v.SetDefault("verbose", false)
}

// New 从 viper 实例加载配置
func New(v *viper.Viper) *Config {
	return &Config{
		Dir:             v.GetString("scan.dir"),
		StrictFlow:      v.GetBool("analysis.strict_flow"),
		Format:          v.GetString("report.format"),
		Output:          v.GetString("report.output"),
		SuppressionFile: v.GetString("suppressions.file"),
		Verbose:         v.GetBool("verbose"),
	}
}
