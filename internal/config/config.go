package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Patterns PatternsConfig `yaml:"patterns" envconfig:"PATTERNS"`
	Report   ReportConfig   `yaml:"report" envconfig:"REPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// RootDir holds the lookup workbook and the batch subfolders. It
	// defaults to the current working directory, matching the "drop the
	// tool next to the data" workflow.
	RootDir string `yaml:"root_dir" envconfig:"ROOT_DIR"`

	// OutputDir overrides where report files are written. Empty keeps the
	// default placement: closed reports in the root, open reports inside
	// their batch folder.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// PatternsConfig contains the sheet, column and filename markers used to
// locate NAV data. Pattern lists are ordered by priority.
type PatternsConfig struct {
	HistorySheet    []string `yaml:"history_sheet" envconfig:"HISTORY_SHEET"`
	LatestSheet     []string `yaml:"latest_sheet" envconfig:"LATEST_SHEET"`
	DateColumn      []string `yaml:"date_column" envconfig:"DATE_COLUMN"`
	NAVColumn       []string `yaml:"nav_column" envconfig:"NAV_COLUMN"`
	CodeColumn      string   `yaml:"code_column" envconfig:"CODE_COLUMN"`
	LookupFile      string   `yaml:"lookup_file" envconfig:"LOOKUP_FILE"`
	LookupSheet     []string `yaml:"lookup_sheet" envconfig:"LOOKUP_SHEET"`
	LookupHeaderRow int      `yaml:"lookup_header_row" envconfig:"LOOKUP_HEADER_ROW"`
	ReferenceMarker string   `yaml:"reference_marker" envconfig:"REFERENCE_MARKER"`
}

// ReportConfig controls report output
type ReportConfig struct {
	// PreferredInfoColumns is the product-info column order; columns not
	// listed here keep their original order after the preferred ones.
	PreferredInfoColumns []string `yaml:"preferred_info_columns" envconfig:"PREFERRED_INFO_COLUMNS"`
}

// Default returns the built-in configuration, which reproduces the
// standard comparison workflow with no configuration files present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/navcompare.log",
		},
		Paths: PathsConfig{
			RootDir: ".",
		},
		Patterns: PatternsConfig{
			HistorySheet:    []string{"历史净值", "历史"},
			LatestSheet:     []string{"最新净值", "最新"},
			DateColumn:      []string{"日期"},
			NAVColumn:       []string{"单位净值"},
			CodeColumn:      "登记编码",
			LookupFile:      "产品查询",
			LookupSheet:     []string{"产品列表"},
			LookupHeaderRow: 8,
			ReferenceMarker: "法巴",
		},
		Report: ReportConfig{
			PreferredInfoColumns: []string{
				"理财产品名称", "最早实际成立日期", "最早实际结束日期", "投资周期（天）",
				"业绩比较基准（%）", "最新销售费(%)", "最新固定管理费(%)", "折合人民币计算日期存续规模",
				"近1个月年化收益率(%)", "近3个月年化收益率(%)", "成立以来年化收益率(%)",
				"近1个月最大回撤(%)", "近3个月最大回撤(%)", "成立以来最大回撤(%)",
			},
		},
	}
}

// Load builds the configuration: built-in defaults, overlaid by an
// optional navcompare.yaml next to the executable or in the working
// directory, overlaid by NAV_* environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path, ok := findConfigFile(); ok {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := envconfig.Process("NAV", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile looks for navcompare.yaml next to the executable, then in
// the working directory.
func findConfigFile() (string, bool) {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "navcompare.yaml"))
	}
	candidates = append(candidates, "navcompare.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// loadFromFile overlays YAML configuration onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate rejects configurations the pipeline cannot run with
func (c *Config) validate() error {
	if c.Paths.RootDir == "" {
		return fmt.Errorf("paths.root_dir must not be empty")
	}
	if len(c.Patterns.HistorySheet) == 0 {
		return fmt.Errorf("patterns.history_sheet must list at least one pattern")
	}
	if len(c.Patterns.DateColumn) == 0 || len(c.Patterns.NAVColumn) == 0 {
		return fmt.Errorf("patterns.date_column and patterns.nav_column must list at least one pattern")
	}
	if c.Patterns.LookupHeaderRow < 0 {
		return fmt.Errorf("patterns.lookup_header_row must not be negative")
	}
	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("logging.output must be stdout, file or both, got %q", c.Logging.Output)
	}
	return nil
}
