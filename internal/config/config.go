package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appDir = ".tabclean"

// Global configuration structure.
type Global struct {
	RunsDir   string `mapstructure:"runs_dir" yaml:"runs_dir"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Analysis behaviour
	AnalyzeCleaned bool   `mapstructure:"analyze_cleaned" yaml:"analyze_cleaned"`
	SampleRows     int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	ReportFormat   string `mapstructure:"report_format" yaml:"report_format"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Ingestion
	CSVDelimiter string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	XLSXSheet    string `mapstructure:"xlsx_sheet" yaml:"xlsx_sheet"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"runs_dir", "output_dir", "analyze_cleaned", "sample_rows", "report_format",
	"log_level", "log_format", "csv_delimiter", "xlsx_sheet",
}

// DefaultPath returns ~/.tabclean/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, appDir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabclean/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABCLEAN")
	v.AutomaticEnv()

	v.SetDefault("runs_dir", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("analyze_cleaned", true)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("report_format", "markdown")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("csv_delimiter", "")
	v.SetDefault("xlsx_sheet", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, appDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.RunsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.RunsDir = filepath.Join(home, appDir, "runs")
	}
	return &c, nil
}

// Set assigns one key from its string form, validating enumerated values.
func (c *Global) Set(key, value string) error {
	switch key {
	case "runs_dir":
		c.RunsDir = value
	case "output_dir":
		c.OutputDir = value
	case "analyze_cleaned":
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.AnalyzeCleaned = b
	case "sample_rows":
		n, err := cast.ToIntE(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value for %s: %q", key, value)
		}
		c.SampleRows = n
	case "report_format":
		if !oneOf(value, "markdown", "json", "yaml") {
			return fmt.Errorf("invalid value for %s: %q (markdown|json|yaml)", key, value)
		}
		c.ReportFormat = value
	case "log_level":
		if !oneOf(value, "debug", "info", "warn", "error") {
			return fmt.Errorf("invalid value for %s: %q (debug|info|warn|error)", key, value)
		}
		c.LogLevel = value
	case "log_format":
		if !oneOf(value, "text", "json") {
			return fmt.Errorf("invalid value for %s: %q (text|json)", key, value)
		}
		c.LogFormat = value
	case "csv_delimiter":
		if len([]rune(value)) > 1 && value != `\t` && value != "tab" {
			return fmt.Errorf("invalid value for %s: %q (single character)", key, value)
		}
		c.CSVDelimiter = value
	case "xlsx_sheet":
		c.XLSXSheet = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Delimiter resolves csv_delimiter to a rune; 0 means auto by extension.
func (c *Global) Delimiter() rune {
	switch c.CSVDelimiter {
	case "":
		return 0
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.CSVDelimiter)[0]
}

func oneOf(v string, opts ...string) bool {
	for _, o := range opts {
		if v == o {
			return true
		}
	}
	return false
}
