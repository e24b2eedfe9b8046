package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"surveycli/pkg/contracts/domain"
)

// Config is the complete application configuration: server and logging for
// the web binary, analysis settings for the engine.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// AnalysisConfig holds the survey-analysis settings document described in
// the persistence format: a global days-per-year multiplier, the per-category
// brand/workload header lists and per-category test prices, plus the site and
// category columns the summary builder reads.
type AnalysisConfig struct {
	DaysPerYear     int                        `yaml:"days_per_year" envconfig:"DAYS_PER_YEAR"`
	SiteColumn      string                     `yaml:"site_column" envconfig:"SITE_COLUMN"`
	CategoryColumns []string                   `yaml:"category_columns" envconfig:"CATEGORY_COLUMNS"`
	Workers         int                        `yaml:"workers" envconfig:"WORKERS"`
	Headers         map[string]CategoryHeaders `yaml:"headers"`
	TestPrices      map[string]float64         `yaml:"test_prices"`
}

// CategoryHeaders is one analyzer category's column layout as persisted.
type CategoryHeaders struct {
	BrandColumns    []string `yaml:"brand_cols"`
	WorkloadColumns []string `yaml:"workload_cols"`
	YearlyColumn    string   `yaml:"yearly_col,omitempty"`
}

// DefaultAnalyzerNames lists the categories shipped as defaults, in their
// conventional order.
var DefaultAnalyzerNames = []string{"IA", "CBC", "CHEM"}

// defaultHeaders mirrors the survey template this tool grew up with: three
// immunoassay slots, four hematology and four chemistry slots.
func defaultHeaders() map[string]CategoryHeaders {
	return map[string]CategoryHeaders{
		"IA": {
			BrandColumns:    []string{"IA Brand 1", "IA Brand 2", "IA Brand 3"},
			WorkloadColumns: []string{"IA Workload - Brand 1", "IA Workload - Brand 2", "IA Workload - Brand 3"},
		},
		"CBC": {
			BrandColumns:    []string{"CBC Brand 1", "CBC Brand 2", "CBC Brand 3", "CBC Brand 4"},
			WorkloadColumns: []string{"CBC Workload - Brand 1", "CBC Workload - Brand 2", "CBC Workload - Brand 3", "CBC Workload - Brand 4"},
		},
		"CHEM": {
			BrandColumns:    []string{"CHEM Brand 1", "CHEM Brand 2", "CHEM Brand 3", "CHEM Brand 4"},
			WorkloadColumns: []string{"CHEM Workload - Brand 1", "CHEM Workload - Brand 2", "CHEM Workload - Brand 3", "CHEM Workload - Brand 4"},
		},
	}
}

// Default returns the fully-populated default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    50,
			RateLimitBurst:  25,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Analysis: AnalysisConfig{
			DaysPerYear:     330,
			SiteColumn:      "Customer Name",
			CategoryColumns: []string{"CITY", "Class", "Region", "Type"},
			Workers:         4,
			Headers:         defaultHeaders(),
		},
	}
}

// Load reads configuration from an optional YAML settings file overlaid
// with SURVEY_-prefixed environment variables. A missing, unreadable or
// partially-specified file falls back to the documented defaults rather
// than failing the run; the fallback is logged, never fatal.
func Load(path string, logger *slog.Logger) *Config {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			logger.Info("settings file not found; using defaults",
				slog.String("path", path))
		case err != nil:
			logger.Warn("settings file unreadable; using defaults",
				slog.String("path", path),
				slog.String("error", err.Error()))
		default:
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				logger.Warn("settings file invalid; using defaults",
					slog.String("path", path),
					slog.String("error", err.Error()))
			} else {
				merge(cfg, &fileCfg)
			}
		}
	}

	if err := envconfig.Process("SURVEY", cfg); err != nil {
		logger.Warn("environment overrides rejected; continuing with file/default values",
			slog.String("error", err.Error()))
	}

	cfg.normalize(logger)
	return cfg
}

// merge overlays non-zero file values on top of the defaults. Category
// header maps replace wholesale per category so a partial document keeps the
// default layouts for the categories it omits.
func merge(base, file *Config) {
	if file.Server.Port != 0 {
		base.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 {
		base.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 {
		base.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 {
		base.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 {
		base.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Server.RateLimitRPS != 0 {
		base.Server.RateLimitRPS = file.Server.RateLimitRPS
	}
	if file.Server.RateLimitBurst != 0 {
		base.Server.RateLimitBurst = file.Server.RateLimitBurst
	}
	if file.Logging.Level != "" {
		base.Logging.Level = file.Logging.Level
	}
	if file.Logging.Output != "" {
		base.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		base.Logging.FilePath = file.Logging.FilePath
	}
	if file.Analysis.DaysPerYear != 0 {
		base.Analysis.DaysPerYear = file.Analysis.DaysPerYear
	}
	if file.Analysis.SiteColumn != "" {
		base.Analysis.SiteColumn = file.Analysis.SiteColumn
	}
	if len(file.Analysis.CategoryColumns) != 0 {
		base.Analysis.CategoryColumns = file.Analysis.CategoryColumns
	}
	if file.Analysis.Workers != 0 {
		base.Analysis.Workers = file.Analysis.Workers
	}
	for name, headers := range file.Analysis.Headers {
		base.Analysis.Headers[name] = headers
	}
	for name, price := range file.Analysis.TestPrices {
		if base.Analysis.TestPrices == nil {
			base.Analysis.TestPrices = make(map[string]float64)
		}
		base.Analysis.TestPrices[name] = price
	}
}

// normalize drops individually-invalid categories back to their defaults
// (when a default exists) or removes them, so one malformed entry cannot
// poison the whole document.
func (c *Config) normalize(logger *slog.Logger) {
	if c.Analysis.DaysPerYear <= 0 {
		logger.Warn("non-positive days_per_year; using default",
			slog.Int("configured", c.Analysis.DaysPerYear))
		c.Analysis.DaysPerYear = 330
	}
	if c.Analysis.Workers < 1 {
		c.Analysis.Workers = 1
	}
	defaults := defaultHeaders()
	for name, headers := range c.Analysis.Headers {
		if len(headers.BrandColumns) == len(headers.WorkloadColumns) && len(headers.BrandColumns) > 0 {
			continue
		}
		if fallback, ok := defaults[name]; ok {
			logger.Warn("category headers invalid; using default layout",
				slog.String("category", name))
			c.Analysis.Headers[name] = fallback
		} else {
			logger.Warn("category headers invalid and no default exists; dropping category",
				slog.String("category", name))
			delete(c.Analysis.Headers, name)
		}
	}
}

// AnalyzerConfig assembles the engine configuration for one category. The
// category must exist in the headers map.
func (c *Config) AnalyzerConfig(name string) (domain.AnalyzerConfig, error) {
	headers, ok := c.Analysis.Headers[name]
	if !ok {
		return domain.AnalyzerConfig{}, fmt.Errorf("unknown analyzer category %q", name)
	}
	cfg := domain.AnalyzerConfig{
		Name:            name,
		BrandColumns:    headers.BrandColumns,
		WorkloadColumns: headers.WorkloadColumns,
		YearlyColumn:    headers.YearlyColumn,
		TestPrice:       c.Analysis.TestPrices[name],
	}
	// Only one annualization mode may be active; the yearly column wins
	// when the document names one.
	if cfg.YearlyColumn == "" {
		cfg.DaysPerYear = c.Analysis.DaysPerYear
	}
	if err := cfg.Validate(); err != nil {
		return domain.AnalyzerConfig{}, err
	}
	return cfg, nil
}

// Categories returns the configured category names: the conventional trio
// first when present, then any extras in lexical-insertion-independent order.
func (c *Config) Categories() []string {
	names := make([]string, 0, len(c.Analysis.Headers))
	seen := make(map[string]bool, len(c.Analysis.Headers))
	for _, name := range DefaultAnalyzerNames {
		if _, ok := c.Analysis.Headers[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	extras := make([]string, 0)
	for name := range c.Analysis.Headers {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

// Validate runs struct-tag validation over the assembled configuration.
func (c *Config) Validate() error {
	v := validator.New()
	for _, name := range c.Categories() {
		cfg, err := c.AnalyzerConfig(name)
		if err != nil {
			return err
		}
		if err := v.Struct(cfg); err != nil {
			return fmt.Errorf("category %s: %w", name, err)
		}
	}
	return nil
}
