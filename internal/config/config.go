package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "salesanalyzer/internal/errors"
)

// EnvPrefix is the prefix for every environment variable the analyzer reads,
// e.g. SALES_REPORT_FORMAT or SALES_SERVER_PORT.
const EnvPrefix = "SALES"

// ConfigFileEnv names an explicit YAML config file, overriding the search list.
const ConfigFileEnv = "SALES_CONFIG_FILE"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration. Relative entries are
// resolved against the working directory by GetPaths.
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// ReportConfig controls what the report contains and how it is written
type ReportConfig struct {
	TopBrandsPerBucket       int    `yaml:"top_brands_per_bucket" envconfig:"TOP_BRANDS_PER_BUCKET" validate:"min=1"`
	TopProductsPerBucket     int    `yaml:"top_products_per_bucket" envconfig:"TOP_PRODUCTS_PER_BUCKET" validate:"min=1"`
	TopBrandsOverall         int    `yaml:"top_brands_overall" envconfig:"TOP_BRANDS_OVERALL" validate:"min=1"`
	TopBrandsForDistribution int    `yaml:"top_brands_for_distribution" envconfig:"TOP_BRANDS_FOR_DISTRIBUTION" validate:"min=1"`
	Format                   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=xlsx csv"`
	FileName                 string `yaml:"file_name" envconfig:"FILE_NAME" validate:"required"`
	SheetName                string `yaml:"sheet_name" envconfig:"SHEET_NAME" validate:"required,max=31"`
	InputSheet               string `yaml:"input_sheet" envconfig:"INPUT_SHEET"`
	Locale                   string `yaml:"locale" envconfig:"LOCALE" validate:"oneof=en zh"`
	Charts                   bool   `yaml:"charts" envconfig:"CHARTS"`
	ChartsFileName           string `yaml:"charts_file_name" envconfig:"CHARTS_FILE_NAME" validate:"required_if=Charts true"`
	LogSummary               bool   `yaml:"log_summary" envconfig:"LOG_SUMMARY"`
}

// OutputFileName returns FileName with the extension matching Format
func (r ReportConfig) OutputFileName() string {
	base := strings.TrimSuffix(r.FileName, filepath.Ext(r.FileName))
	return base + "." + r.Format
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"min=1"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// TelemetryConfig selects the trace and metric exporters
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, then the YAML file (if any),
// then SALES_* environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", path)
		}
	}

	// No default tags: envconfig only touches fields whose variable is set.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks every section of the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return apperrors.NewConfigError("config validation failed", err).
				WithContext("fields", strings.Join(fields, ", "))
		}
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/analyzer.log",
		},
		Paths: PathsConfig{
			InputDir:  "data",
			OutputDir: "output",
			LogsDir:   "logs",
		},
		Report: ReportConfig{
			TopBrandsPerBucket:       5,
			TopProductsPerBucket:     5,
			TopBrandsOverall:         10,
			TopBrandsForDistribution: 5,
			Format:                   "xlsx",
			FileName:                 "sales_analysis_report.xlsx",
			SheetName:                "Analysis",
			Locale:                   "en",
			Charts:                   true,
			ChartsFileName:           "sales_charts.xlsx",
			LogSummary:               true,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxUploadBytes:  32 << 20, // 32MB
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     5,
				Burst:   10,
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "sales-analyzer",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1,
		},
	}
}
