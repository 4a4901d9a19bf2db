// Package app holds the runtime configuration and logger of the command line tool.
package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
)

// EnvPrefix prefixes every environment variable, e.g. NETNET_LOG_LEVEL.
const EnvPrefix = "NETNET"

// Config holds runtime configuration for the tool.
type Config struct {
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// BackupDir stores backups; empty keeps them next to the workbook.
	BackupDir string `envconfig:"BACKUP_DIR"`

	CompanyCell    string `envconfig:"COMPANY_CELL" default:"C2" validate:"required"`
	CodeRow        int    `envconfig:"CODE_ROW" default:"8" validate:"min=1"`
	DateRow        int    `envconfig:"DATE_ROW" default:"10" validate:"min=1"`
	FirstDataRow   int    `envconfig:"FIRST_DATA_ROW" default:"12" validate:"min=1"`
	LastDataRow    int    `envconfig:"LAST_DATA_ROW" default:"60" validate:"gtefield=FirstDataRow"`
	LabelCol       int    `envconfig:"LABEL_COL" default:"3" validate:"min=1"`
	FirstPeriodCol int    `envconfig:"FIRST_PERIOD_COL" default:"4" validate:"min=1"`
	LastPeriodCol  int    `envconfig:"LAST_PERIOD_COL" default:"50" validate:"gtefield=FirstPeriodCol"`
	ScanLimitCol   int    `envconfig:"SCAN_LIMIT_COL" default:"99" validate:"gtefield=LastPeriodCol,max=16384"`
}

var configValidator = validator.New()

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, err
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := configValidator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Layout returns the raw data sheet layout described by the configuration.
func (c *Config) Layout() parser.Layout {
	return parser.Layout{
		CompanyCell:    c.CompanyCell,
		CodeRow:        c.CodeRow,
		DateRow:        c.DateRow,
		FirstDataRow:   c.FirstDataRow,
		LastDataRow:    c.LastDataRow,
		LabelCol:       c.LabelCol,
		FirstPeriodCol: c.FirstPeriodCol,
		LastPeriodCol:  c.LastPeriodCol,
		ScanLimitCol:   c.ScanLimitCol,
	}
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
