// Package config manages application configuration.
package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roboco-io/typodiff/internal/compare"
	"github.com/roboco-io/typodiff/internal/diag"
	"github.com/roboco-io/typodiff/internal/extract"
	"github.com/roboco-io/typodiff/internal/logging"
)

// Config represents the application configuration.
type Config struct {
	Strategy    string            `yaml:"strategy"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Compare     CompareConfig     `yaml:"compare"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DiagnosticsConfig contains diagnostics log options.
type DiagnosticsConfig struct {
	LogOnlyPriorityZero bool   `yaml:"log_only_priority_zero"`
	LogPath             string `yaml:"log_path"`     // empty = stdout
	SummaryPath         string `yaml:"summary_path"` // empty = no run summary
}

// CompareConfig contains comparison options.
type CompareConfig struct {
	ContextWindow   int     `yaml:"context_window"`
	IndentTolerance float64 `yaml:"indent_tolerance"`
	Normalization   string  `yaml:"normalization"` // none, nfc, nfd
}

// LoggingConfig contains log record options.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Strategy: string(compare.CrossBackend),
		Compare: CompareConfig{
			ContextWindow:   10,
			IndentTolerance: 0.05,
			Normalization:   string(extract.NormalizeNone),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that every enumerated value is known.
func (c *Config) Validate() error {
	if _, err := compare.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if _, err := extract.ParseNormalization(c.Compare.Normalization); err != nil {
		return err
	}
	if c.Compare.ContextWindow < 0 {
		return fmt.Errorf("context_window must not be negative: %d", c.Compare.ContextWindow)
	}
	if c.Compare.IndentTolerance < 0 {
		return fmt.Errorf("indent_tolerance must not be negative: %g", c.Compare.IndentTolerance)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return err
	}
	return nil
}

// CompareOptions returns the comparator options of the configuration.
func (c *Config) CompareOptions() (compare.Options, error) {
	strategy, err := compare.ParseStrategy(c.Strategy)
	if err != nil {
		return compare.Options{}, err
	}
	opts := compare.DefaultOptions()
	opts.Strategy = strategy
	if c.Compare.ContextWindow > 0 {
		opts.ContextWindow = c.Compare.ContextWindow
	}
	opts.IndentTolerance = c.Compare.IndentTolerance
	return opts, nil
}

// ExtractOptions returns the extractor options of the configuration.
func (c *Config) ExtractOptions() (extract.Options, error) {
	n, err := extract.ParseNormalization(c.Compare.Normalization)
	if err != nil {
		return extract.Options{}, err
	}
	return extract.Options{Normalization: n}, nil
}

// DiagConfig returns the diagnostics log configuration.
func (c *Config) DiagConfig() diag.Config {
	return diag.Config{
		LogOnlyPriorityZero: c.Diagnostics.LogOnlyPriorityZero,
		LogPath:             c.Diagnostics.LogPath,
		SummaryPath:         c.Diagnostics.SummaryPath,
	}
}

// Keys lists the keys accepted by Set.
var Keys = []string{
	"strategy",
	"diagnostics.log_only_priority_zero",
	"diagnostics.log_path",
	"diagnostics.summary_path",
	"compare.context_window",
	"compare.indent_tolerance",
	"compare.normalization",
	"logging.level",
	"logging.format",
}

// IsKey reports whether key is accepted by Set.
func IsKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Set updates one key from its string form and validates the result.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "strategy":
		s, err := compare.ParseStrategy(value)
		if err != nil {
			return err
		}
		next.Strategy = string(s)
	case "diagnostics.log_only_priority_zero":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		next.Diagnostics.LogOnlyPriorityZero = b
	case "diagnostics.log_path":
		next.Diagnostics.LogPath = value
	case "diagnostics.summary_path":
		next.Diagnostics.SummaryPath = value
	case "compare.context_window":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		next.Compare.ContextWindow = n
	case "compare.indent_tolerance":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %s", value)
		}
		next.Compare.IndentTolerance = f
	case "compare.normalization":
		next.Compare.Normalization = strings.ToLower(value)
	case "logging.level":
		next.Logging.Level = strings.ToLower(value)
	case "logging.format":
		next.Logging.Format = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
