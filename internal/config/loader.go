package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = ".typodiff"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
)

// Environment variables that override the configuration file.
const (
	EnvStrategy = "TYPODIFF_STRATEGY"
	EnvLogPath  = "TYPODIFF_LOG"
	EnvP0Only   = "TYPODIFF_P0_ONLY"
)

// EnvVar is one environment override and the configuration key it replaces.
type EnvVar struct {
	Name string
	Key  string
}

// EnvVars lists the environment overrides applied by ApplyEnv.
var EnvVars = []EnvVar{
	{Name: EnvStrategy, Key: "strategy"},
	{Name: EnvLogPath, Key: "diagnostics.log_path"},
	{Name: EnvP0Only, Key: "diagnostics.log_only_priority_zero"},
}

// ErrConfigExists is returned by Init when the file exists and force is
// not set.
var ErrConfigExists = errors.New("config file already exists")

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Loader reads and writes one configuration file.
type Loader struct {
	path string
}

// NewLoader creates a loader for ~/.typodiff/config.yaml.
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewLoaderWithPath(filepath.Join(homeDir, ConfigDirName, ConfigFileName)), nil
}

// NewLoaderWithPath creates a loader with a custom config path.
func NewLoaderWithPath(configPath string) *Loader {
	return &Loader{path: configPath}
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.path
}

// Load reads the configuration file, expanding ${VAR} references. A
// missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	return l.read(true)
}

// LoadRaw reads the configuration without expanding environment variables,
// so that a saved file keeps its ${VAR} references.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(false)
}

// LoadEffective loads the configuration, applies environment overrides and
// validates the result.
func (l *Loader) LoadEffective() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (l *Loader) read(expand bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	text := string(data)
	if expand {
		text = expandEnvVars(text)
	}

	// keys missing from the file keep their defaults
	if err := yaml.Unmarshal([]byte(text), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration, creating its directory when needed.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file exists.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Init writes the default configuration. An existing file is only
// replaced when force is set.
func (l *Loader) Init(force bool) error {
	if l.Exists() && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, l.path)
	}
	return l.Save(DefaultConfig())
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ApplyEnv applies environment variable overrides to cfg.
func ApplyEnv(cfg *Config) {
	cfg.Strategy = GetEnvOrDefault(EnvStrategy, cfg.Strategy)
	cfg.Diagnostics.LogPath = GetEnvOrDefault(EnvLogPath, cfg.Diagnostics.LogPath)
	if os.Getenv(EnvP0Only) != "" {
		cfg.Diagnostics.LogOnlyPriorityZero = GetEnvBool(EnvP0Only)
	}
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool returns true if the environment variable is set to "true",
// "1" or "yes".
func GetEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
