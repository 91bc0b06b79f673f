// Package parsec holds the configuration shared by the parsec command and
// its case runner.
package parsec

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/parsec/runner"
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultConfigFile is the configuration file read when none is given.
const DefaultConfigFile = "parsec.yaml"

var (
	validColors    = []string{ColorAuto, ColorAlways, ColorNever}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Config represents the parsec configuration
type Config struct {
	DefaultParser string      `yaml:"default_parser" toml:"default_parser"`
	Trace         bool        `yaml:"trace" toml:"trace"`
	Crosscheck    bool        `yaml:"crosscheck" toml:"crosscheck"`
	Color         string      `yaml:"color" toml:"color"`
	LogLevel      string      `yaml:"log_level" toml:"log_level"`
	Cases         CasesConfig `yaml:"cases" toml:"cases"`
	Watch         WatchConfig `yaml:"watch" toml:"watch"`
}

// CasesConfig selects the case files run by the check command
type CasesConfig struct {
	Paths []string `yaml:"paths" toml:"paths"`
	Run   string   `yaml:"run" toml:"run"`
}

// WatchConfig represents watch mode settings
type WatchConfig struct {
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// DebounceInterval returns the parsed debounce duration, falling back to the
// runner default when the value is empty or invalid.
func (w WatchConfig) DebounceInterval() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return runner.DefaultDebounce
	}

	return d
}

// SlogLevel converts LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads configuration from the specified file. Files ending in
// .toml are decoded as TOML, everything else as YAML.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		err = decodeTOML(data, &config)
	} else {
		// Strict mode detects unknown fields
		err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// decodeTOML decodes data and rejects keys that do not map to a field.
func decodeTOML(data []byte, config *Config) error {
	meta, err := toml.Decode(string(data), config)
	if err != nil {
		return err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}

		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, strings.Join(keys, ", "))
	}

	return nil
}

// Validate checks the configuration for unknown names and malformed values.
// Empty values are allowed; they are filled in by defaults.
func (c *Config) Validate() error {
	if c.Color != "" && !slices.Contains(validColors, c.Color) {
		return fmt.Errorf("%w: invalid color '%s': must be one of %s", ErrConfigValidation, c.Color, strings.Join(validColors, ", "))
	}

	if c.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w: invalid log_level '%s': must be one of %s", ErrConfigValidation, c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.DefaultParser != "" && !runner.KnownParser(c.DefaultParser) {
		return fmt.Errorf("%w: unknown default_parser '%s'", ErrConfigValidation, c.DefaultParser)
	}

	if c.Cases.Run != "" {
		if _, err := regexp.Compile(c.Cases.Run); err != nil {
			return fmt.Errorf("%w: invalid cases.run pattern: %w", ErrConfigValidation, err)
		}
	}

	if c.Watch.Debounce != "" {
		d, err := time.ParseDuration(c.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("%w: invalid watch.debounce: %w", ErrConfigValidation, err)
		}

		if d <= 0 {
			return fmt.Errorf("%w: watch.debounce must be positive", ErrConfigValidation)
		}
	}

	return nil
}

func getDefaultConfig() *Config {
	return &Config{
		DefaultParser: "expr",
		Color:         ColorAuto,
		LogLevel:      "info",
		Watch: WatchConfig{
			Debounce: runner.DefaultDebounce.String(),
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.DefaultParser == "" {
		config.DefaultParser = defaults.DefaultParser
	}

	if config.Color == "" {
		config.Color = defaults.Color
	}

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.Watch.Debounce == "" {
		config.Watch.Debounce = defaults.Watch.Debounce
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in path settings
func expandConfigEnvVars(config *Config) {
	for i, path := range config.Cases.Paths {
		config.Cases.Paths[i] = expandEnvVars(path)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
