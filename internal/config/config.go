// Package config loads unilang settings from flags, environment variables,
// .env files and an optional unilang.yaml file.
//
// Precedence, highest first: bound command-line flags, UNILANG_* environment
// variables (including those set by .env files), the configuration file,
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"unilang/internal/interner"
	"unilang/internal/logger"
	"unilang/internal/validation"
)

// EnvPrefix is the prefix of every environment variable read by unilang.
const EnvPrefix = "UNILANG"

// FileName is the base name of the configuration file, without extension.
const FileName = "unilang"

// Configuration keys. Flags are bound under the same names.
const (
	KeyLogLevel         = "log-level"
	KeyLogFile          = "log-file"
	KeyTestMode         = "test-mode"
	KeyInternerCapacity = "interner-capacity"
	KeyPatternCacheSize = "pattern-cache-size"
	KeyCatalog          = "catalog"
	KeyNoBuiltin        = "no-builtin"
)

// Config holds the resolved settings of a unilang process.
type Config struct {
	LogLevel         string   `mapstructure:"log-level"`
	LogFile          string   `mapstructure:"log-file"`
	TestMode         bool     `mapstructure:"test-mode"`
	InternerCapacity int      `mapstructure:"interner-capacity"`
	PatternCacheSize int      `mapstructure:"pattern-cache-size"`
	Catalogs         []string `mapstructure:"catalog"`
	NoBuiltin        bool     `mapstructure:"no-builtin"`
}

// NewViper returns a viper instance with unilang defaults and environment
// binding applied. UNILANG_INTERNER_CAPACITY maps to "interner-capacity".
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTestMode, false)
	v.SetDefault(KeyInternerCapacity, interner.DefaultCapacity)
	v.SetDefault(KeyPatternCacheSize, validation.DefaultPatternCacheSize)
	v.SetDefault(KeyCatalog, []string{})
	v.SetDefault(KeyNoBuiltin, false)
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables that are already set win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		logger.Debug("Loaded env file", "path", path)
	}
	return nil
}

// DefaultDotEnvPaths returns the .env files consulted at startup: the one in
// the working directory first, then the one in the user configuration directory.
func DefaultDotEnvPaths() []string {
	paths := []string{".env"}
	if dir, err := UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	return paths
}

// UserConfigDir returns $XDG_CONFIG_HOME/unilang, falling back to ~/.config/unilang.
func UserConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, FileName), nil
}

// ReadFile reads the configuration file into v. An explicit path must exist;
// without one, unilang.yaml is searched in the working directory and the user
// configuration directory, and its absence is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := UserConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	logger.Debug("Loaded config file", "path", v.ConfigFileUsed())
	return nil
}

// Load reads the configuration file into v and returns the validated settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings currently held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that cannot be applied.
func (c *Config) Validate() error {
	if c.InternerCapacity <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyInternerCapacity, c.InternerCapacity)
	}
	if c.PatternCacheSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyPatternCacheSize, c.PatternCacheSize)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%s must be one of debug, info, warn, error or fatal, got %q", KeyLogLevel, c.LogLevel)
	}
	return nil
}
