// Package config loads matchninja settings from defaults, an optional YAML
// file, MATCHNINJA_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheerioskun/matchninja/internal/history"
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/scanner"
	"github.com/cheerioskun/matchninja/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working and home
	// directories.
	FileName  = ".matchninja.yaml"
	EnvPrefix = "MATCHNINJA"
)

// Config is the resolved configuration.
type Config struct {
	Verbose         bool     `mapstructure:"verbose" yaml:"verbose"`
	LogFile         string   `mapstructure:"log-file" yaml:"log-file"`
	NoColor         bool     `mapstructure:"no-color" yaml:"no-color"`
	MaxDepth        int      `mapstructure:"max-depth" yaml:"max-depth"`
	Split           string   `mapstructure:"split" yaml:"split"`
	StripTimestamps bool     `mapstructure:"strip-timestamps" yaml:"strip-timestamps"`
	Workers         int      `mapstructure:"workers" yaml:"workers"`
	Format          string   `mapstructure:"format" yaml:"format"`
	Record          bool     `mapstructure:"record" yaml:"record"`
	HistoryPath     string   `mapstructure:"history-path" yaml:"history-path"`
	Patterns        []string `mapstructure:"patterns" yaml:"patterns"`
	TextExtensions  []string `mapstructure:"text-ext" yaml:"text-ext,omitempty"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log-file", utils.DefaultLogPath())
	v.SetDefault("no-color", false)
	v.SetDefault("max-depth", 10)
	v.SetDefault("split", string(models.SplitLines))
	v.SetDefault("strip-timestamps", false)
	v.SetDefault("workers", 0)
	v.SetDefault("format", "")
	v.SetDefault("record", false)
	v.SetDefault("history-path", history.DefaultPath())
	v.SetDefault("patterns", []string{})
	v.SetDefault("text-ext", []string{})
}

// Init wires defaults, environment and the config file into v. cfgFile
// forces a specific file; otherwise FileName is searched in the working
// directory and then the home directory. A missing file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch models.SplitMode(c.Split) {
	case models.SplitLines, models.SplitWords:
	default:
		return fmt.Errorf("invalid split mode %q (want lines or words)", c.Split)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max-depth must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// NewCorpusScanner returns a scanner honouring max-depth and text-ext.
func (c *Config) NewCorpusScanner(fs afero.Fs) *scanner.CorpusScanner {
	cs := scanner.NewCorpusScanner(fs)
	cs.SetMaxDepth(c.MaxDepth)
	for _, ext := range c.TextExtensions {
		cs.AddTextExtension(ext)
	}
	return cs
}

// SplitMode returns the configured split as a typed value.
func (c *Config) SplitMode() models.SplitMode {
	return models.SplitMode(c.Split)
}

// Write saves cfg as YAML at path on fs.
func Write(fs afero.Fs, path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
