// Package config handles configuration loading for foiabuddy.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for foiabuddy.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
	History   HistoryConfig   `mapstructure:"history"`
	Events    EventsConfig    `mapstructure:"events"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// CorpusConfig holds document corpus settings.
type CorpusConfig struct {
	// Dir is the root directory of the records corpus.
	Dir string `mapstructure:"dir"`
	// Watch enables filesystem watching for corpus changes.
	Watch bool `mapstructure:"watch"`
}

// TimeoutsConfig holds execution timeout settings.
type TimeoutsConfig struct {
	// Agent bounds one agent invocation.
	Agent time.Duration `mapstructure:"agent"`
	// LLM bounds the analysis completion.
	LLM time.Duration `mapstructure:"llm"`
}

// HistoryConfig holds run-history settings.
type HistoryConfig struct {
	// Enabled toggles saving finished runs.
	Enabled bool `mapstructure:"enabled"`
	// Path overrides the default history database location.
	Path string `mapstructure:"path"`
}

// EventsConfig holds event stream settings.
type EventsConfig struct {
	// BufferSize is the emitter channel capacity.
	BufferSize int `mapstructure:"buffer_size"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.foiabuddy.yaml in current directory or parent)
// 3. User config (~/.config/foiabuddy/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over user config.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.use_aws_bedrock", "CLAUDE_CODE_USE_BEDROCK")
	v.BindEnv("anthropic.aws_region", "AWS_REGION")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.use_aws_bedrock", false)

	v.SetDefault("corpus.dir", "documents")
	v.SetDefault("corpus.watch", true)

	v.SetDefault("timeouts.agent", "5m")
	v.SetDefault("timeouts.llm", "2m")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("events.buffer_size", 256)
}

// getUserConfigDir returns the XDG config directory for foiabuddy.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "foiabuddy")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "foiabuddy")
	}
	return filepath.Join(home, ".config", "foiabuddy")
}

// findProjectConfig searches for .foiabuddy.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".foiabuddy.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model: "claude-sonnet-4-20250514",
		},
		Corpus: CorpusConfig{
			Dir:   "documents",
			Watch: true,
		},
		Timeouts: TimeoutsConfig{
			Agent: 5 * time.Minute,
			LLM:   2 * time.Minute,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Events: EventsConfig{
			BufferSize: 256,
		},
	}
}
