// Package config handles configuration loading for the assistant. It
// supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all assistant configuration.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Amap      AmapConfig      `mapstructure:"amap"`
	Model     ModelConfig     `mapstructure:"model"`
	Skills    SkillsConfig    `mapstructure:"skills"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
}

// AnthropicConfig holds model-provider settings.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// AmapConfig holds map-provider settings.
type AmapConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// ModelConfig selects the chat model.
type ModelConfig struct {
	Name      string `mapstructure:"name"`
	MaxTokens int64  `mapstructure:"max_tokens"`
}

// SkillsConfig locates the skill catalog.
type SkillsConfig struct {
	Dir string `mapstructure:"dir"`
}

// DefaultsConfig holds per-request defaults.
type DefaultsConfig struct {
	// Mode selects the controller: pipeline, steps, delegate, graph, or
	// skills.
	Mode     string `mapstructure:"mode"`
	MaxTurns int    `mapstructure:"max_turns"`
}

// Load loads configuration with the usual precedence: environment variables,
// then the project .locationqa.yaml, then the user config, then built-in
// defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
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
	v.BindEnv("amap.api_key", "AMAP_MAPS_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.Amap.APIKey = os.ExpandEnv(cfg.Amap.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
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
	cfg.Amap.APIKey = os.ExpandEnv(cfg.Amap.APIKey)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("amap.api_key", cfg.Amap.APIKey)
	v.Set("model.name", cfg.Model.Name)
	v.Set("model.max_tokens", cfg.Model.MaxTokens)
	v.Set("skills.dir", cfg.Skills.Dir)
	v.Set("defaults.mode", cfg.Defaults.Mode)
	v.Set("defaults.max_turns", cfg.Defaults.MaxTurns)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// DefaultSkillsDir returns the default skill catalog directory.
func DefaultSkillsDir() string {
	return filepath.Join(getUserConfigDir(), "skills")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("amap.api_key", "")

	v.SetDefault("model.name", "claude-sonnet-4-5")
	v.SetDefault("model.max_tokens", 8192)

	v.SetDefault("skills.dir", "")

	v.SetDefault("defaults.mode", "pipeline")
	v.SetDefault("defaults.max_turns", 16)
}

func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "locationqa")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "locationqa")
	}
	return filepath.Join(home, ".config", "locationqa")
}

// findProjectConfig searches for .locationqa.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".locationqa.yaml")
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
