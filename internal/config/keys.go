// API key resolution for both providers.
package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAnthropicKey is returned when no Anthropic API key is configured.
var ErrNoAnthropicKey = errors.New("no Anthropic API key configured")

// ErrNoAmapKey is returned when no Amap API key is configured.
var ErrNoAmapKey = errors.New("no Amap API key configured")

// GetAnthropicKey returns the Anthropic API key, environment first.
func GetAnthropicKey(cfg *Config) (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}
	if cfg != nil && cfg.Anthropic.APIKey != "" {
		key := os.ExpandEnv(cfg.Anthropic.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}
	return "", ErrNoAnthropicKey
}

// GetAmapKey returns the Amap API key, environment first.
func GetAmapKey(cfg *Config) (string, error) {
	if key := os.Getenv("AMAP_MAPS_API_KEY"); key != "" {
		return key, nil
	}
	if cfg != nil && cfg.Amap.APIKey != "" {
		key := os.ExpandEnv(cfg.Amap.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}
	return "", ErrNoAmapKey
}

// ValidateAnthropicKey performs format checks without calling the API.
func ValidateAnthropicKey(key string) error {
	if key == "" {
		return ErrNoAnthropicKey
	}
	if !strings.HasPrefix(key, "sk-ant-") {
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	}
	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}
	return nil
}

// MaskAPIKey returns a masked key for display: first seven characters and
// last four.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 15 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}
