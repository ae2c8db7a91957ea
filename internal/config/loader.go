package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the clicker configuration.
// Search order: customPath -> ~/.clicker/configs/clicker.yaml -> ./configs/clicker.yaml -> embedded default
//
// Files are decoded over the defaults, so a file may set only the keys it
// cares about. A custom path that is missing, unparsable or invalid is an
// error; the other locations are skipped when unusable.
func Load(customPath string) (ClickerConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ClickerConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decode(data)
		if err != nil {
			return ClickerConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("clicker.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decode(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "clicker.yaml")); err == nil {
		if cfg, err := decode(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decode(defaultClickerYAML)
	if err != nil {
		return DefaultClickerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decode parses data over the hardcoded defaults and validates the result.
func decode(data []byte) (ClickerConfig, error) {
	cfg := DefaultClickerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ClickerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ClickerConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".clicker", "configs", filename)
}
