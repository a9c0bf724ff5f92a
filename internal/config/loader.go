package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "smiletris.yaml"

// LoadSmiletris loads Smiletris configuration. Fields missing from a file keep
// their default values.
// Search order: customPath -> ~/.smiletris/configs/smiletris.yaml -> ./configs/smiletris.yaml -> embedded default
func LoadSmiletris(customPath string) (SmiletrisConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg := DefaultSmiletrisConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		if cfg, ok := tryLoad(path); ok {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := DefaultSmiletrisConfig()
	if err := yaml.Unmarshal(defaultSmiletrisYAML, &cfg); err != nil {
		return DefaultSmiletrisConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are skipped.
func tryLoad(path string) (SmiletrisConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SmiletrisConfig{}, false
	}
	cfg := DefaultSmiletrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SmiletrisConfig{}, false
	}
	if cfg.Validate() != nil {
		return SmiletrisConfig{}, false
	}
	return cfg, true
}

// UserDir returns ~/.smiletris, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".smiletris")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// ApplySmiletrisPreset modifies the config based on a difficulty preset.
func ApplySmiletrisPreset(cfg *SmiletrisConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Events.Enabled = false
		cfg.Timing.FallMs = cfg.Timing.FallMs * 5 / 4
	case DifficultyHard:
		cfg.Events.AverageDelay = cfg.Events.AverageDelay * 2 / 3
		cfg.Rules.ColorMax = min(cfg.Rules.ColorMax+1, 4)
	}
}
