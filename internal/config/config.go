// Package config provides YAML-based game configuration loading and
// difficulty management for Smiletris.
package config

import "fmt"

// SmiletrisConfig contains all configuration for the Smiletris game.
type SmiletrisConfig struct {
	Grid       SmiletrisGrid    `yaml:"grid"`
	Timing     SmiletrisTiming  `yaml:"timing"`
	Rules      SmiletrisRules   `yaml:"rules"`
	Levels     SmiletrisLevels  `yaml:"levels"`
	Events     SmiletrisEvents  `yaml:"events"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SmiletrisGrid defines the board size in cells.
type SmiletrisGrid struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SmiletrisTiming defines tick delays in milliseconds.
type SmiletrisTiming struct {
	FallMs    int `yaml:"fall_ms"`    // Capsule fall step
	DeleteMs  int `yaml:"delete_ms"`  // Frame showing destroyed cells
	GravityMs int `yaml:"gravity_ms"` // Cell fall step while settling
	DownMs    int `yaml:"down_ms"`    // Capsule fall step with soft drop held
}

// SmiletrisRules defines matching and spawning rules.
type SmiletrisRules struct {
	AlignLength int `yaml:"align_length"`
	ColorMax    int `yaml:"color_max"`
	SpawnRow    int `yaml:"spawn_row"`
}

// SmiletrisLevels defines the smiley count curve and the level selector.
type SmiletrisLevels struct {
	SmileyFloor int     `yaml:"smiley_floor"` // First row smileys may appear on
	SmileyMin   int     `yaml:"smiley_min"`   // Smileys on level 0
	MaxLevel    int     `yaml:"max_level"`    // Level where the board is full of smileys
	Coef        float64 `yaml:"coef"`
	Step        int     `yaml:"step"`    // Level gap between selector entries
	Buttons     int     `yaml:"buttons"` // Number of selector entries
}

// SmiletrisEvents defines the timed event cycle. Counts are in capsule
// steps.
type SmiletrisEvents struct {
	Enabled       bool `yaml:"enabled"`
	AverageDelay  int  `yaml:"average_delay"`
	Selection     int  `yaml:"selection"`
	DurationMin   int  `yaml:"duration_min"`
	DurationMax   int  `yaml:"duration_max"`
	DurationUnit  int  `yaml:"duration_unit"`
	GhostDuration int  `yaml:"ghost_duration"`
	StoneCapacity int  `yaml:"stone_capacity"`
	BlockerWidth  int  `yaml:"blocker_width"`
	BlockerHeight int  `yaml:"blocker_height"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a campaign.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level", "score", or "none"
	MaxAt int    `yaml:"max_at"` // Level/score at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Fall speed added at max difficulty
	MinFallMs       int     `yaml:"min_fall_ms"`      // Fastest allowed fall step
}

// Validate rejects boards and timings the game cannot run with.
func (c SmiletrisConfig) Validate() error {
	if c.Grid.Width < 4 || c.Grid.Height < 6 {
		return fmt.Errorf("invalid grid %dx%d: need at least 4x6", c.Grid.Width, c.Grid.Height)
	}
	if c.Timing.FallMs <= 0 || c.Timing.DeleteMs <= 0 || c.Timing.GravityMs <= 0 || c.Timing.DownMs <= 0 {
		return fmt.Errorf("invalid timing: every delay must be positive")
	}
	if c.Rules.ColorMax < 1 || c.Rules.ColorMax > 4 {
		return fmt.Errorf("invalid color_max %d: must be 1..4", c.Rules.ColorMax)
	}
	if c.Rules.AlignLength < 2 {
		return fmt.Errorf("invalid align_length %d: must be at least 2", c.Rules.AlignLength)
	}
	if c.Levels.SmileyFloor <= c.Rules.SpawnRow || c.Levels.SmileyFloor >= c.Grid.Height {
		return fmt.Errorf("invalid smiley_floor %d for a %d-row grid", c.Levels.SmileyFloor, c.Grid.Height)
	}
	if c.Levels.MaxLevel < 1 || c.Levels.Step < 1 {
		return fmt.Errorf("invalid levels: max_level and step must be positive")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (use easy, normal, hard or fixed)", name)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
