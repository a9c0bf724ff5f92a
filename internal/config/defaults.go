package config

import (
	_ "embed"
)

//go:embed defaults/smiletris.yaml
var defaultSmiletrisYAML []byte

// DefaultSmiletrisConfig returns the default Smiletris configuration.
func DefaultSmiletrisConfig() SmiletrisConfig {
	return SmiletrisConfig{
		Grid: SmiletrisGrid{
			Width:  8,
			Height: 19,
		},
		Timing: SmiletrisTiming{
			FallMs:    650,
			DeleteMs:  650,
			GravityMs: 50,
			DownMs:    50,
		},
		Rules: SmiletrisRules{
			AlignLength: 4,
			ColorMax:    3,
			SpawnRow:    0,
		},
		Levels: SmiletrisLevels{
			SmileyFloor: 4,
			SmileyMin:   5,
			MaxLevel:    35,
			Coef:        3.0,
			Step:        5,
			Buttons:     8,
		},
		Events: SmiletrisEvents{
			Enabled:       true,
			AverageDelay:  45,
			Selection:     20,
			DurationMin:   3,
			DurationMax:   5,
			DurationUnit:  6,
			GhostDuration: 2,
			StoneCapacity: 5,
			BlockerWidth:  4,
			BlockerHeight: 4,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 35,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				MinFallMs:       200,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSmiletrisYAML
}
