package config

import (
	"math"
	"time"
)

// DifficultyManager calculates the capsule fall delay from level or score.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on the
// campaign level or score.
func (d *DifficultyManager) Level(level, score int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "level":
		progress = float64(level) / maxAt
	case "score":
		progress = float64(score) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the fall speed multiplier, from 1 up to 1+speed_multiplier.
func (d *DifficultyManager) Speed(level, score int) float64 {
	return 1.0 + d.Level(level, score)*d.cfg.Scaling.SpeedMultiplier
}

// FallDelay scales the base fall step by Speed, never below min_fall_ms
// unless base itself is shorter.
func (d *DifficultyManager) FallDelay(base time.Duration, level, score int) time.Duration {
	delay := time.Duration(float64(base) / d.Speed(level, score))
	floor := time.Duration(d.cfg.Scaling.MinFallMs) * time.Millisecond
	if floor > base {
		floor = base
	}
	if delay < floor {
		delay = floor
	}
	return delay
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
