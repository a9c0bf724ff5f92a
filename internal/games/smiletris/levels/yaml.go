package levels

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/smiletris/internal/games/smiletris/engine"
)

// yamlLevel represents the YAML structure for a level file.
type yamlLevel struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Size    yamlSize     `yaml:"size"`
	Smileys []yamlSmiley `yaml:"smileys"`
}

// yamlSize represents grid dimensions.
type yamlSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// yamlSmiley represents a single smiley in YAML format.
type yamlSmiley struct {
	X int    `yaml:"x"`
	Y int    `yaml:"y"`
	C string `yaml:"c"` // Color name or code
}

var colorNames = map[string]engine.Color{
	"yellow": engine.ColorYellow,
	"blue":   engine.ColorBlue,
	"purple": engine.ColorPurple,
	"green":  engine.ColorGreen,
}

// ParseColor accepts a smiley color name (yellow, blue, purple, green) or
// its code 2..5.
func ParseColor(s string) (engine.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colorNames[s]; ok {
		return c, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(engine.ColorYellow) || n > int(engine.ColorGreen) {
		return engine.ColorEmpty, fmt.Errorf("unknown smiley color %q", s)
	}
	return engine.Color(n), nil
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("level has no id")
	}

	level := Level{
		ID:      yl.ID,
		Name:    yl.Name,
		Width:   yl.Size.W,
		Height:  yl.Size.H,
		Smileys: make([]engine.Placement, 0, len(yl.Smileys)),
	}
	if level.Name == "" {
		level.Name = yl.ID
	}

	for i, s := range yl.Smileys {
		c, err := ParseColor(s.C)
		if err != nil {
			return Level{}, fmt.Errorf("smiley %d: %w", i, err)
		}
		level.Smileys = append(level.Smileys, engine.Placement{X: s.X, Y: s.Y, Color: c})
	}

	return level, nil
}
