// Package levels loads custom Smiletris boards from YAML files.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/smiletris/internal/games/smiletris/engine"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Level is a custom board: a fixed set of smileys on an empty grid.
type Level struct {
	ID       string
	Name     string
	Width    int // 0 means the configured grid width
	Height   int // 0 means the configured grid height
	Smileys  []engine.Placement
	FilePath string
}

// Validate checks the level against a grid size.
func (l Level) Validate(width, height int) error {
	if (l.Width != 0 && l.Width != width) || (l.Height != 0 && l.Height != height) {
		return fmt.Errorf("level %s is %dx%d, grid is %dx%d", l.ID, l.Width, l.Height, width, height)
	}
	if len(l.Smileys) == 0 {
		return fmt.Errorf("level %s has no smileys", l.ID)
	}
	for _, s := range l.Smileys {
		if s.X < 0 || s.X >= width || s.Y < 0 || s.Y >= height {
			return fmt.Errorf("level %s: smiley at (%d,%d) is off the grid", l.ID, s.X, s.Y)
		}
	}
	return nil
}

// Loader handles loading levels from a directory tree.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader for a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: root}
}

// Builtin returns a loader over the levels shipped with the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return &Loader{fsys: sub}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(path.Ext(p)) {
			return nil
		}

		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			return nil
		}
		level, err := ParseYAML(data)
		if err != nil {
			return nil
		}
		if l.root != "" {
			level.FilePath = filepath.Join(l.root, filepath.FromSlash(p))
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking levels %s: %w", l.root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// LoadFile loads a single level file.
func LoadFile(p string) (Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	if !isSupportedExtension(filepath.Ext(p)) {
		return Level{}, fmt.Errorf("unsupported extension: %s", filepath.Ext(p))
	}

	level, err := ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	level.FilePath = p
	return level, nil
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
