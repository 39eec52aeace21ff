// Package level loads mailroom puzzles.
//
// A level bundles everything a run needs besides the program: the initial
// inbox and floor, the expected outbox, and the floor aliases a program for
// the level may use. Levels are YAML documents or Starlark scripts.
package level

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/mailroom/machine"
	"github.com/ezrec/mailroom/value"
	"github.com/ezrec/mailroom/worker"
)

// FloorSize is the width and height of the floor grid.
type FloorSize struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Cells returns the number of floor slots, or zero for an unbounded floor.
func (size FloorSize) Cells() int {
	return size.X * size.Y
}

// Level is a single puzzle.
type Level struct {
	Name        string         `yaml:"name"`
	Summary     string         `yaml:"summary,omitempty"`
	Description string         `yaml:"description,omitempty"`
	FloorSize   FloorSize      `yaml:"floor_size"`
	Aliases     map[string]int `yaml:"aliases,omitempty"`
	Floor       worker.Floor   `yaml:"floor,omitempty"`
	Inbox       []value.Value  `yaml:"inbox"`
	Expected    []value.Value  `yaml:"expected"`
}

// Validate checks that every floor slot and alias fits the floor.
func (lvl *Level) Validate() (err error) {
	cells := lvl.FloorSize.Cells()
	inRange := func(addr int) bool {
		return addr >= 0 && (cells == 0 || addr < cells)
	}

	for addr := range lvl.Floor.All() {
		if !inRange(addr) {
			return fmt.Errorf("%w: floor %d", ErrLevelAddress, addr)
		}
	}

	for name, addr := range lvl.Aliases {
		if !inRange(addr) {
			return fmt.Errorf("%w: alias %v=%d", ErrLevelAddress, name, addr)
		}
	}

	return
}

// Apply sets the machine field to the level.
func (lvl *Level) Apply(m *machine.Machine) {
	m.SetField(lvl.Inbox, lvl.Floor, lvl.Expected)
}

// Options control level loading.
type Options struct {
	Verbose bool   // If set, enables verbose logging.
	Seed    uint64 // Seed of the Starlark rand() builtin.
}

// Load reads a level from a file system.
func Load(fsys fs.FS, path string) (lvl *Level, err error) {
	return Options{}.Load(fsys, path)
}

// Load reads a level from a file system, dispatching on the file extension.
func (opts Options) Load(fsys fs.FS, path string) (lvl *Level, err error) {
	defer func() {
		if err != nil {
			lvl = nil
			err = &ErrLevel{Path: path, Err: err}
		}
	}()

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		lvl, err = LoadYAML(data)
	case ".star":
		lvl, err = opts.LoadStarlark(path, data)
	default:
		err = ErrLevelFormat
		return
	}
	if err != nil {
		return
	}

	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	err = lvl.Validate()
	if err != nil {
		return
	}

	if opts.Verbose {
		log.Debugf("level: %v: %d inbox, %d expected, %d aliases", lvl.Name, len(lvl.Inbox), len(lvl.Expected), len(lvl.Aliases))
	}

	return
}
