// Package manifest loads loom.toml emit manifests.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest describes one emit run: the program name, an optional target
// triple and the set of output targets.
type Manifest struct {
	Path    string
	Root    string
	Program ProgramConfig  `toml:"program"`
	Targets []TargetConfig `toml:"target"`
}

// ProgramConfig names the assembled program.
type ProgramConfig struct {
	Name   string `toml:"name"`
	Triple string `toml:"triple"`
}

// TargetConfig selects a built-in sample library set and an output path.
type TargetConfig struct {
	Name   string `toml:"name"`
	Output string `toml:"output"`
}

// Find walks upward from startDir looking for loom.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "loom.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	m.Path = path
	m.Root = filepath.Dir(path)
	if m.Program.Name == "" {
		return nil, fmt.Errorf("%q: program.name is required", path)
	}
	if len(m.Targets) == 0 {
		return nil, fmt.Errorf("%q: at least one [[target]] is required", path)
	}
	seen := make(map[string]bool, len(m.Targets))
	for i, tgt := range m.Targets {
		if tgt.Name == "" {
			return nil, fmt.Errorf("%q: target %d has no name", path, i)
		}
		if seen[tgt.Name] {
			return nil, fmt.Errorf("%q: duplicate target %q", path, tgt.Name)
		}
		seen[tgt.Name] = true
		if tgt.Output == "" {
			m.Targets[i].Output = tgt.Name + ".ll"
		}
	}
	return &m, nil
}
