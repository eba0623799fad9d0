// Package project locates the project configuration and enumerates the
// Python files to check. Rule levels come from [tool.unsound.rules] in
// pyproject.toml or [rules] in unsound.toml, whichever is found first
// walking up from the start directory.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"unsound/internal/rule"
)

// Config is the resolved project configuration.
type Config struct {
	// Path of the file the configuration was read from; empty when no
	// configuration file exists.
	Path string
	// Root is the directory containing the configuration file, or the
	// start directory when none was found.
	Root string
	// Overrides are the rule-level settings. TOML maps carry no order,
	// so entries are sorted by rule name.
	Overrides []rule.Override
	// Exclude holds glob patterns of paths to skip.
	Exclude []string
}

type unsoundToml struct {
	Rules   map[string]string `toml:"rules"`
	Exclude []string          `toml:"exclude"`
}

type pyprojectToml struct {
	Tool struct {
		Unsound unsoundToml `toml:"unsound"`
	} `toml:"tool"`
}

// Discover walks up from startDir looking for unsound.toml or
// pyproject.toml with a [tool.unsound] section. Absence of both is not
// an error: the zero configuration applies.
func Discover(startDir string) (Config, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	start := dir

	for {
		candidate := filepath.Join(dir, "unsound.toml")
		if ok, err := fileExists(candidate); err != nil {
			return Config{}, err
		} else if ok {
			return loadUnsoundToml(candidate)
		}

		candidate = filepath.Join(dir, "pyproject.toml")
		if ok, err := fileExists(candidate); err != nil {
			return Config{}, err
		} else if ok {
			cfg, found, err := loadPyprojectToml(candidate)
			if err != nil {
				return Config{}, err
			}
			if found {
				return cfg, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Config{Root: start}, nil
}

func fileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return false, nil
}

func loadUnsoundToml(path string) (Config, error) {
	var cfg unsoundToml
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return buildConfig(path, cfg), nil
}

func loadPyprojectToml(path string) (Config, bool, error) {
	var cfg pyprojectToml
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("tool", "unsound") {
		return Config{}, false, nil
	}
	return buildConfig(path, cfg.Tool.Unsound), true, nil
}

func buildConfig(path string, cfg unsoundToml) Config {
	out := Config{
		Path:    path,
		Root:    filepath.Dir(path),
		Exclude: cfg.Exclude,
	}

	names := make([]string, 0, len(cfg.Rules))
	for name := range cfg.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Overrides = append(out.Overrides, rule.Override{
			Rule:   name,
			Level:  cfg.Rules[name],
			Source: rule.SourceFile,
			Origin: path,
		})
	}
	return out
}
