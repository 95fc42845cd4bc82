// Package config loads layerspeed.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// FileName is the name searched for in the working directory and its parents.
const FileName = "layerspeed.toml"

// DefaultSpeed is used when neither a flag nor the config supplies a speed.
const DefaultSpeed uint64 = 100

// Config is the decoded and validated configuration.
type Config struct {
	Path string // empty when no file was found

	Speed uint64

	UIMode   string
	StartDir string

	CacheEnabled bool
	CacheDir     string

	TraceLevel  string
	TraceOutput string
}

type fileConfig struct {
	Defaults struct {
		Speed *int64 `toml:"speed"`
	} `toml:"defaults"`
	UI struct {
		Mode     string `toml:"mode"`
		StartDir string `toml:"start_dir"`
	} `toml:"ui"`
	Cache struct {
		Enabled *bool  `toml:"enabled"`
		Dir     string `toml:"dir"`
	} `toml:"cache"`
	Trace struct {
		Level  string `toml:"level"`
		Output string `toml:"output"`
	} `toml:"trace"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Speed:        DefaultSpeed,
		UIMode:       "auto",
		StartDir:     ".",
		CacheEnabled: true,
		TraceLevel:   "off",
		TraceOutput:  "-",
	}
}

// Find walks from startDir up to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
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

// Discover loads the nearest layerspeed.toml above startDir, or Default when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes and validates the file at path. Relative directories in the
// file are resolved against the file's directory.
func Load(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	root := filepath.Dir(path)

	if fc.Defaults.Speed != nil {
		speed, err := safecast.Conv[uint64](*fc.Defaults.Speed)
		if err != nil {
			return Config{}, fmt.Errorf("%s: [defaults].speed must be non-negative: %w", path, err)
		}
		cfg.Speed = speed
	}

	if mode := strings.TrimSpace(strings.ToLower(fc.UI.Mode)); mode != "" {
		switch mode {
		case "auto", "on", "off":
			cfg.UIMode = mode
		default:
			return Config{}, fmt.Errorf("%s: invalid [ui].mode %q (expected auto|on|off)", path, fc.UI.Mode)
		}
	}
	if dir := strings.TrimSpace(fc.UI.StartDir); dir != "" {
		cfg.StartDir = resolve(root, dir)
	}

	if fc.Cache.Enabled != nil {
		cfg.CacheEnabled = *fc.Cache.Enabled
	}
	if dir := strings.TrimSpace(fc.Cache.Dir); dir != "" {
		cfg.CacheDir = resolve(root, dir)
	}

	if lvl := strings.TrimSpace(fc.Trace.Level); lvl != "" {
		cfg.TraceLevel = lvl
	}
	if out := strings.TrimSpace(fc.Trace.Output); out != "" {
		if out == "-" {
			cfg.TraceOutput = out
		} else {
			cfg.TraceOutput = resolve(root, out)
		}
	}
	return cfg, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
