package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"layerspeed/internal/session"
)

type planFile struct {
	Edits []planEdit `toml:"edit"`
}

type planEdit struct {
	File  string `toml:"file"`
	Layer *int64 `toml:"layer"`
	Speed *int64 `toml:"speed"`
}

// loadPlan decodes a plan file into requests. Relative file paths are
// resolved against the plan's directory; a missing speed uses defaultSpeed.
func loadPlan(path string, defaultSpeed uint64) ([]session.Request, error) {
	var pf planFile
	meta, err := toml.DecodeFile(path, &pf)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if len(pf.Edits) == 0 {
		return nil, fmt.Errorf("%s: no [[edit]] entries", path)
	}

	root := filepath.Dir(path)
	reqs := make([]session.Request, 0, len(pf.Edits))
	for i, e := range pf.Edits {
		where := fmt.Sprintf("%s: edit #%d", path, i+1)
		file := strings.TrimSpace(e.File)
		if file == "" {
			return nil, fmt.Errorf("%s: missing file", where)
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, filepath.FromSlash(file))
		}
		if e.Layer == nil {
			return nil, fmt.Errorf("%s: missing layer", where)
		}
		layer, err := safecast.Conv[uint64](*e.Layer)
		if err != nil {
			return nil, fmt.Errorf("%s: layer must be non-negative: %w", where, err)
		}
		speed := defaultSpeed
		if e.Speed != nil {
			speed, err = safecast.Conv[uint64](*e.Speed)
			if err != nil {
				return nil, fmt.Errorf("%s: speed must be non-negative: %w", where, err)
			}
		}
		reqs = append(reqs, session.Request{
			Path:  file,
			Layer: strconv.FormatUint(layer, 10),
			Speed: strconv.FormatUint(speed, 10),
		})
	}
	return reqs, nil
}
