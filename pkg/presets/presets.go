package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
	"gopkg.in/yaml.v3"
)

// Package presets loads named feed shortcuts from YAML/JSON files.

// Preset is one named feed with its preferred listing options.
type Preset struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Feed       string `json:"feed" yaml:"feed"`
	Sort       string `json:"sort" yaml:"sort"`
	TimeWindow string `json:"time_window" yaml:"time_window"`
	Limit      int    `json:"limit" yaml:"limit"`
}

type presetFile struct {
	Presets []Preset `json:"presets" yaml:"presets"`
}

// Registry is an immutable, indexed set of presets.
type Registry struct {
	mu      sync.RWMutex
	presets []Preset
	idx     map[string]Preset
}

// Empty returns a registry with no presets.
func Empty() *Registry {
	return &Registry{idx: map[string]Preset{}}
}

// LoadRegistry loads presets from path. An empty path yields an empty registry.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Empty(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	pf, err := parsePresetFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(pf.Presets) == 0 {
		return nil, errors.New("presets file contains no presets entries")
	}

	reg := &Registry{
		presets: make([]Preset, 0, len(pf.Presets)),
		idx:     make(map[string]Preset, len(pf.Presets)),
	}
	for i := range pf.Presets {
		p := sanitizePreset(pf.Presets[i])
		if err := validatePreset(p); err != nil {
			return nil, fmt.Errorf("presets[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate preset id %q", p.ID)
		}
		reg.presets = append(reg.presets, p)
		reg.idx[p.ID] = p
	}
	return reg, nil
}

func parsePresetFile(data []byte, ext string) (presetFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
		{ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var pf presetFile
		if err := d.fn(data, &pf); err != nil {
			lastErr = err
			continue
		}
		return pf, nil
	}

	if lastErr != nil {
		return presetFile{}, fmt.Errorf("presets file format not recognized (expected YAML or JSON): %w", lastErr)
	}
	return presetFile{}, errors.New("presets file format not recognized (expected YAML or JSON)")
}

func sanitizePreset(p Preset) Preset {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Feed = strings.TrimSpace(p.Feed)
	p.Sort = string(domain.ParseSort(p.Sort))
	p.TimeWindow = string(domain.ParseTimeWindow(p.TimeWindow))
	if p.Limit == 0 {
		p.Limit = domain.DefaultLimit
	}
	p.Limit = domain.ClampLimit(p.Limit)
	if p.Name == "" {
		p.Name = p.Feed
	}
	return p
}

func validatePreset(p Preset) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Feed == "" {
		return fmt.Errorf("feed is required for preset %q", p.ID)
	}
	return nil
}

// ByID returns the preset with the given id.
func (r *Registry) ByID(id string) (Preset, bool) {
	if r == nil {
		return Preset{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Preset{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns every preset in file order.
func (r *Registry) All() []Preset {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Preset, len(r.presets))
	copy(out, r.presets)
	return out
}

// Apply overlays the preset's feed options onto in, keeping credentials and layout.
func (p Preset) Apply(in domain.ViewInput) domain.ViewInput {
	in.Feed = p.Feed
	in.Sort = p.Sort
	in.TimeWindow = p.TimeWindow
	in.Limit = strconv.Itoa(p.Limit)
	return in
}
