// Package presets holds named cooking durations that can be turned into
// timers with a single command. A preset book can be loaded from YAML:
//
//	presets:
//	  - name: Pasta
//	    minutes: 10
//	  - name: Soft-boiled eggs
//	    minutes: 6
//	    seconds: 30
package presets

import (
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPreset is returned for presets without a name or duration
var ErrInvalidPreset = errors.New("invalid preset")

// Preset is a named cooking duration
type Preset struct {
	Name    string `yaml:"name"`
	Minutes int    `yaml:"minutes"`
	Seconds int    `yaml:"seconds"`
}

// DurationSeconds returns the total length of the preset
func (p Preset) DurationSeconds() int {
	return p.Minutes*60 + p.Seconds
}

// Book is an ordered, case-insensitive collection of presets
type Book struct {
	presets []Preset
	index   map[string]int
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Defaults returns the built-in presets
func Defaults() *Book {
	b, err := NewBook([]Preset{
		{Name: "Pasta", Minutes: 10},
		{Name: "Rice", Minutes: 18},
		{Name: "Soft-boiled eggs", Minutes: 6, Seconds: 30},
		{Name: "Hard-boiled eggs", Minutes: 10},
		{Name: "Steak rest", Minutes: 5},
		{Name: "Green tea", Minutes: 2},
		{Name: "Black tea", Minutes: 4},
	})
	if err != nil {
		panic(err)
	}
	return b
}

// NewBook validates presets and builds a book. Later duplicates replace
// earlier ones with the same name
func NewBook(presets []Preset) (*Book, error) {
	b := &Book{index: make(map[string]int)}
	for i, p := range presets {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, errors.Wrapf(ErrInvalidPreset, "preset #%d has no name", i+1)
		}
		if p.Minutes < 0 || p.Seconds < 0 {
			return nil, errors.Wrapf(ErrInvalidPreset, "preset %q must have a positive duration", p.Name)
		}
		if p.Minutes > (math.MaxInt-p.Seconds)/60 {
			return nil, errors.Wrapf(ErrInvalidPreset, "preset %q is too long", p.Name)
		}
		if p.DurationSeconds() <= 0 {
			return nil, errors.Wrapf(ErrInvalidPreset, "preset %q must have a positive duration", p.Name)
		}

		key := strings.ToLower(p.Name)
		if existing, ok := b.index[key]; ok {
			b.presets[existing] = p
			continue
		}
		b.index[key] = len(b.presets)
		b.presets = append(b.presets, p)
	}
	return b, nil
}

// Load reads a preset book from a YAML file
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read presets %s", path)
	}
	return Parse(data)
}

// Parse decodes a preset book from YAML
func Parse(data []byte) (*Book, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse presets")
	}
	return NewBook(f.Presets)
}

// Lookup finds a preset by name, ignoring case and surrounding spaces
func (b *Book) Lookup(name string) (Preset, bool) {
	i, ok := b.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, false
	}
	return b.presets[i], true
}

// List returns the presets in definition order
func (b *Book) List() []Preset {
	out := make([]Preset, len(b.presets))
	copy(out, b.presets)
	return out
}
