// Package preset loads named shadow stacks from YAML.
//
// A preset file looks like:
//
//	presets:
//	  - name: material-2
//	    layers:
//	      - {x: 0, y: 1, opacity: 14, blur: 1}
//	      - {x: 0, y: 2, opacity: 12, blur: 2}
//
// Entries are decoded and validated one at a time. A malformed entry is
// reported and skipped; the others still load.
package preset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/shadowgen"
)

// Preset is a named, ordered shadow stack (bottom-most first).
type Preset struct {
	Name   string                   `yaml:"name"`
	Layers []shadowgen.ShadowParams `yaml:"layers"`
}

// Validate checks the name and every layer.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("missing name")
	}
	if len(p.Layers) == 0 {
		return errors.New("no layers")
	}
	for i, l := range p.Layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// EntryError describes one rejected preset entry.
type EntryError struct {
	// Index is the entry's position in the file.
	Index int
	// Line is the entry's line in the YAML source.
	Line int
	// Name is the entry's name, if it could be read.
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("preset %d (%q, line %d): %v", e.Index, e.Name, e.Line, e.Err)
	}
	return fmt.Sprintf("preset %d (line %d): %v", e.Index, e.Line, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Set is an ordered list of presets with unique names.
type Set struct {
	Presets []Preset
}

// Names returns the preset names in file order.
func (s *Set) Names() []string {
	names := make([]string, len(s.Presets))
	for i, p := range s.Presets {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the preset called name.
func (s *Set) Lookup(name string) (Preset, bool) {
	for _, p := range s.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

type file struct {
	Presets []yaml.Node `yaml:"presets"`
}

// entry mirrors Preset with strict layer fields so unknown keys surface.
type entry struct {
	Name   string      `yaml:"name"`
	Layers []yaml.Node `yaml:"layers"`
}

// Parse decodes a preset document. A syntax error in the document fails
// the whole parse. Otherwise the returned Set holds every valid entry and
// the error, if not nil, joins one *EntryError per rejected entry.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("shadowgen: failed to parse presets: %w", err)
	}

	set := &Set{}
	seen := make(map[string]bool)
	var errs []error
	for i := range f.Presets {
		node := &f.Presets[i]
		p, err := decodeEntry(node)
		if err == nil && seen[p.Name] {
			err = fmt.Errorf("duplicate name %q", p.Name)
		}
		if err != nil {
			errs = append(errs, &EntryError{Index: i, Line: node.Line, Name: p.Name, Err: err})
			continue
		}
		seen[p.Name] = true
		set.Presets = append(set.Presets, p)
	}
	return set, errors.Join(errs...)
}

func decodeEntry(node *yaml.Node) (Preset, error) {
	var e entry
	if err := node.Decode(&e); err != nil {
		return Preset{}, err
	}
	p := Preset{Name: strings.TrimSpace(e.Name)}
	for i := range e.Layers {
		var l shadowgen.ShadowParams
		if err := decodeLayer(&e.Layers[i], &l); err != nil {
			return p, fmt.Errorf("layer %d (line %d): %w", i, e.Layers[i].Line, err)
		}
		p.Layers = append(p.Layers, l)
	}
	return p, p.Validate()
}

var layerKeys = map[string]bool{"x": true, "y": true, "opacity": true, "blur": true}

func decodeLayer(node *yaml.Node, l *shadowgen.ShadowParams) error {
	if node.Kind != yaml.MappingNode {
		return errors.New("layer must be a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if k := node.Content[i].Value; !layerKeys[k] {
			return fmt.Errorf("unknown field %q", k)
		}
	}
	return node.Decode(l)
}

// Load reads and parses the preset file at path. See Parse for the error
// contract.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shadowgen: failed to read presets: %w", err)
	}
	return Parse(data)
}

// Marshal encodes presets in the format Parse reads.
func Marshal(presets []Preset) ([]byte, error) {
	return yaml.Marshal(struct {
		Presets []Preset `yaml:"presets"`
	}{presets})
}

// Builtin returns the presets shipped with the tool.
func Builtin() []Preset {
	return []Preset{
		{Name: "soft", Layers: []shadowgen.ShadowParams{
			{OffsetX: 0, OffsetY: 2, Opacity: 30, Blur: 4},
		}},
		{Name: "material-1", Layers: []shadowgen.ShadowParams{
			{OffsetX: 0, OffsetY: 1, Opacity: 12, Blur: 1.5},
			{OffsetX: 0, OffsetY: 1, Opacity: 24, Blur: 1},
		}},
		{Name: "material-2", Layers: []shadowgen.ShadowParams{
			{OffsetX: 0, OffsetY: 3, Opacity: 16, Blur: 3},
			{OffsetX: 0, OffsetY: 3, Opacity: 23, Blur: 3},
		}},
		{Name: "material-3", Layers: []shadowgen.ShadowParams{
			{OffsetX: 0, OffsetY: 10, Opacity: 19, Blur: 10},
			{OffsetX: 0, OffsetY: 6, Opacity: 23, Blur: 3},
		}},
		{Name: "hard", Layers: []shadowgen.ShadowParams{
			{OffsetX: 3, OffsetY: 3, Opacity: 40, Blur: 0},
		}},
	}
}
