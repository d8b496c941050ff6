// Package template holds the named icon, structure and geography templates that drive
// world generation, and loads them from JSON asset directories.
package template

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-gl/mathgl/mgl32"

	"mini-realm/internal/grid"
	"mini-realm/internal/wfc"
)

// ErrNotFound is returned when a named template does not exist.
var ErrNotFound = errors.New("template not found")

// ErrConnectConflict is returned when two connection identities share a glyph.
var ErrConnectConflict = errors.New("connect glyph claimed twice")

const maxParentDepth = 10

// Library is a named store of templates. Templates are immutable once added and may be
// shared read-only by any number of chunks.
type Library struct {
	iconSpecs   map[string]IconSpec
	icons       map[string]*Icon
	structures  map[string]*Structure
	geographies map[string]*Geography
	connect     *ConnectTable

	rulesets *ristretto.Cache[string, *wfc.Ruleset]
}

// NewLibrary returns an empty library.
func NewLibrary() (*Library, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *wfc.Ruleset]{
		NumCounters: 1000,
		MaxCost:     256,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create ruleset cache: %w", err)
	}
	return &Library{
		iconSpecs:   make(map[string]IconSpec),
		icons:       make(map[string]*Icon),
		structures:  make(map[string]*Structure),
		geographies: make(map[string]*Geography),
		rulesets:    cache,
	}, nil
}

// Close releases the ruleset cache.
func (l *Library) Close() { l.rulesets.Close() }

// AddIcon registers an icon. Resolved icons are recomputed on next lookup.
func (l *Library) AddIcon(spec IconSpec) error {
	if spec.Name == "" {
		return errors.New("icon has no name")
	}
	l.iconSpecs[spec.Name] = spec
	clear(l.icons)
	l.connect = nil
	return nil
}

// AddStructure registers a structure template.
func (l *Library) AddStructure(s Structure) error {
	if s.Name == "" {
		return errors.New("structure has no name")
	}
	if s.MinWidth < 1 || s.MinHeight < 1 || s.MaxWidth < s.MinWidth || s.MaxHeight < s.MinHeight {
		return fmt.Errorf("structure %s: invalid size range %dx%d..%dx%d",
			s.Name, s.MinWidth, s.MinHeight, s.MaxWidth, s.MaxHeight)
	}
	if s.Perimeter < 0 {
		return fmt.Errorf("structure %s: negative perimeter", s.Name)
	}
	l.structures[s.Name] = &s
	l.rulesets.Del(s.Name)
	return nil
}

// AddGeography registers a geography template.
func (l *Library) AddGeography(g Geography) error {
	if g.Name == "" {
		return errors.New("geography has no name")
	}
	l.geographies[g.Name] = &g
	return nil
}

// Icon resolves name, applying parent inheritance.
func (l *Library) Icon(name string) (*Icon, error) {
	if ic, ok := l.icons[name]; ok {
		return ic, nil
	}
	spec, err := l.mergedSpec(name, 0)
	if err != nil {
		return nil, err
	}
	ic, err := resolveIcon(spec)
	if err != nil {
		return nil, fmt.Errorf("icon %s: %w", name, err)
	}
	l.icons[name] = ic
	return ic, nil
}

func (l *Library) mergedSpec(name string, depth int) (IconSpec, error) {
	spec, ok := l.iconSpecs[name]
	if !ok {
		return IconSpec{}, fmt.Errorf("icon %s: %w", name, ErrNotFound)
	}
	if spec.Parent == "" {
		return spec, nil
	}
	if depth >= maxParentDepth {
		return IconSpec{}, fmt.Errorf("icon %s: parent chain deeper than %d", name, maxParentDepth)
	}
	parent, err := l.mergedSpec(spec.Parent, depth+1)
	if err != nil {
		return IconSpec{}, fmt.Errorf("could not load parent icon '%s': %w", spec.Parent, err)
	}

	if spec.Glyph == "" {
		spec.Glyph = parent.Glyph
	}
	if spec.Fg == "" {
		spec.Fg = parent.Fg
	}
	if spec.Bg == "" {
		spec.Bg = parent.Bg
	}
	if spec.Walkable == nil {
		spec.Walkable = parent.Walkable
	}
	if spec.Transparent == nil {
		spec.Transparent = parent.Transparent
	}
	if spec.Short == "" {
		spec.Short = parent.Short
	}
	if spec.Long == "" {
		spec.Long = parent.Long
	}
	if spec.Connect == "" {
		spec.Connect = parent.Connect
	}
	if spec.Glyphs == nil {
		spec.Glyphs = parent.Glyphs
	}
	return spec, nil
}

func resolveIcon(spec IconSpec) (*Icon, error) {
	ic := &Icon{
		Name:        spec.Name,
		Glyph:       ' ',
		Fg:          mgl32.Vec3{1, 1, 1},
		Walkable:    true,
		Transparent: true,
		Short:       spec.Short,
		Long:        spec.Long,
		Connect:     spec.Connect,
	}
	if spec.Glyph != "" {
		r, err := parseGlyph(spec.Glyph)
		if err != nil {
			return nil, err
		}
		ic.Glyph = r
	}
	if spec.Fg != "" {
		c, err := ParseColor(spec.Fg)
		if err != nil {
			return nil, err
		}
		ic.Fg = c
	}
	if spec.Bg != "" {
		c, err := ParseColor(spec.Bg)
		if err != nil {
			return nil, err
		}
		ic.Bg = c
	}
	if spec.Walkable != nil {
		ic.Walkable = *spec.Walkable
	}
	if spec.Transparent != nil {
		ic.Transparent = *spec.Transparent
	}
	if ic.Short == "" {
		ic.Short = strings.ReplaceAll(spec.Name, "_", " ")
	}
	ic.Variants = DefaultVariants(ic.Glyph)
	if err := ic.Variants.override(spec.Glyphs); err != nil {
		return nil, err
	}
	return ic, nil
}

// Structure returns the named structure template.
func (l *Library) Structure(name string) (*Structure, error) {
	s, ok := l.structures[name]
	if !ok {
		return nil, fmt.Errorf("structure %s: %w", name, ErrNotFound)
	}
	return s, nil
}

// Geography returns the named geography template.
func (l *Library) Geography(name string) (*Geography, error) {
	g, ok := l.geographies[name]
	if !ok {
		return nil, fmt.Errorf("geography %s: %w", name, ErrNotFound)
	}
	return g, nil
}

// Geographies lists geography names in sorted order.
func (l *Library) Geographies() []string {
	names := make([]string, 0, len(l.geographies))
	for n := range l.geographies {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Ruleset compiles the interior pattern of structure name, caching the result.
func (l *Library) Ruleset(name string) (*wfc.Ruleset, error) {
	if rs, ok := l.rulesets.Get(name); ok {
		return rs, nil
	}
	s, err := l.Structure(name)
	if err != nil {
		return nil, err
	}

	tiles := make([]wfc.Tile, 0, len(s.Pattern.Tiles))
	for i, pt := range s.Pattern.Tiles {
		if _, err := l.Icon(pt.Icon); err != nil {
			return nil, fmt.Errorf("structure %s pattern tile %d: %w", name, i, err)
		}
		t := wfc.Tile{Name: pt.Icon, Weight: pt.Weight}
		for _, d := range grid.Directions {
			t.Sockets[d] = pt.Sockets[d]
		}
		tiles = append(tiles, t)
	}
	rs, err := wfc.NewRuleset(tiles, s.Pattern.Edge)
	if err != nil {
		return nil, fmt.Errorf("structure %s: %w", name, err)
	}
	l.rulesets.Set(name, rs, 1)
	l.rulesets.Wait()
	return rs, nil
}

// ConnectTable builds the connection table over every registered icon.
func (l *Library) ConnectTable() (*ConnectTable, error) {
	if l.connect != nil {
		return l.connect, nil
	}
	names := make([]string, 0, len(l.iconSpecs))
	for n := range l.iconSpecs {
		names = append(names, n)
	}
	slices.Sort(names)

	ct := newConnectTable()
	for _, n := range names {
		ic, err := l.Icon(n)
		if err != nil {
			return nil, err
		}
		if err := ct.add(ic); err != nil {
			return nil, err
		}
	}
	l.connect = ct
	return ct, nil
}
