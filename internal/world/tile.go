package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"mini-realm/pkg/template"
)

// Feature records which generation pass laid a tile.
type Feature uint8

const (
	FeatureGround Feature = iota
	FeatureRoad
	FeatureScatter
	FeatureFloor
	FeatureWall
	FeatureDoor
	FeatureFurniture
)

func (f Feature) String() string {
	switch f {
	case FeatureGround:
		return "ground"
	case FeatureRoad:
		return "road"
	case FeatureScatter:
		return "scatter"
	case FeatureFloor:
		return "floor"
	case FeatureWall:
		return "wall"
	case FeatureDoor:
		return "door"
	case FeatureFurniture:
		return "furniture"
	}
	return "unknown"
}

// Tile is the per-cell payload of an area map.
type Tile struct {
	Glyph       rune
	Fg, Bg      mgl32.Vec3
	Transparent bool
	Walkable    bool
	// Constructed marks a cell claimed by a structure during generation.
	Constructed bool
	Feature     Feature
	Icon        string
	Short       string
	Long        string
}

// DefaultTile is an empty, walkable, see-through cell.
func DefaultTile() Tile {
	return Tile{
		Glyph:       ' ',
		Fg:          mgl32.Vec3{1, 1, 1},
		Transparent: true,
		Walkable:    true,
	}
}

// Stamp overwrites the appearance and passability of t with ic. Constructed is kept.
func (t *Tile) Stamp(ic *template.Icon, f Feature) {
	t.Glyph = ic.Glyph
	t.Fg = ic.Fg
	t.Bg = ic.Bg
	t.Transparent = ic.Transparent
	t.Walkable = ic.Walkable
	t.Feature = f
	t.Icon = ic.Name
	t.Short = ic.Short
	t.Long = ic.Long
}

// occupiedTopLevel reports cells a top-level structure must not cover.
func occupiedTopLevel(t Tile) bool { return t.Constructed || t.Feature == FeatureRoad }

func occupiedInterior(t Tile) bool { return t.Constructed }
