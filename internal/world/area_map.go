package world

import (
	"github.com/google/uuid"

	"mini-realm/internal/grid"
	"mini-realm/pkg/template"
)

// Placement records one structure laid into an area map. Bounds are chunk-local and
// include the perimeter. Depth 0 is a top-level structure.
type Placement struct {
	ID     uuid.UUID
	Name   string
	Bounds grid.Rect
	Depth  int
}

// AreaMap is one chunk: a tile grid plus the state generation leaves behind.
type AreaMap struct {
	region     Region
	tiles      *grid.Grid[Tile]
	populated  bool
	geography  *template.Geography
	placements []Placement
}

// NewAreaMap allocates an unpopulated chunk of default tiles in local coordinates.
func NewAreaMap(region Region, width, height int) *AreaMap {
	tiles := grid.WithDimensions[Tile](width, height)
	tiles.Fill(DefaultTile())
	return &AreaMap{region: region, tiles: tiles}
}

func (a *AreaMap) Region() Region { return a.region }

// Bounds returns the local bounds of the chunk, anchored at (0,0).
func (a *AreaMap) Bounds() grid.Rect { return a.tiles.Bounds() }

// Tiles exposes the underlying grid for generation passes.
func (a *AreaMap) Tiles() *grid.Grid[Tile] { return a.tiles }

// Get returns the tile at local position p.
func (a *AreaMap) Get(p grid.Position) (Tile, bool) { return a.tiles.Get(p) }

// GetIcon returns the icon name of the tile at p, or "" outside the chunk.
func (a *AreaMap) GetIcon(p grid.Position) string {
	t, ok := a.tiles.Get(p)
	if !ok {
		return ""
	}
	return t.Icon
}

// Populated reports whether the generation pipeline has finished with this chunk.
func (a *AreaMap) Populated() bool { return a.populated }

func (a *AreaMap) Geography() *template.Geography { return a.geography }

// Placements returns the structures placed in this chunk in placement order.
func (a *AreaMap) Placements() []Placement { return a.placements }

// StructureAt returns the innermost structure covering p.
func (a *AreaMap) StructureAt(p grid.Position) (Placement, bool) {
	var best Placement
	found := false
	for _, pl := range a.placements {
		if pl.Bounds.Includes(p) && (!found || pl.Depth > best.Depth) {
			best = pl
			found = true
		}
	}
	return best, found
}
