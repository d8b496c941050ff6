package world

import (
	"mini-realm/internal/grid"
	"mini-realm/internal/profiling"
	"mini-realm/pkg/template"
)

// ConnectTiles redraws connectable glyphs (walls, fences) so that runs join up with
// their neighbours. Neighbours outside g never connect. Replacements are gathered
// first and applied afterwards so no lookup sees a half-updated grid. Returns the
// number of glyphs changed.
func ConnectTiles(g *grid.Grid[Tile], table *template.ConnectTable) int {
	defer profiling.Track("world.ConnectTiles")()
	type change struct {
		p     grid.Position
		glyph rune
	}
	var changes []change

	for p, t := range g.All() {
		id, ok := table.Identity(t.Glyph)
		if !ok {
			continue
		}
		var linked [4]bool
		for _, d := range grid.Directions {
			nt, ok := g.Get(p.Neighbor(d))
			if !ok {
				continue
			}
			nid, ok := table.Identity(nt.Glyph)
			linked[d] = ok && nid == id
		}
		variants, _ := table.Variants(id)
		if glyph := variants[shapeOf(linked)]; glyph != t.Glyph {
			changes = append(changes, change{p: p, glyph: glyph})
		}
	}

	for _, c := range changes {
		t, _ := g.Ref(c.p)
		t.Glyph = c.glyph
	}
	return len(changes)
}

// shapeOf maps the connected sides, indexed by grid.Direction, to a glyph shape.
func shapeOf(linked [4]bool) template.Shape {
	n, e, s, w := linked[grid.North], linked[grid.East], linked[grid.South], linked[grid.West]
	count := 0
	for _, l := range linked {
		if l {
			count++
		}
	}
	switch count {
	case 0:
		return template.Base
	case 1:
		if n || s {
			return template.Vertical
		}
		return template.Horizontal
	case 2:
		switch {
		case n && s:
			return template.Vertical
		case e && w:
			return template.Horizontal
		case n && e:
			return template.CornerNE
		case n && w:
			return template.CornerNW
		case s && e:
			return template.CornerSE
		}
		return template.CornerSW
	case 3:
		switch {
		case !n:
			return template.NoNorth
		case !e:
			return template.NoEast
		case !s:
			return template.NoSouth
		}
		return template.NoWest
	}
	return template.Cross
}
