package world

import (
	"fmt"
	"math"

	"mini-realm/internal/grid"
	"mini-realm/internal/profiling"
	"mini-realm/pkg/template"
)

const (
	groundScale  = 1.0 / 12.0
	meanderScale = 1.0 / 24.0

	saltJitter   = 7
	saltScatter  = 11
	saltRoadRows = 13
	saltRoadCols = 17

	// columnOffset decorrelates vertical road meander from horizontal.
	columnOffset = 1 << 20
)

// TileSynthesizer lays the noise-driven layers of a chunk: ground cover, roads and
// scattered objects. All sampling is done in world coordinates so layers line up
// across chunk borders.
type TileSynthesizer struct {
	seed    int64
	assets  Assets
	ground  *gradientField
	meander *gradientField
}

func NewTileSynthesizer(seed int64, assets Assets) *TileSynthesizer {
	return &TileSynthesizer{
		seed:    seed,
		assets:  assets,
		ground:  newGradientField(seed, groundScale),
		meander: newGradientField(seed+1, meanderScale),
	}
}

// LayGroundCover stamps every cell with an icon from the geography's ground table.
func (s *TileSynthesizer) LayGroundCover(a *AreaMap, geo *template.Geography) error {
	defer profiling.Track("world.LayGroundCover")()
	if len(geo.GroundCover) == 0 {
		return nil
	}
	icons, err := s.resolve(geo.GroundCover)
	if err != nil {
		return err
	}

	origin := a.region.Origin(a.tiles.Width(), a.tiles.Height())
	return a.tiles.Update(a.Bounds(), func(p grid.Position, t *Tile) {
		w := origin.Add(p)
		name, ok := pickWeighted(geo.GroundCover, s.ground.at(w.X, w.Y))
		if !ok {
			return
		}
		t.Stamp(icons[name], FeatureGround)

		j := 0.9 + 0.2*latticeValue(int64(w.X), int64(w.Y), s.seed+saltJitter)
		t.Fg = t.Fg.Mul(float32(j))
		for i := range t.Fg {
			t.Fg[i] = min(t.Fg[i], 1)
		}
	})
}

// LayRoads draws the horizontal road of the chunk's region row and the vertical road of
// its region column, when the geography has roads and the row or column is selected.
func (s *TileSynthesizer) LayRoads(a *AreaMap, geo *template.Geography) error {
	defer profiling.Track("world.LayRoads")()
	roads := geo.Roads
	if roads == nil || roads.Icon == "" || roads.Frequency <= 0 {
		return nil
	}
	ic, err := s.assets.Icon(roads.Icon)
	if err != nil {
		return fmt.Errorf("roads: %w", err)
	}
	width := max(roads.Width, 1)
	w, h := a.tiles.Width(), a.tiles.Height()
	origin := a.region.Origin(w, h)

	stamp := func(p grid.Position) {
		if t, ok := a.tiles.Ref(p); ok {
			t.Stamp(ic, FeatureRoad)
		}
	}

	if latticeValue(int64(a.region.Y), 0, s.seed+saltRoadRows) < roads.Frequency {
		centre := func(wx int) int { return h/2 + s.wander(wx, roads.Meander, h, width) }
		for x := range w {
			lo, hi := spanBetween(centre(origin.X+x-1), centre(origin.X+x))
			for y := lo - width/2; y <= hi+(width-1)/2; y++ {
				stamp(grid.Pos(x, y))
			}
		}
	}
	if latticeValue(0, int64(a.region.X), s.seed+saltRoadCols) < roads.Frequency {
		centre := func(wy int) int { return w/2 + s.wander(wy+columnOffset, roads.Meander, w, width) }
		for y := range h {
			lo, hi := spanBetween(centre(origin.Y+y-1), centre(origin.Y+y))
			for x := lo - width/2; x <= hi+(width-1)/2; x++ {
				stamp(grid.Pos(x, y))
			}
		}
	}
	return nil
}

// wander is the meander offset at world coordinate t for a road across a chunk of
// the given span.
func (s *TileSynthesizer) wander(t int, meander float64, span, width int) int {
	amp := max(float64(span/2-width-1), 0) * clamp01(meander)
	return int(math.Round(s.meander.offset(t) * amp))
}

func spanBetween(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// ScatterObjects places loose objects on untouched ground. It runs after structures so
// that nothing is scattered inside a building.
func (s *TileSynthesizer) ScatterObjects(a *AreaMap, geo *template.Geography) error {
	defer profiling.Track("world.ScatterObjects")()
	if len(geo.Scatter) == 0 {
		return nil
	}
	icons, err := s.resolve(geo.Scatter)
	if err != nil {
		return err
	}

	origin := a.region.Origin(a.tiles.Width(), a.tiles.Height())
	return a.tiles.Update(a.Bounds(), func(p grid.Position, t *Tile) {
		if t.Constructed || t.Feature != FeatureGround {
			return
		}
		w := origin.Add(p)
		v := latticeValue(int64(w.X), int64(w.Y), s.seed+saltScatter)
		acc := 0.0
		for _, entry := range geo.Scatter {
			acc += entry.Weight
			if v < acc {
				t.Stamp(icons[entry.Icon], FeatureScatter)
				return
			}
		}
	})
}

func (s *TileSynthesizer) resolve(table []template.Weighted) (map[string]*template.Icon, error) {
	icons := make(map[string]*template.Icon, len(table))
	for _, w := range table {
		ic, err := s.assets.Icon(w.Icon)
		if err != nil {
			return nil, err
		}
		icons[w.Icon] = ic
	}
	return icons, nil
}
