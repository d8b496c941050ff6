package world

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"mini-realm/internal/grid"
	"mini-realm/internal/profiling"
	"mini-realm/internal/wfc"
	"mini-realm/pkg/template"
)

var (
	// ErrNoStructures means the geography lists nothing to build.
	ErrNoStructures = errors.New("geography has no eligible structures")
	// ErrAnchorsExhausted means no free anchor was found within the retry ceiling.
	ErrAnchorsExhausted = errors.New("no unconstructed anchor found")
	// ErrSolverExhausted means a structure interior never converged.
	ErrSolverExhausted = errors.New("interior solver did not converge")
)

// Limits bounds every retry loop of the structure builder.
type Limits struct {
	AnchorRetries  int     `mapstructure:"anchor_retries"`
	SolverRetries  int     `mapstructure:"solver_retries"`
	InteriorPasses int     `mapstructure:"interior_passes"`
	GlobalRetries  int     `mapstructure:"global_retries"`
	StructureScale float64 `mapstructure:"structure_scale"`
}

func DefaultLimits() Limits {
	return Limits{
		AnchorRetries:  32,
		SolverRetries:  10,
		InteriorPasses: 8,
		GlobalRetries:  64,
		StructureScale: 10,
	}
}

// BuildStats summarises one structure pass.
type BuildStats struct {
	Placed   int
	Nested   int
	Failed   int
	Attempts int
}

// GenContext carries the state of one chunk's structure pass through the recursion.
type GenContext struct {
	RNG       *rand.Rand
	Assets    Assets
	Geography *template.Geography
	Limits    Limits
	Log       *logrus.Entry
	Seed      int64
	Region    Region

	placements []Placement
	stats      BuildStats
}

// Build places top-level structures into a until the density budget is met or the
// global retry ceiling is spent. Placements are appended to the chunk.
func Build(ctx *GenContext, a *AreaMap) (BuildStats, error) {
	defer profiling.Track("world.Build")()
	geo := ctx.Geography
	if geo == nil || len(geo.Structures) == 0 {
		return BuildStats{}, ErrNoStructures
	}

	budget := int(math.Round(geo.PopulationDensity * ctx.Limits.StructureScale))
	tried := mapset.New[grid.Position]()
	var err error
	for ctx.stats.Placed < budget && ctx.stats.Attempts < ctx.Limits.GlobalRetries {
		ctx.stats.Attempts++
		anchor, ok := ctx.pickAnchor(a.tiles, tried)
		if !ok {
			err = fmt.Errorf("after %d tries: %w", ctx.Limits.AnchorRetries, ErrAnchorsExhausted)
			break
		}

		name := geo.Structures[ctx.RNG.IntN(len(geo.Structures))]
		tmpl, terr := ctx.Assets.Structure(name)
		if terr != nil {
			ctx.failed(name, terr)
			continue
		}
		search := grid.Rect{
			TL: anchor,
			BR: anchor.Add(grid.Pos(tmpl.MaxWidth-1, tmpl.MaxHeight-1)),
		}
		placed, perr := ctx.place(a.tiles, grid.Position{}, tmpl, search, 0, occupiedTopLevel)
		if perr != nil {
			ctx.failed(name, perr)
			continue
		}
		if placed {
			ctx.stats.Placed++
		}
	}

	a.placements = append(a.placements, ctx.placements...)
	ctx.placements = nil
	return ctx.stats, err
}

func (ctx *GenContext) failed(name string, err error) {
	ctx.stats.Failed++
	if ctx.Log != nil {
		ctx.Log.WithError(err).WithField("structure", name).Debug("structure abandoned")
	}
}

// pickAnchor draws random cells until one is free of structures and roads.
func (ctx *GenContext) pickAnchor(g *grid.Grid[Tile], tried mapset.Set[grid.Position]) (grid.Position, bool) {
	b := g.Bounds()
	for range ctx.Limits.AnchorRetries {
		p := grid.Pos(b.TL.X+ctx.RNG.IntN(b.Width()), b.TL.Y+ctx.RNG.IntN(b.Height()))
		if tried.Has(p) {
			continue
		}
		tried.Put(p)
		if t, ok := g.Get(p); ok && !occupiedTopLevel(t) {
			return p, true
		}
	}
	return grid.Position{}, false
}

// place tries to build tmpl inside search on g. origin is g's offset inside the chunk,
// used to record placements in chunk coordinates. A false result with a nil error means
// the template did not fit.
func (ctx *GenContext) place(
	g *grid.Grid[Tile],
	origin grid.Position,
	tmpl *template.Structure,
	search grid.Rect,
	depth int,
	occupied func(Tile) bool,
) (bool, error) {
	// Size
	search = search.Clip(g.Bounds())
	free := grid.FitRect(g, search, occupied)

	// Fits check
	if free.Width() < tmpl.MinWidth || free.Height() < tmpl.MinHeight {
		return false, nil
	}
	w := tmpl.MinWidth + ctx.RNG.IntN(min(tmpl.MaxWidth, free.Width())-tmpl.MinWidth+1)
	h := tmpl.MinHeight + ctx.RNG.IntN(min(tmpl.MaxHeight, free.Height())-tmpl.MinHeight+1)
	bounds := grid.RectWH(free.TL, w, h)

	sub, err := g.Subgrid(bounds)
	if err != nil {
		return false, err
	}
	local := sub.Bounds()
	interior := local.ShrinkPerimeter(tmpl.Perimeter)

	// Populate interior
	if !interior.Empty() && len(tmpl.Pattern.Tiles) > 0 {
		if err := ctx.populateInterior(sub, tmpl, interior); err != nil {
			return false, err
		}
	}

	// Clear, then recurse into the interior
	slot := len(ctx.placements)
	if !interior.Empty() {
		_ = sub.Update(interior, func(_ grid.Position, t *Tile) { t.Constructed = false })
		ctx.placeInteriors(sub, origin.Add(bounds.TL), tmpl, interior, depth)
	}

	// Perimeter
	if err := ctx.drawPerimeter(sub, tmpl); err != nil {
		ctx.placements = ctx.placements[:slot]
		return false, err
	}

	// Mark
	_ = sub.Update(local, func(_ grid.Position, t *Tile) { t.Constructed = true })

	// Paste
	if ok, err := g.PasteInto(bounds.TL, sub); !ok {
		ctx.placements = ctx.placements[:slot]
		return false, err
	}

	final := bounds.Translate(origin)
	ctx.placements = slices.Insert(ctx.placements, slot, Placement{
		ID:     placementID(ctx.Seed, ctx.Region, tmpl.Name, final, depth),
		Name:   tmpl.Name,
		Bounds: final,
		Depth:  depth,
	})
	return true, nil
}

func (ctx *GenContext) populateInterior(sub *grid.Grid[Tile], tmpl *template.Structure, interior grid.Rect) error {
	rs, err := ctx.Assets.Ruleset(tmpl.Name)
	if err != nil {
		return err
	}
	cells, _, err := wfc.SolveWithRetries(rs, interior, ctx.RNG, ctx.Limits.SolverRetries)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", tmpl.Name, ErrSolverExhausted, err)
	}

	icons := make([]*template.Icon, rs.Len())
	for i := range icons {
		if icons[i], err = ctx.Assets.Icon(rs.Tile(i).Name); err != nil {
			return err
		}
	}
	for p, idx := range cells.All() {
		t, _ := sub.Ref(p)
		ic := icons[idx]
		f := FeatureFloor
		if !ic.Walkable {
			f = FeatureFurniture
		}
		t.Stamp(ic, f)
	}
	return nil
}

// placeInteriors packs nested structures into interior in passes until a pass places
// nothing or the pass cap is reached.
func (ctx *GenContext) placeInteriors(sub *grid.Grid[Tile], origin grid.Position, tmpl *template.Structure, interior grid.Rect, depth int) {
	if len(tmpl.Interiors) == 0 {
		return
	}
	order := slices.Clone(tmpl.Interiors)
	ctx.RNG.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for range ctx.Limits.InteriorPasses {
		placed := 0
		for _, name := range order {
			child, err := ctx.Assets.Structure(name)
			if err != nil {
				ctx.failed(name, err)
				continue
			}
			ok, err := ctx.place(sub, origin, child, interior, depth+1, occupiedInterior)
			if err != nil {
				ctx.failed(name, err)
				continue
			}
			if ok {
				placed++
				ctx.stats.Nested++
			}
		}
		if placed == 0 {
			return
		}
	}
}

// drawPerimeter stamps Perimeter rings of wall and punches one door through them.
func (ctx *GenContext) drawPerimeter(sub *grid.Grid[Tile], tmpl *template.Structure) error {
	if tmpl.Perimeter <= 0 {
		return nil
	}
	wall, err := ctx.Assets.Icon(tmpl.Wall)
	if err != nil {
		return err
	}
	outer := sub.Bounds()
	for ring := range tmpl.Perimeter {
		for p := range outer.ShrinkPerimeter(ring).Perimeter() {
			t, _ := sub.Ref(p)
			t.Stamp(wall, FeatureWall)
		}
	}

	if tmpl.Door == "" {
		return nil
	}
	door, err := ctx.Assets.Icon(tmpl.Door)
	if err != nil {
		return err
	}
	var candidates []grid.Position
	for p := range outer.Perimeter() {
		if !outer.IsCorner(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	p := candidates[ctx.RNG.IntN(len(candidates))]
	in := inward(outer, p)
	for range tmpl.Perimeter {
		if t, ok := sub.Ref(p); ok {
			t.Stamp(door, FeatureDoor)
		}
		p = p.Neighbor(in)
	}
	return nil
}

func inward(r grid.Rect, p grid.Position) grid.Direction {
	switch {
	case p.Y == r.TL.Y:
		return grid.South
	case p.Y == r.BR.Y:
		return grid.North
	case p.X == r.TL.X:
		return grid.East
	}
	return grid.West
}

func placementID(seed int64, r Region, name string, bounds grid.Rect, depth int) uuid.UUID {
	key := fmt.Sprintf("%d/%d,%d/%s/%v/%d", seed, r.X, r.Y, name, bounds, depth)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}
