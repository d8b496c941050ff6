package world

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"mini-realm/internal/grid"
	"mini-realm/pkg/template"
)

func newBuildContext(t *testing.T, lib *template.Library, geography string, seed int64, r Region) *GenContext {
	t.Helper()
	geo, err := lib.Geography(geography)
	if err != nil {
		t.Fatal(err)
	}
	return &GenContext{
		RNG:       chunkRNG(seed, r, 0),
		Assets:    lib,
		Geography: geo,
		Limits:    DefaultLimits(),
		Seed:      seed,
		Region:    r,
	}
}

func TestBuildTopLevelStructuresDoNotOverlap(t *testing.T) {
	lib := testLibrary(t)
	for seed := int64(1); seed <= 12; seed++ {
		a := NewAreaMap(Region{}, 48, 32)
		stats, err := Build(newBuildContext(t, lib, "village", seed, Region{}), a)
		if err != nil && !errors.Is(err, ErrAnchorsExhausted) {
			t.Fatalf("seed %d: Build: %v", seed, err)
		}
		if stats.Placed == 0 {
			t.Errorf("seed %d: no houses placed in an empty 48x32 chunk", seed)
		}

		var top []Placement
		for _, pl := range a.Placements() {
			if !a.Bounds().Contains(pl.Bounds) {
				t.Fatalf("seed %d: %s at %v leaves the chunk", seed, pl.Name, pl.Bounds)
			}
			if pl.Depth == 0 {
				top = append(top, pl)
			}
		}
		if len(top) != stats.Placed {
			t.Errorf("seed %d: %d top-level placements recorded, stats say %d", seed, len(top), stats.Placed)
		}
		for i := range top {
			for j := i + 1; j < len(top); j++ {
				if top[i].Bounds.Intersects(top[j].Bounds) {
					t.Fatalf("seed %d: %v overlaps %v\n%s", seed, top[i].Bounds, top[j].Bounds, spew.Sdump(top))
				}
			}
		}
	}
}

func TestBuildMarksConstructedAndDrawsWalls(t *testing.T) {
	lib := testLibrary(t)
	a := NewAreaMap(Region{X: 2, Y: -1}, 48, 32)
	if _, err := Build(newBuildContext(t, lib, "village", 99, a.Region()), a); err != nil && !errors.Is(err, ErrAnchorsExhausted) {
		t.Fatalf("Build: %v", err)
	}
	if len(a.Placements()) == 0 {
		t.Fatal("nothing placed")
	}

	for _, pl := range a.Placements() {
		doors := 0
		for p := range pl.Bounds.Positions() {
			tile, _ := a.Get(p)
			if !tile.Constructed {
				t.Fatalf("%s: %v inside %v is not constructed", pl.Name, p, pl.Bounds)
			}
		}
		for p := range pl.Bounds.Perimeter() {
			tile, _ := a.Get(p)
			switch tile.Feature {
			case FeatureDoor:
				doors++
				if pl.Bounds.IsCorner(p) {
					t.Errorf("%s: door on corner %v", pl.Name, p)
				}
			case FeatureWall:
			default:
				t.Errorf("%s: perimeter cell %v is %v", pl.Name, p, tile.Feature)
			}
		}
		want := 1
		if pl.Name == "closet" {
			want = 0
		}
		if doors != want {
			t.Errorf("%s at %v has %d doors, want %d", pl.Name, pl.Bounds, doors, want)
		}
	}
}

func TestBuildNestedInsideParent(t *testing.T) {
	lib := testLibrary(t)
	nested := 0
	for seed := int64(1); seed <= 8; seed++ {
		a := NewAreaMap(Region{}, 48, 32)
		_, _ = Build(newBuildContext(t, lib, "village", seed, Region{}), a)

		for _, child := range a.Placements() {
			if child.Depth == 0 {
				continue
			}
			nested++
			inside := false
			for _, parent := range a.Placements() {
				if parent.Depth == child.Depth-1 && parent.Bounds.ShrinkPerimeter(1).Contains(child.Bounds) {
					inside = true
				}
			}
			if !inside {
				t.Errorf("seed %d: %s at %v is not inside any parent interior", seed, child.Name, child.Bounds)
			}
		}
	}
	if nested == 0 {
		t.Error("no interior rooms placed across 8 seeds")
	}
}

func TestBuildNoStructures(t *testing.T) {
	lib := testLibrary(t)
	a := NewAreaMap(Region{}, 16, 16)
	_, err := Build(newBuildContext(t, lib, "crossroads", 1, Region{}), a)
	if !errors.Is(err, ErrNoStructures) {
		t.Errorf("Build error = %v, want ErrNoStructures", err)
	}
}

func TestBuildTemplateTooLargeIsSkipped(t *testing.T) {
	lib := testLibrary(t)
	a := NewAreaMap(Region{}, 16, 16)
	ctx := newBuildContext(t, lib, "wasteland", 1, Region{})
	stats, err := Build(ctx, a)
	if err != nil && !errors.Is(err, ErrAnchorsExhausted) {
		t.Fatalf("oversized template should fail quietly, got %v", err)
	}
	if stats.Placed != 0 || len(a.Placements()) != 0 {
		t.Errorf("oversized template placed: %+v", stats)
	}
	if stats.Attempts > ctx.Limits.GlobalRetries {
		t.Errorf("attempts %d exceed global ceiling %d", stats.Attempts, ctx.Limits.GlobalRetries)
	}
}

func TestBuildSolverExhaustionAbandonsStructure(t *testing.T) {
	lib := testLibrary(t)
	a := NewAreaMap(Region{}, 24, 24)
	ctx := newBuildContext(t, lib, "haunted", 3, Region{})
	ctx.Limits.GlobalRetries = 20

	stats, _ := Build(ctx, a)
	if stats.Placed != 0 || stats.Failed == 0 {
		t.Errorf("unsolvable interior: %+v", stats)
	}
	for p, tile := range a.Tiles().All() {
		if tile.Constructed {
			t.Fatalf("abandoned structure left constructed cell at %v", p)
		}
	}

	_, err := ctx.place(a.Tiles(), grid.Position{}, mustStructure(t, lib, "cursed"), a.Bounds(), 0, occupiedTopLevel)
	if !errors.Is(err, ErrSolverExhausted) {
		t.Errorf("place error = %v, want ErrSolverExhausted", err)
	}
}

func TestBuildInteriorPassCap(t *testing.T) {
	lib := testLibrary(t)
	yard := mustStructure(t, lib, "yard")
	interiorCells := (yard.MinWidth - 2) * (yard.MinHeight - 2)

	tests := []struct {
		passes int
		want   int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		// Enough passes to fill the interior; the pass that places nothing ends the loop.
		{100, interiorCells},
	}
	for _, tt := range tests {
		a := NewAreaMap(Region{}, 12, 12)
		ctx := newBuildContext(t, lib, "gardens", 5, Region{})
		ctx.Limits.InteriorPasses = tt.passes

		stats, err := Build(ctx, a)
		if err != nil {
			t.Fatalf("passes %d: Build: %v", tt.passes, err)
		}
		if stats.Placed != 1 {
			t.Fatalf("passes %d: placed %d yards, want 1", tt.passes, stats.Placed)
		}
		if stats.Nested > tt.passes*len(yard.Interiors) {
			t.Errorf("passes %d: %d nested exceeds the cap", tt.passes, stats.Nested)
		}
		if stats.Nested != tt.want {
			t.Errorf("passes %d: nested %d, want %d", tt.passes, stats.Nested, tt.want)
		}
		if stats.Failed != 0 {
			t.Errorf("passes %d: reaching the cap should not count failures: %+v", tt.passes, stats)
		}
	}
}

func TestBuildAnchorsExhausted(t *testing.T) {
	lib := testLibrary(t)
	a := NewAreaMap(Region{}, 16, 16)
	_ = a.Tiles().Update(a.Bounds(), func(_ grid.Position, tile *Tile) { tile.Constructed = true })

	ctx := newBuildContext(t, lib, "village", 1, Region{})
	ctx.Limits.AnchorRetries = 4
	stats, err := Build(ctx, a)
	if !errors.Is(err, ErrAnchorsExhausted) {
		t.Fatalf("Build error = %v, want ErrAnchorsExhausted", err)
	}
	if stats.Placed != 0 || stats.Attempts != 1 {
		t.Errorf("stats = %+v, want a single abandoned attempt", stats)
	}
}

func TestBuildAvoidsRoads(t *testing.T) {
	lib := testLibrary(t)
	a := NewAreaMap(Region{}, 48, 32)
	road, _ := lib.Icon("road")
	for x := range 48 {
		tile, _ := a.Tiles().Ref(grid.Pos(x, 16))
		tile.Stamp(road, FeatureRoad)
	}
	_, _ = Build(newBuildContext(t, lib, "village", 4, Region{}), a)
	for x := range 48 {
		if tile, _ := a.Get(grid.Pos(x, 16)); tile.Feature != FeatureRoad {
			t.Fatalf("structure built over road at x=%d", x)
		}
	}
}

func TestPlacementIDsDeterministic(t *testing.T) {
	lib := testLibrary(t)
	run := func() []Placement {
		a := NewAreaMap(Region{X: 1}, 48, 32)
		_, _ = Build(newBuildContext(t, lib, "village", 77, a.Region()), a)
		return a.Placements()
	}
	first, second := run(), run()
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("placement counts differ: %d vs %d", len(first), len(second))
	}
	seen := map[string]bool{}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("placement %d ID differs between runs", i)
		}
		if seen[first[i].ID.String()] {
			t.Errorf("duplicate placement ID %v", first[i].ID)
		}
		seen[first[i].ID.String()] = true
	}

	pl := first[0]
	if got, ok := areaMapWith(first).StructureAt(pl.Bounds.TL); !ok || got.Depth < pl.Depth {
		t.Errorf("StructureAt(%v) = %+v, %v", pl.Bounds.TL, got, ok)
	}
}

func mustStructure(t *testing.T, lib *template.Library, name string) *template.Structure {
	t.Helper()
	s, err := lib.Structure(name)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// areaMapWith is a chunk carrying only placements.
func areaMapWith(placements []Placement) *AreaMap {
	a := NewAreaMap(Region{}, 1, 1)
	a.placements = placements
	return a
}
