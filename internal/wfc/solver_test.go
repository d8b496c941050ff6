package wfc

import (
	"errors"
	"math/rand/v2"
	"testing"

	"mini-realm/internal/grid"
)

// stripes: rows are either all "lane" or a mix of grass and stone.
func stripes(t *testing.T, edge string) *Ruleset {
	t.Helper()
	r, err := NewRuleset([]Tile{
		{Name: "grass", Weight: 3, Sockets: [4]string{"x", "x", "x", "x"}},
		{Name: "stone", Weight: 1, Sockets: [4]string{"x", "x", "x", "x"}},
		{Name: "lane", Weight: 2, Sockets: [4]string{"x", "y", "x", "y"}},
	}, edge)
	if err != nil {
		t.Fatalf("NewRuleset: %v", err)
	}
	return r
}

func TestSolveRespectsAdjacency(t *testing.T) {
	r := stripes(t, "")
	area := grid.RectWH(grid.Pos(3, -2), 9, 7)

	for seed := uint64(0); seed < 20; seed++ {
		out, stats, err := Solve(r, area, rand.New(rand.NewPCG(seed, 1)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if out.Bounds() != area {
			t.Fatalf("seed %d: bounds %v, want %v", seed, out.Bounds(), area)
		}
		if stats.Collapses == 0 {
			t.Errorf("seed %d: no collapses recorded", seed)
		}
		for p, a := range out.All() {
			for _, d := range []grid.Direction{grid.East, grid.South} {
				b, ok := out.Get(p.Neighbor(d))
				if ok && !r.Compatible(a, b, d) {
					t.Fatalf("seed %d: %s at %v next to %s (%v)", seed, r.Tile(a).Name, p, r.Tile(b).Name, d)
				}
			}
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	r := stripes(t, "")
	area := grid.RectWH(grid.Pos(0, 0), 12, 12)

	a, _, err := Solve(r, area, rand.New(rand.NewPCG(42, 42)))
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Solve(r, area, rand.New(rand.NewPCG(42, 42)))
	if err != nil {
		t.Fatal(err)
	}
	for p, v := range a.All() {
		if w, _ := b.Get(p); w != v {
			t.Fatalf("same seed diverged at %v: %d != %d", p, v, w)
		}
	}
}

func TestSolveEdgeSocket(t *testing.T) {
	r := stripes(t, "x")
	area := grid.RectWH(grid.Pos(0, 0), 6, 5)

	out, _, err := Solve(r, area, rand.New(rand.NewPCG(3, 9)))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// Lanes expose "y" east and west, so they can never reach the boundary and
	// therefore never appear at all.
	for p, v := range out.All() {
		if r.Tile(v).Name == "lane" {
			t.Fatalf("lane placed at %v despite edge socket", p)
		}
	}
}

func TestSolveContradiction(t *testing.T) {
	r, err := NewRuleset([]Tile{{Name: "wall", Weight: 1, Sockets: [4]string{"a", "a", "a", "a"}}}, "b")
	if err != nil {
		t.Fatal(err)
	}
	area := grid.RectWH(grid.Pos(0, 0), 2, 2)

	if _, _, err := Solve(r, area, rand.New(rand.NewPCG(1, 1))); !errors.Is(err, ErrContradiction) {
		t.Fatalf("Solve error = %v, want ErrContradiction", err)
	}
	if _, _, err := SolveWithRetries(r, area, rand.New(rand.NewPCG(1, 1)), 3); !errors.Is(err, ErrContradiction) {
		t.Fatalf("SolveWithRetries error = %v, want wrapped ErrContradiction", err)
	}
}

func TestNewRulesetRejectsBadInput(t *testing.T) {
	if _, err := NewRuleset(nil, ""); !errors.Is(err, ErrEmptyRuleset) {
		t.Errorf("empty tiles error = %v", err)
	}
	if _, err := NewRuleset([]Tile{{Name: "x", Weight: 0}}, ""); err == nil {
		t.Error("zero weight should be rejected")
	}
}

func TestSolveEmptyArea(t *testing.T) {
	r := stripes(t, "")
	out, _, err := Solve(r, grid.EmptyAt(grid.Pos(4, 4)), rand.New(rand.NewPCG(0, 0)))
	if err != nil {
		t.Fatalf("Solve on empty area: %v", err)
	}
	if !out.Bounds().Empty() {
		t.Errorf("bounds = %v, want empty", out.Bounds())
	}
}

func BenchmarkSolve(b *testing.B) {
	r, _ := NewRuleset([]Tile{
		{Name: "grass", Weight: 3, Sockets: [4]string{"x", "x", "x", "x"}},
		{Name: "lane", Weight: 2, Sockets: [4]string{"x", "y", "x", "y"}},
	}, "")
	area := grid.RectWH(grid.Pos(0, 0), 16, 16)
	rng := rand.New(rand.NewPCG(1, 2))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = Solve(r, area, rng)
	}
}

func TestRulesetAdjacencyLists(t *testing.T) {
	r := stripes(t, "")
	for _, d := range grid.Directions {
		for a := range r.Len() {
			listed := map[int]bool{}
			for _, b := range r.allowed[d][a] {
				listed[b] = true
			}
			for b := range r.Len() {
				if listed[b] != r.Compatible(a, b, d) {
					t.Errorf("%s -%v-> %s: listed %v, compatible %v",
						r.Tile(a).Name, d, r.Tile(b).Name, listed[b], r.Compatible(a, b, d))
				}
				if r.Compatible(a, b, d) != r.Compatible(b, a, d.Opposite()) {
					t.Errorf("%s/%s: adjacency not symmetric in %v", r.Tile(a).Name, r.Tile(b).Name, d)
				}
			}
		}
	}
	if got := len(r.allowed[grid.East][2]); got != 1 {
		t.Errorf("lane should only continue east into lane, allowed %v", r.allowed[grid.East][2])
	}
}
