package wfc

import (
	"fmt"
	"math"
	"math/rand/v2"

	"mini-realm/internal/grid"
)

// Stats captures how much work a solve took.
type Stats struct {
	Collapses int
	Bans      int
}

type wave struct {
	r     *Ruleset
	area  grid.Rect
	w, h  int
	cells [][]bool
	count []int
	stack []int
	stats Stats
}

// Solve collapses every cell of area to a single tile index. The returned grid has the
// same bounds as area. A contradiction is reported as ErrContradiction; callers retry.
func Solve(r *Ruleset, area grid.Rect, rng *rand.Rand) (*grid.Grid[int], Stats, error) {
	if r == nil || r.Len() == 0 {
		return nil, Stats{}, ErrEmptyRuleset
	}
	if area.Empty() {
		return grid.WithBounds[int](area), Stats{}, nil
	}

	wv := newWave(r, area)
	if err := wv.constrainEdges(); err != nil {
		return nil, wv.stats, err
	}
	if err := wv.propagate(); err != nil {
		return nil, wv.stats, err
	}

	for {
		cell, done := wv.observe(rng)
		if done {
			break
		}
		wv.collapse(cell, rng)
		if err := wv.propagate(); err != nil {
			return nil, wv.stats, err
		}
	}

	out := grid.WithBounds[int](area)
	for i := range wv.cells {
		p := wv.pos(i)
		for t, ok := range wv.cells[i] {
			if ok {
				_ = out.Set(p, t)
				break
			}
		}
	}
	return out, wv.stats, nil
}

// SolveWithRetries calls Solve up to attempts times, returning the first success.
func SolveWithRetries(r *Ruleset, area grid.Rect, rng *rand.Rand, attempts int) (*grid.Grid[int], Stats, error) {
	var total Stats
	var lastErr error
	for range max(attempts, 1) {
		out, st, err := Solve(r, area, rng)
		total.Collapses += st.Collapses
		total.Bans += st.Bans
		if err == nil {
			return out, total, nil
		}
		lastErr = err
		if err != ErrContradiction {
			break
		}
	}
	return nil, total, fmt.Errorf("after %d attempts: %w", max(attempts, 1), lastErr)
}

func newWave(r *Ruleset, area grid.Rect) *wave {
	w, h := area.Width(), area.Height()
	wv := &wave{
		r:     r,
		area:  area,
		w:     w,
		h:     h,
		cells: make([][]bool, w*h),
		count: make([]int, w*h),
	}
	for i := range wv.cells {
		wv.cells[i] = make([]bool, r.Len())
		for t := range wv.cells[i] {
			wv.cells[i][t] = true
		}
		wv.count[i] = r.Len()
	}
	return wv
}

func (wv *wave) pos(i int) grid.Position {
	return grid.Position{X: wv.area.TL.X + i%wv.w, Y: wv.area.TL.Y + i/wv.w}
}

func (wv *wave) index(p grid.Position) (int, bool) {
	if !wv.area.Includes(p) {
		return 0, false
	}
	return (p.Y-wv.area.TL.Y)*wv.w + (p.X - wv.area.TL.X), true
}

func (wv *wave) ban(cell, t int) error {
	if !wv.cells[cell][t] {
		return nil
	}
	wv.cells[cell][t] = false
	wv.count[cell]--
	wv.stats.Bans++
	if wv.count[cell] == 0 {
		return ErrContradiction
	}
	wv.stack = append(wv.stack, cell)
	return nil
}

func (wv *wave) constrainEdges() error {
	edge := wv.r.Edge()
	if edge == "" {
		return nil
	}
	for i := range wv.cells {
		p := wv.pos(i)
		for _, d := range grid.Directions {
			if wv.area.Includes(p.Neighbor(d)) {
				continue
			}
			for t := range wv.cells[i] {
				if wv.r.tiles[t].Sockets[d] != edge {
					if err := wv.ban(i, t); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (wv *wave) propagate() error {
	for len(wv.stack) > 0 {
		cell := wv.stack[len(wv.stack)-1]
		wv.stack = wv.stack[:len(wv.stack)-1]
		p := wv.pos(cell)

		for _, d := range grid.Directions {
			nb, ok := wv.index(p.Neighbor(d))
			if !ok {
				continue
			}
			for t, possible := range wv.cells[nb] {
				if !possible || wv.supported(cell, t, d) {
					continue
				}
				if err := wv.ban(nb, t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// supported reports whether some remaining tile of cell allows t in direction d.
func (wv *wave) supported(cell, t int, d grid.Direction) bool {
	for _, a := range wv.r.allowed[d.Opposite()][t] {
		if wv.cells[cell][a] {
			return true
		}
	}
	return false
}

// observe picks the undecided cell with the lowest entropy. done is true once every cell
// holds exactly one tile.
func (wv *wave) observe(rng *rand.Rand) (int, bool) {
	best := -1
	bestEntropy := math.Inf(1)
	for i, n := range wv.count {
		if n <= 1 {
			continue
		}
		e := wv.entropy(i) + rng.Float64()*1e-6
		if e < bestEntropy {
			bestEntropy = e
			best = i
		}
	}
	return best, best < 0
}

func (wv *wave) entropy(cell int) float64 {
	sum, sumLog := 0.0, 0.0
	for t, ok := range wv.cells[cell] {
		if !ok {
			continue
		}
		w := wv.r.tiles[t].Weight
		sum += w
		sumLog += w * math.Log(w)
	}
	return math.Log(sum) - sumLog/sum
}

func (wv *wave) collapse(cell int, rng *rand.Rand) {
	total := 0.0
	for t, ok := range wv.cells[cell] {
		if ok {
			total += wv.r.tiles[t].Weight
		}
	}
	pick := rng.Float64() * total
	chosen := -1
	for t, ok := range wv.cells[cell] {
		if !ok {
			continue
		}
		chosen = t
		pick -= wv.r.tiles[t].Weight
		if pick < 0 {
			break
		}
	}
	for t, ok := range wv.cells[cell] {
		if ok && t != chosen {
			wv.cells[cell][t] = false
			wv.count[cell]--
		}
	}
	wv.stats.Collapses++
	wv.stack = append(wv.stack, cell)
}
