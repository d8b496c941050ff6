// Package grid provides bounded dense 2D storage, rectangles and the
// largest-empty-rectangle search used by world generation.
package grid

import (
	"errors"
	"fmt"
	"iter"
)

// ErrOutOfBounds is returned when a position or rectangle falls outside a grid.
var ErrOutOfBounds = errors.New("out of bounds")

// Grid is a dense row-major 2D array addressed by Position over a bounding Rect.
// Cells are copied by value, so sub-grids never alias their parent.
type Grid[T any] struct {
	bounds Rect
	width  int
	cells  []T
}

// WithDimensions allocates a w x h grid anchored at (0,0).
func WithDimensions[T any](w, h int) *Grid[T] {
	return WithBounds[T](RectWH(Position{}, w, h))
}

// WithBounds allocates a grid covering r. An empty r yields an empty grid.
func WithBounds[T any](r Rect) *Grid[T] {
	g := &Grid[T]{bounds: r}
	if !r.Empty() {
		g.width = r.Width()
		g.cells = make([]T, r.Area())
	}
	return g
}

// Bounds returns the grid's bounding rectangle.
func (g *Grid[T]) Bounds() Rect { return g.bounds }

func (g *Grid[T]) Width() int { return max(g.bounds.Width(), 0) }
func (g *Grid[T]) Height() int { return max(g.bounds.Height(), 0) }

// index assumes bounds.Includes(p).
func (g *Grid[T]) index(p Position) int {
	return (p.Y-g.bounds.TL.Y)*g.width + (p.X - g.bounds.TL.X)
}

// get and ref skip the bounds check. Only call them with positions taken from an
// iteration over a rect already known to be inside g.bounds.
func (g *Grid[T]) get(p Position) T { return g.cells[g.index(p)] }
func (g *Grid[T]) ref(p Position) *T { return &g.cells[g.index(p)] }
func (g *Grid[T]) set(p Position, v T) { g.cells[g.index(p)] = v }

// Get returns the cell at p, or false when p is outside the grid.
func (g *Grid[T]) Get(p Position) (T, bool) {
	if !g.bounds.Includes(p) {
		var zero T
		return zero, false
	}
	return g.get(p), true
}

// Ref returns a pointer to the cell at p for in-place mutation, or false when p is outside the grid.
func (g *Grid[T]) Ref(p Position) (*T, bool) {
	if !g.bounds.Includes(p) {
		return nil, false
	}
	return g.ref(p), true
}

// Set writes v at p.
func (g *Grid[T]) Set(p Position, v T) error {
	if !g.bounds.Includes(p) {
		return fmt.Errorf("set %v: %w", p, ErrOutOfBounds)
	}
	g.set(p, v)
	return nil
}

// Fill overwrites every cell with v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Update calls fn for every cell of r in row-major order with a pointer into the grid.
func (g *Grid[T]) Update(r Rect, fn func(Position, *T)) error {
	if r.Empty() {
		return nil
	}
	if !g.bounds.Contains(r) {
		return fmt.Errorf("update %v within %v: %w", r, g.bounds, ErrOutOfBounds)
	}
	for p := range r.Positions() {
		fn(p, g.ref(p))
	}
	return nil
}

// Subgrid copies the cells of r into a new grid anchored at (0,0).
func (g *Grid[T]) Subgrid(r Rect) (*Grid[T], error) {
	if r.Empty() || !g.bounds.Contains(r) {
		return nil, fmt.Errorf("subgrid %v of %v: %w", r, g.bounds, ErrOutOfBounds)
	}
	sub := WithDimensions[T](r.Width(), r.Height())
	for y := r.TL.Y; y <= r.BR.Y; y++ {
		src := g.index(Position{r.TL.X, y})
		dst := (y - r.TL.Y) * sub.width
		copy(sub.cells[dst:dst+sub.width], g.cells[src:src+sub.width])
	}
	return sub, nil
}

// PasteInto copies every cell of sub into g with sub's top-left at topLeft.
// Nothing is written when the target does not fit. sub is consumed and left empty.
func (g *Grid[T]) PasteInto(topLeft Position, sub *Grid[T]) (bool, error) {
	target := Rect{TL: topLeft, BR: topLeft.Add(sub.bounds.Extent())}
	if sub.bounds.Empty() || !g.bounds.Contains(target) {
		return false, fmt.Errorf("paste %v into %v: %w", target, g.bounds, ErrOutOfBounds)
	}
	w := sub.width
	for row := 0; row < sub.Height(); row++ {
		dst := g.index(Position{topLeft.X, topLeft.Y + row})
		copy(g.cells[dst:dst+w], sub.cells[row*w:(row+1)*w])
	}
	sub.cells = nil
	sub.bounds = EmptyAt(sub.bounds.TL)
	sub.width = 0
	return true, nil
}

// All yields every position and cell in row-major order.
func (g *Grid[T]) All() iter.Seq2[Position, T] {
	return func(yield func(Position, T) bool) {
		for p := range g.bounds.Positions() {
			if !yield(p, g.get(p)) {
				return
			}
		}
	}
}

// Clone returns an independent copy of g with the same bounds.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{bounds: g.bounds, width: g.width}
	c.cells = append([]T(nil), g.cells...)
	return c
}
