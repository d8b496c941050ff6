package grid

import (
	"fmt"
	"iter"
)

// Rect is an axis-aligned rectangle with inclusive corners.
// A rect whose width or height is not positive is empty.
type Rect struct {
	TL, BR Position
}

// RectWH builds a rect from its top-left corner and dimensions.
func RectWH(tl Position, w, h int) Rect {
	return Rect{TL: tl, BR: Position{tl.X + w - 1, tl.Y + h - 1}}
}

// EmptyAt returns the zero-area rect anchored at p.
func EmptyAt(p Position) Rect {
	return Rect{TL: p, BR: Position{p.X - 1, p.Y - 1}}
}

func (r Rect) Width() int { return r.BR.X - r.TL.X + 1 }
func (r Rect) Height() int { return r.BR.Y - r.TL.Y + 1 }

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Area returns the number of cells in r.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Extent is BR - TL.
func (r Rect) Extent() Position {
	return r.BR.Sub(r.TL)
}

// Includes reports whether p lies inside r.
func (r Rect) Includes(p Position) bool {
	return p.X >= r.TL.X && p.X <= r.BR.X && p.Y >= r.TL.Y && p.Y <= r.BR.Y
}

// Contains reports whether both corners of o lie inside r.
func (r Rect) Contains(o Rect) bool {
	return r.Includes(o.TL) && r.Includes(o.BR)
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.TL.X <= o.BR.X && r.BR.X >= o.TL.X &&
		r.TL.Y <= o.BR.Y && r.BR.Y >= o.TL.Y
}

// ExpandPerimeter moves both corners outward by n.
func (r Rect) ExpandPerimeter(n int) Rect {
	return Rect{
		TL: Position{r.TL.X - n, r.TL.Y - n},
		BR: Position{r.BR.X + n, r.BR.Y + n},
	}
}

// ShrinkPerimeter moves both corners inward by n. The result may be empty.
func (r Rect) ShrinkPerimeter(n int) Rect {
	return r.ExpandPerimeter(-n)
}

// Translate shifts r by d.
func (r Rect) Translate(d Position) Rect {
	return Rect{TL: r.TL.Add(d), BR: r.BR.Add(d)}
}

// Clip returns the part of r that lies inside o.
func (r Rect) Clip(o Rect) Rect {
	return Rect{
		TL: Position{max(r.TL.X, o.TL.X), max(r.TL.Y, o.TL.Y)},
		BR: Position{min(r.BR.X, o.BR.X), min(r.BR.Y, o.BR.Y)},
	}
}

// IsCorner reports whether p is one of the four corners of r.
func (r Rect) IsCorner(p Position) bool {
	return (p.X == r.TL.X || p.X == r.BR.X) && (p.Y == r.TL.Y || p.Y == r.BR.Y)
}

// OnEdge reports whether p lies on the outermost ring of r.
func (r Rect) OnEdge(p Position) bool {
	if !r.Includes(p) {
		return false
	}
	return p.X == r.TL.X || p.X == r.BR.X || p.Y == r.TL.Y || p.Y == r.BR.Y
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.TL.X, r.TL.Y, r.BR.X, r.BR.Y)
}

// Positions yields every cell of r in row-major order.
func (r Rect) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for y := r.TL.Y; y <= r.BR.Y; y++ {
			for x := r.TL.X; x <= r.BR.X; x++ {
				if !yield(Position{x, y}) {
					return
				}
			}
		}
	}
}

// Perimeter yields the outer ring of r clockwise from TL. The start is never yielded twice.
func (r Rect) Perimeter() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if r.Empty() {
			return
		}
		// top row, left to right
		for x := r.TL.X; x <= r.BR.X; x++ {
			if !yield(Position{x, r.TL.Y}) {
				return
			}
		}
		// right column, downward
		for y := r.TL.Y + 1; y <= r.BR.Y; y++ {
			if !yield(Position{r.BR.X, y}) {
				return
			}
		}
		if r.Height() > 1 {
			// bottom row, right to left
			for x := r.BR.X - 1; x >= r.TL.X; x-- {
				if !yield(Position{x, r.BR.Y}) {
					return
				}
			}
		}
		if r.Width() > 1 {
			// left column, upward, stopping short of TL
			for y := r.BR.Y - 1; y > r.TL.Y; y-- {
				if !yield(Position{r.TL.X, y}) {
					return
				}
			}
		}
	}
}

// Rows yields, top to bottom, the positions of each row left to right.
func (r Rect) Rows() iter.Seq[[]Position] {
	return func(yield func([]Position) bool) {
		if r.Empty() {
			return
		}
		for y := r.TL.Y; y <= r.BR.Y; y++ {
			row := make([]Position, 0, r.Width())
			for x := r.TL.X; x <= r.BR.X; x++ {
				row = append(row, Position{x, y})
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Columns yields, left to right, the positions of each column top to bottom.
func (r Rect) Columns() iter.Seq[[]Position] {
	return func(yield func([]Position) bool) {
		if r.Empty() {
			return
		}
		for x := r.TL.X; x <= r.BR.X; x++ {
			col := make([]Position, 0, r.Height())
			for y := r.TL.Y; y <= r.BR.Y; y++ {
				col = append(col, Position{x, y})
			}
			if !yield(col) {
				return
			}
		}
	}
}
