package world

import (
	"fmt"

	"mini-realm/internal/grid"
)

// Region addresses a chunk in chunk units.
type Region struct {
	X, Y int
}

func (r Region) String() string { return fmt.Sprintf("(%d,%d)", r.X, r.Y) }

// Chebyshev returns the chessboard distance between two regions.
func (r Region) Chebyshev(o Region) int {
	return max(abs(r.X-o.X), abs(r.Y-o.Y))
}

// Less orders regions row-major.
func (r Region) Less(o Region) bool {
	if r.Y != o.Y {
		return r.Y < o.Y
	}
	return r.X < o.X
}

// Origin is the world-space position of the chunk's top-left tile.
func (r Region) Origin(chunkW, chunkH int) grid.Position {
	return grid.Pos(r.X*chunkW, r.Y*chunkH)
}

// RegionOf returns the region containing world position p, and p's position inside it.
func RegionOf(p grid.Position, chunkW, chunkH int) (Region, grid.Position) {
	r := Region{X: floorDiv(p.X, chunkW), Y: floorDiv(p.Y, chunkH)}
	return r, grid.Pos(mod(p.X, chunkW), mod(p.Y, chunkH))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
