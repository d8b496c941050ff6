// Package wfc implements a seeded wave-function-collapse solver over socketed tiles.
//
// Two tiles may sit next to each other when the facing sockets match: tile A's east
// socket must equal tile B's west socket, and so on. An optional edge socket constrains
// every cell on the boundary of the solved area to expose that socket outward.
package wfc

import (
	"errors"
	"fmt"

	"mini-realm/internal/grid"
)

var (
	// ErrContradiction means a cell ran out of candidates; retry with another seed.
	ErrContradiction = errors.New("wfc: contradiction")
	// ErrEmptyRuleset is returned when a ruleset has no usable tiles.
	ErrEmptyRuleset = errors.New("wfc: ruleset has no tiles")
)

// Tile is one entry of a pattern table.
type Tile struct {
	Name    string
	Weight  float64
	Sockets [4]string // indexed by grid.Direction
}

// Ruleset is a compiled pattern table. It is immutable and safe to share.
type Ruleset struct {
	tiles []Tile
	edge  string
	// allowed[d][a] lists tiles that may sit in direction d of tile a.
	allowed [4][][]int
}

// NewRuleset compiles tiles into adjacency lists.
func NewRuleset(tiles []Tile, edge string) (*Ruleset, error) {
	if len(tiles) == 0 {
		return nil, ErrEmptyRuleset
	}
	for i, t := range tiles {
		if t.Weight <= 0 {
			return nil, fmt.Errorf("wfc: tile %d (%s) has non-positive weight %v", i, t.Name, t.Weight)
		}
	}

	r := &Ruleset{tiles: append([]Tile(nil), tiles...), edge: edge}
	for _, d := range grid.Directions {
		r.allowed[d] = make([][]int, len(tiles))
		for a := range tiles {
			for b := range tiles {
				if tiles[a].Sockets[d] == tiles[b].Sockets[d.Opposite()] {
					r.allowed[d][a] = append(r.allowed[d][a], b)
				}
			}
		}
	}
	return r, nil
}

// Len returns the number of tiles.
func (r *Ruleset) Len() int { return len(r.tiles) }

// Tile returns tile i.
func (r *Ruleset) Tile(i int) Tile { return r.tiles[i] }

// Edge returns the boundary socket, or "" when the boundary is unconstrained.
func (r *Ruleset) Edge() string { return r.edge }

// Compatible reports whether tile b may sit in direction d of tile a.
func (r *Ruleset) Compatible(a, b int, d grid.Direction) bool {
	return r.tiles[a].Sockets[d] == r.tiles[b].Sockets[d.Opposite()]
}
