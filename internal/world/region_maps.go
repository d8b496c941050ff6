package world

import (
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"mini-realm/internal/grid"
	"mini-realm/internal/profiling"
)

// RegionMaps owns every live chunk, keyed by region. It has a single owner and is not
// safe for concurrent use.
type RegionMaps struct {
	chunkW, chunkH int
	maps           map[Region]*AreaMap
}

// NewRegionMaps creates an empty manager for chunks of the given size.
func NewRegionMaps(chunkW, chunkH int) *RegionMaps {
	return &RegionMaps{
		chunkW: chunkW,
		chunkH: chunkH,
		maps:   make(map[Region]*AreaMap),
	}
}

func (m *RegionMaps) ChunkSize() (int, int) { return m.chunkW, m.chunkH }

// Init inserts a fresh unpopulated chunk for every region within radius of center that
// is not already present. Returns the number of chunks created.
func (m *RegionMaps) Init(center Region, radius int) int {
	defer profiling.Track("world.RegionMaps.Init")()
	created := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := Region{X: center.X + dx, Y: center.Y + dy}
			if _, ok := m.maps[r]; ok {
				continue
			}
			m.maps[r] = NewAreaMap(r, m.chunkW, m.chunkH)
			created++
		}
	}
	return created
}

// Prune evicts every chunk farther than radius from center. Returns the number removed.
func (m *RegionMaps) Prune(center Region, radius int) int {
	defer profiling.Track("world.RegionMaps.Prune")()
	keep := mapset.New[Region]()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			keep.Put(Region{X: center.X + dx, Y: center.Y + dy})
		}
	}
	removed := 0
	for r := range m.maps {
		if !keep.Has(r) {
			delete(m.maps, r)
			removed++
		}
	}
	return removed
}

// Get returns the chunk for r. Asking for a region that was never initialised is a
// caller ordering bug and panics.
func (m *RegionMaps) Get(r Region) *AreaMap {
	a, ok := m.maps[r]
	if !ok {
		panic(fmt.Sprintf("world: region %v queried before Init", r))
	}
	return a
}

// Lookup is the non-panicking form of Get.
func (m *RegionMaps) Lookup(r Region) (*AreaMap, bool) {
	a, ok := m.maps[r]
	return a, ok
}

func (m *RegionMaps) Has(r Region) bool {
	_, ok := m.maps[r]
	return ok
}

// Ready reports whether r is present and fully generated.
func (m *RegionMaps) Ready(r Region) bool {
	a, ok := m.maps[r]
	return ok && a.populated
}

// Populated reports whether every tracked chunk is fully generated.
func (m *RegionMaps) Populated() bool {
	for _, a := range m.maps {
		if !a.populated {
			return false
		}
	}
	return true
}

func (m *RegionMaps) Len() int { return len(m.maps) }

// Regions lists tracked regions row-major.
func (m *RegionMaps) Regions() []Region {
	out := make([]Region, 0, len(m.maps))
	for r := range m.maps {
		out = append(out, r)
	}
	slices.SortFunc(out, compareRegions)
	return out
}

// Unpopulated lists regions still waiting for generation, nearest to center first.
func (m *RegionMaps) Unpopulated(center Region) []Region {
	var out []Region
	for r, a := range m.maps {
		if !a.populated {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b Region) int {
		da, db := a.Chebyshev(center), b.Chebyshev(center)
		if da != db {
			return da - db
		}
		return compareRegions(a, b)
	})
	return out
}

// TileAt looks up a tile by world position across chunks.
func (m *RegionMaps) TileAt(p grid.Position) (Tile, bool) {
	r, local := RegionOf(p, m.chunkW, m.chunkH)
	a, ok := m.maps[r]
	if !ok {
		return Tile{}, false
	}
	return a.Get(local)
}

func compareRegions(a, b Region) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	}
	return 1
}
