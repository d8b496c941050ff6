package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"mini-realm/internal/grid"
	"mini-realm/internal/logging"
	"mini-realm/internal/profiling"
)

// Streamer keeps the chunks around a focal region alive and generates them one at a
// time, nearest first, so that a game loop can spread the work over its ticks.
type Streamer struct {
	maps   *RegionMaps
	gen    ChunkGenerator
	center Region
	radius int
	log    *logrus.Entry
}

func NewStreamer(maps *RegionMaps, gen ChunkGenerator, log *logrus.Entry) *Streamer {
	if log == nil {
		log = logging.Discard()
	}
	return &Streamer{maps: maps, gen: gen, log: log.WithField("component", "streamer")}
}

func (s *Streamer) Center() Region { return s.center }

// Focus moves the active window: chunks entering radius are created, chunks leaving it
// are evicted.
func (s *Streamer) Focus(center Region, radius int) (created, evicted int) {
	defer profiling.Track("world.Streamer.Focus")()
	s.center, s.radius = center, radius
	created = s.maps.Init(center, radius)
	evicted = s.maps.Prune(center, radius)
	if created > 0 || evicted > 0 {
		s.log.WithFields(logrus.Fields{
			"center":  center.String(),
			"created": created,
			"evicted": evicted,
		}).Debug("focus moved")
	}
	return created, evicted
}

// FocusAt focuses on the region holding the world-space position pos.
func (s *Streamer) FocusAt(pos mgl32.Vec2, radius int) Region {
	w, h := s.maps.ChunkSize()
	p := grid.Pos(int(math.Floor(float64(pos.X()))), int(math.Floor(float64(pos.Y()))))
	r, _ := RegionOf(p, w, h)
	s.Focus(r, radius)
	return r
}

// Step populates the nearest unpopulated chunk. It reports false when every chunk in
// the window is ready.
func (s *Streamer) Step() (Region, bool) {
	pending := s.maps.Unpopulated(s.center)
	if len(pending) == 0 {
		return Region{}, false
	}
	r := pending[0]
	a := s.maps.Get(r)
	if err := s.gen.PopulateChunk(a); err != nil {
		s.log.WithError(err).WithField("region", r.String()).Warn("chunk generated with errors")
	}
	// Not every ChunkGenerator marks its chunk; a chunk left pending would be retried forever.
	a.populated = true
	return r, true
}

// StreamAroundSync populates every pending chunk in the window. Returns how many were
// generated.
func (s *Streamer) StreamAroundSync() int {
	defer profiling.Track("world.StreamAroundSync")()
	n := 0
	for {
		if _, ok := s.Step(); !ok {
			return n
		}
		n++
	}
}
