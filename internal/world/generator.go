package world

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"mini-realm/internal/logging"
	"mini-realm/internal/profiling"
	"mini-realm/pkg/template"
)

// ChunkGenerator fills an area map. The streamer drives any implementation.
type ChunkGenerator interface {
	PopulateChunk(a *AreaMap) error
}

// Generator runs the full chunk pipeline: ground cover, roads, structures, scatter,
// tile connection.
type Generator struct {
	seed        int64
	assets      Assets
	geographies []string
	limits      Limits
	synth       *TileSynthesizer
	log         *logrus.Entry
}

// NewGenerator creates a generator for world seed. Regions pick among geographies by
// low-frequency noise; a single entry pins every region to it.
func NewGenerator(seed int64, assets Assets, geographies []string, limits Limits, log *logrus.Entry) *Generator {
	if log == nil {
		log = logging.Discard()
	}
	return &Generator{
		seed:        seed,
		assets:      assets,
		geographies: geographies,
		limits:      limits,
		synth:       NewTileSynthesizer(seed, assets),
		log:         log.WithField("component", "generator"),
	}
}

// GeographyAt returns the geography region r is generated from.
func (g *Generator) GeographyAt(r Region) (*template.Geography, error) {
	name := GeographyFor(g.geographies, g.seed, r)
	if name == "" {
		return nil, errors.New("no geographies configured")
	}
	return g.assets.Geography(name)
}

// PopulateChunk generates a. The chunk is always marked populated, carrying whatever
// layers succeeded; layer failures are joined into the returned error.
func (g *Generator) PopulateChunk(a *AreaMap) error {
	defer profiling.Track("world.PopulateChunk")()
	defer func() { a.populated = true }()

	geo, err := g.GeographyAt(a.region)
	if err != nil {
		return fmt.Errorf("region %v: %w", a.region, err)
	}
	a.geography = geo
	log := g.log.WithFields(logrus.Fields{"region": a.region.String(), "geography": geo.Name})

	var errs []error
	if err := g.synth.LayGroundCover(a, geo); err != nil {
		errs = append(errs, fmt.Errorf("ground cover: %w", err))
	}
	if err := g.synth.LayRoads(a, geo); err != nil {
		errs = append(errs, err)
	}

	ctx := &GenContext{
		RNG:       chunkRNG(g.seed, a.region, 0),
		Assets:    g.assets,
		Geography: geo,
		Limits:    g.limits,
		Log:       log,
		Seed:      g.seed,
		Region:    a.region,
	}
	stats, err := Build(ctx, a)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoStructures), errors.Is(err, ErrAnchorsExhausted):
		log.WithError(err).Debug("structure budget cut short")
	default:
		log.WithError(err).Warn("structure pass failed")
	}

	if err := g.synth.ScatterObjects(a, geo); err != nil {
		errs = append(errs, fmt.Errorf("scatter: %w", err))
	}

	table, err := g.assets.ConnectTable()
	if err != nil {
		errs = append(errs, fmt.Errorf("connect table: %w", err))
	} else {
		ConnectTiles(a.tiles, table)
	}

	log.WithFields(logrus.Fields{
		"placed":   stats.Placed,
		"nested":   stats.Nested,
		"failed":   stats.Failed,
		"attempts": stats.Attempts,
	}).Debug("chunk populated")
	return errors.Join(errs...)
}
