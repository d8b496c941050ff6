package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"mini-realm/internal/config"
	"mini-realm/internal/preview"
	"mini-realm/internal/profiling"
	"mini-realm/internal/world"
)

// runWalk generates the window around the origin, then moves the focal point east one
// region per step, streaming one chunk per tick like a game loop would.
func runWalk(cfg *config.Config, app *Realm, log *logrus.Entry) error {
	start := time.Now()
	app.Streamer.FocusAt(mgl32.Vec2{0, 0}, cfg.World.Radius)
	n := app.Streamer.StreamAroundSync()
	log.WithFields(logrus.Fields{
		"chunks":  n,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("initial window generated")

	chunkW, _ := app.Maps.ChunkSize()
	for step := 1; step <= cfg.Walk.Steps; step++ {
		center := world.Region{X: step, Y: 0}
		created, evicted := app.Streamer.Focus(center, cfg.World.Radius)
		ticks := 0
		for {
			if _, ok := app.Streamer.Step(); !ok {
				break
			}
			ticks++
		}
		log.WithFields(logrus.Fields{
			"center":  center.String(),
			"x":       step * chunkW,
			"created": created,
			"evicted": evicted,
			"ticks":   ticks,
		}).Info("walked")
	}

	if !app.Maps.Populated() {
		return fmt.Errorf("window around %v not fully populated", app.Streamer.Center())
	}
	logPlacements(app, log)

	tiles := preview.Stitch(app.Maps)
	if cfg.Output.ASCII {
		if err := preview.ASCII(os.Stdout, tiles); err != nil {
			return err
		}
	}
	if cfg.Output.PNG != "" {
		if err := preview.WritePNG(cfg.Output.PNG, tiles, cfg.Output.Scale); err != nil {
			return err
		}
		log.WithField("path", cfg.Output.PNG).Info("preview written")
	}

	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		log.Debug("stage timings\n" + profiling.TopN(10))
	}
	return nil
}

func logPlacements(app *Realm, log *logrus.Entry) {
	for _, r := range app.Maps.Regions() {
		a := app.Maps.Get(r)
		if len(a.Placements()) == 0 {
			continue
		}
		names := map[string]int{}
		for _, pl := range a.Placements() {
			names[pl.Name]++
		}
		log.WithFields(logrus.Fields{
			"region":     r.String(),
			"geography":  a.Geography().Name,
			"structures": names,
		}).Debug("structures placed")
	}
}
