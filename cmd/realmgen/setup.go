package main

import (
	"github.com/sirupsen/logrus"

	"mini-realm/internal/config"
	"mini-realm/internal/world"
	"mini-realm/pkg/template"
)

// Realm holds the initialised generation components.
type Realm struct {
	Library   *template.Library
	Maps      *world.RegionMaps
	Generator *world.Generator
	Streamer  *world.Streamer
}

func setupRealm(cfg *config.Config, log *logrus.Entry) (*Realm, error) {
	lib, err := template.LoadDir(cfg.Assets.Path)
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.World.GeographyList() {
		if _, err := lib.Geography(name); err != nil {
			lib.Close()
			return nil, err
		}
	}
	log.WithFields(logrus.Fields{
		"assets":      cfg.Assets.Path,
		"geographies": lib.Geographies(),
	}).Info("templates loaded")

	maps := world.NewRegionMaps(cfg.World.ChunkWidth, cfg.World.ChunkHeight)
	gen := world.NewGenerator(cfg.World.Seed, lib, cfg.World.GeographyList(), cfg.Limits, log)
	return &Realm{
		Library:   lib,
		Maps:      maps,
		Generator: gen,
		Streamer:  world.NewStreamer(maps, gen, log),
	}, nil
}

func (r *Realm) Close() { r.Library.Close() }
