package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"mini-realm/internal/config"
	"mini-realm/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logrus.NewEntry(logger).WithField("seed", cfg.World.Seed)

	app, err := setupRealm(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("setup failed")
	}
	defer app.Close()

	if err := runWalk(cfg, app, log); err != nil {
		log.WithError(err).Fatal("generation failed")
	}
}
