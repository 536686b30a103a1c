package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-light/internal/config"
	"github.com/vancomm/minesweeper-light/internal/database"
	"github.com/vancomm/minesweeper-light/internal/logging"
	"github.com/vancomm/minesweeper-light/internal/records"
)

var (
	log = logrus.New()

	configPath string
)

func init() {
	const usage = "config file path (json or yaml)"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("unable to load config: ", err)
	}
	if err := logging.Setup(cfg, log); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	db, migrator, err := database.ConnectAndMigrate(ctx, cfg.Records.Postgres, records.Migrations)
	if err != nil {
		log.Fatal("failed to migrate db: ", err)
	}
	defer db.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
