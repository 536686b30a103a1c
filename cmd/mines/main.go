package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-light/internal/config"
	"github.com/vancomm/minesweeper-light/internal/logging"
	"github.com/vancomm/minesweeper-light/internal/mines"
	"github.com/vancomm/minesweeper-light/internal/records"
)

var (
	log = logrus.New()

	configPath string
	rows       int
	cols       int
	density    int
)

func init() {
	const usage = "config file path (json or yaml)"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.IntVar(&rows, "rows", 0, "board rows, overrides config")
	flag.IntVar(&cols, "cols", 0, "board columns, overrides config")
	flag.IntVar(&density, "density", -1, "mine density in percent, overrides config")
}

func applyFlags(cfg *config.Config) error {
	if rows > 0 {
		cfg.Game.Rows = rows
	}
	if cols > 0 {
		cfg.Game.Cols = cols
	}
	if density >= 0 {
		cfg.Game.Density = density
	}
	return cfg.Game.Validate()
}

// readLines feeds lines from r to out until EOF. It closes out when done.
func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		log.Error("read: ", err)
	}
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("unable to load config: ", err)
	}
	if err := applyFlags(cfg); err != nil {
		log.Fatal("invalid game flags: ", err)
	}
	if err := logging.Setup(cfg, log, mines.Log, records.Log); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	store, err := records.Open(mainCtx, cfg.Records)
	if err != nil {
		log.Fatal("unable to open records store: ", err)
	}
	defer store.Close()

	// The scanner cannot be interrupted, so the reader is left running
	// when the game stops.
	lines := make(chan string)
	go readLines(os.Stdin, lines)

	p := newPlayer(os.Stdout, store, cfg.Game, mines.NewRand())

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return p.Run(gCtx, lines)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("shutting down")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) &&
		!errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		log.Printf("exit reason: %s\n", err)
	}
}
