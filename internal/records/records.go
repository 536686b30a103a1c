// Package records keeps the best completion time per board configuration.
package records

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-light/internal/config"
	"github.com/vancomm/minesweeper-light/internal/database"
	"github.com/vancomm/minesweeper-light/internal/mines"
)

//go:embed migrations/*.sql
var Migrations embed.FS

var Log = logrus.New()

var (
	ErrNoRecord      = fmt.Errorf("no record yet")
	ErrBadName       = fmt.Errorf("bad name for store")
	ErrUnknownDriver = fmt.Errorf("unknown records driver")
)

type Record struct {
	Params     mines.GameParams `json:"params"`
	Seconds    int              `json:"seconds"`
	RecordedAt time.Time        `json:"recorded_at"`
}

// Store persists best times. Implementations are safe for concurrent use.
type Store interface {
	// Best returns [ErrNoRecord] if no game with params was ever won.
	Best(ctx context.Context, params mines.GameParams) (Record, error)
	// Submit stores seconds if it beats the current best and reports
	// whether it did.
	Submit(ctx context.Context, params mines.GameParams, seconds int) (bool, error)
	Close() error
}

func Open(ctx context.Context, cfg config.RecordsConfig) (Store, error) {
	Log.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"path":   cfg.Path,
	}).Debug("opening records store")

	switch cfg.Driver {
	case "file":
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		return OpenSQLite(cfg.Path)
	case "postgres":
		if cfg.Migrate {
			db, migrator, err := database.ConnectAndMigrate(ctx, cfg.Postgres, Migrations)
			if err != nil {
				return nil, err
			}
			migrator.Close()
			return NewPostgresStore(db), nil
		}
		db, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func timeNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func validSubmission(params mines.GameParams, seconds int) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if seconds < 0 {
		return fmt.Errorf("completion time must not be negative, got %d", seconds)
	}
	return nil
}
