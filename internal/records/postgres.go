package records

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-light/internal/mines"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db}
}

type bestTime struct {
	Seed       string    `db:"seed"`
	BoardRows  int       `db:"board_rows"`
	BoardCols  int       `db:"board_cols"`
	Density    int       `db:"density"`
	Seconds    int       `db:"seconds"`
	RecordedAt time.Time `db:"recorded_at"`
}

func (b bestTime) Record() Record {
	return Record{
		Params: mines.GameParams{
			Rows: b.BoardRows, Cols: b.BoardCols, Density: b.Density,
		},
		Seconds:    b.Seconds,
		RecordedAt: b.RecordedAt,
	}
}

func (s *PostgresStore) Best(ctx context.Context, params mines.GameParams) (Record, error) {
	rows, _ := s.db.Query(
		ctx,
		`SELECT seed, board_rows, board_cols, density, seconds, recorded_at
		FROM best_time
		WHERE seed = $1`,
		params.Seed(),
	)
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[bestTime])
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNoRecord
	} else if err != nil {
		return Record{}, err
	}
	return b.Record(), nil
}

// Submit inserts a first record and falls back to a conditional update when
// the seed is already present.
func (s *PostgresStore) Submit(ctx context.Context, params mines.GameParams, seconds int) (bool, error) {
	if err := validSubmission(params, seconds); err != nil {
		return false, err
	}

	args := pgx.NamedArgs{
		"seed":       params.Seed(),
		"board_rows": params.Rows,
		"board_cols": params.Cols,
		"density":    params.Density,
		"seconds":    seconds,
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO best_time (
			seed, board_rows, board_cols, density, seconds
		)
		VALUES (
			@seed, @board_rows, @board_cols, @density, @seconds
		)`,
		args,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		tag, err := s.db.Exec(ctx, `
			UPDATE best_time
			SET seconds = @seconds, recorded_at = now()
			WHERE seed = @seed AND seconds > @seconds`,
			args,
		)
		if err != nil {
			return false, err
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}
	} else if err != nil {
		return false, err
	}

	Log.WithFields(logrus.Fields(args)).Debug("new best time")
	return true, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
