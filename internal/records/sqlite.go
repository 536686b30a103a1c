package records

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-light/internal/mines"
)

// SQLiteStore keeps gob-encoded records in a key/value table.
type SQLiteStore struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return true
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}
	s, err := NewSQLiteStore(db, "best_time")
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Creates a new [SQLiteStore] backed by table name. name may only contain
// Latin letters and underscores since it is spliced into SQL.
func NewSQLiteStore(db *sql.DB, name string) (*SQLiteStore, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + name + ` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{name: name, db: db}
	return s, nil
}

// get decodes the value under key into value, which must be a pointer.
func (s *SQLiteStore) get(ctx context.Context, key string, value any) error {
	var v []uint8
	if err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+s.name+` WHERE key = ?;`,
		key).Scan(&v); err == sql.ErrNoRows {
		return ErrNoRecord
	} else if err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
}

// set inserts a new key-value pair or updates an existing one.
func (s *SQLiteStore) set(ctx context.Context, key string, value any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.name+` (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		key, buf.Bytes())
	return err
}

func (s *SQLiteStore) Best(ctx context.Context, params mines.GameParams) (Record, error) {
	var rec Record
	if err := s.get(ctx, params.Seed(), &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLiteStore) Submit(ctx context.Context, params mines.GameParams, seconds int) (bool, error) {
	if err := validSubmission(params, seconds); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seed := params.Seed()
	var current Record
	switch err := s.get(ctx, seed, &current); err {
	case nil:
		if current.Seconds <= seconds {
			return false, nil
		}
	case ErrNoRecord:
	default:
		return false, err
	}

	rec := Record{Params: params, Seconds: seconds, RecordedAt: timeNow()}
	if err := s.set(ctx, seed, rec); err != nil {
		return false, err
	}

	Log.WithFields(logrus.Fields{
		"seed":    seed,
		"seconds": seconds,
	}).Debug("new best time")
	return true, nil
}

// Deletes the record for params without checking if it existed.
func (s *SQLiteStore) Delete(ctx context.Context, params mines.GameParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.name+` WHERE key = ?;`, params.Seed())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
