package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-light/internal/mines"
)

// FileStore keeps records in a single JSON document keyed by game params
// seed. A missing or empty file holds no records.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileEntry struct {
	Seconds    int       `json:"seconds"`
	RecordedAt time.Time `json:"recorded_at"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (map[string]fileEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]fileEntry{}, nil
	} else if err != nil {
		return nil, err
	}
	doc := map[string]fileEntry{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed records file %s: %w", s.path, err)
	}
	return doc, nil
}

// store replaces the file in one rename so readers never see a partial write.
func (s *FileStore) store(doc map[string]fileEntry) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.path)
}

func (s *FileStore) Best(ctx context.Context, params mines.GameParams) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return Record{}, err
	}
	e, ok := doc[params.Seed()]
	if !ok {
		return Record{}, ErrNoRecord
	}
	return Record{Params: params, Seconds: e.Seconds, RecordedAt: e.RecordedAt}, nil
}

func (s *FileStore) Submit(ctx context.Context, params mines.GameParams, seconds int) (bool, error) {
	if err := validSubmission(params, seconds); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	seed := params.Seed()
	if e, ok := doc[seed]; ok && e.Seconds <= seconds {
		return false, nil
	}
	doc[seed] = fileEntry{Seconds: seconds, RecordedAt: timeNow()}
	if err := s.store(doc); err != nil {
		return false, fmt.Errorf("unable to write records file %s: %w", s.path, err)
	}

	Log.WithFields(logrus.Fields{
		"seed":    seed,
		"seconds": seconds,
	}).Debug("new best time")
	return true, nil
}

func (s *FileStore) Close() error {
	return nil
}
