package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-light/internal/mines"
)

func TestFileStore(t *testing.T) {
	testStore(t, NewFileStore(filepath.Join(t.TempDir(), "highscore.json")))
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := NewFileStore(path).Best(context.Background(), mines.DefaultGameParams)
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.json")
	require.NoError(t, os.WriteFile(path, []byte("12"), 0o644))

	_, err := NewFileStore(path).Best(context.Background(), mines.DefaultGameParams)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRecord)
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.json")
	ctx := context.Background()

	_, err := NewFileStore(path).Submit(ctx, mines.DefaultGameParams, 33)
	require.NoError(t, err)

	rec, err := NewFileStore(path).Best(ctx, mines.DefaultGameParams)
	require.NoError(t, err)
	assert.Equal(t, 33, rec.Seconds)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}
