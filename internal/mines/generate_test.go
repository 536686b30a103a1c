package mines

import (
	"errors"
	"math/rand/v2"
	"testing"

	"pgregory.net/rapid"
)

type reporter interface {
	Helper()
	Errorf(format string, args ...any)
}

// checkBoard verifies the mine count and every adjacency count of b against
// a brute-force recount.
func checkBoard(t reporter, b *Board, params GameParams) {
	t.Helper()
	if have, want := b.MineCount(), params.MineCount(); have != want {
		t.Errorf("%s: have %d mines, want %d", params, have, want)
	}
	seen := make(map[Point]bool)
	for _, p := range b.Mines() {
		if !params.PointInBounds(p.Row, p.Col) {
			t.Errorf("%s: mine %v out of bounds", params, p)
		}
		if seen[p] {
			t.Errorf("%s: duplicate mine %v", params, p)
		}
		seen[p] = true
	}
	for r := range params.Rows {
		for c := range params.Cols {
			cell, err := b.CellKind(r, c)
			if err != nil {
				t.Errorf("%s: %v", params, err)
				return
			}
			if cell.Mine != seen[Point{r, c}] {
				t.Errorf("%s: (%d, %d) mine = %v, not in mine set", params, r, c, cell.Mine)
			}
			if cell.Mine {
				continue
			}
			n := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if (dr != 0 || dc != 0) && seen[Point{r + dr, c + dc}] {
						n++
					}
				}
			}
			if cell.Count != n {
				t.Errorf("%s: (%d, %d) count = %d, want %d", params, r, c, cell.Count, n)
			}
		}
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{name: "default", params: DefaultGameParams},
		{name: "1x1(0)", params: GameParams{Rows: 1, Cols: 1, Density: 0}},
		{name: "1x1(100)", params: GameParams{Rows: 1, Cols: 1, Density: 100}},
		{name: "9x9(12)", params: GameParams{Rows: 9, Cols: 9, Density: 12}},
		{name: "16x30(20)", params: GameParams{Rows: 16, Cols: 30, Density: 20}},
		{name: "5x5(100)", params: GameParams{Rows: 5, Cols: 5, Density: 100}},
		{name: "1x40(50)", params: GameParams{Rows: 1, Cols: 40, Density: 50}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for range 20 {
				b, err := Generate(test.params, r)
				if err != nil {
					t.Fatalf("could not generate board %s: %v", test.name, err)
				}
				checkBoard(t, b, test.params)
			}
		})
	}
}

func TestGenerateMineCount(t *testing.T) {
	testCases := []struct {
		params    GameParams
		mines     int
		safeTiles int
	}{
		{GameParams{10, 10, 12}, 12, 88},
		{GameParams{3, 3, 50}, 4, 5},
		{GameParams{7, 3, 33}, 6, 15},
		{GameParams{1, 1, 99}, 0, 1},
		{GameParams{2, 2, 100}, 4, 0},
	}
	for _, test := range testCases {
		b, err := Generate(test.params, rand.New(rand.NewPCG(1, 2)))
		if err != nil {
			t.Fatal(err)
		}
		if b.MineCount() != test.mines || b.SafeTiles() != test.safeTiles {
			t.Errorf("%s: have %d/%d mines/safe, want %d/%d", test.params,
				b.MineCount(), b.SafeTiles(), test.mines, test.safeTiles)
		}
	}
}

func TestGenerateInvalid(t *testing.T) {
	for _, params := range []GameParams{
		{Rows: 0, Cols: 10, Density: 10},
		{Rows: 10, Cols: -1, Density: 10},
		{Rows: 10, Cols: 10, Density: -1},
		{Rows: 10, Cols: 10, Density: 101},
	} {
		if _, err := Generate(params, nil); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%s: expected ErrInvalidConfiguration, received %v", params, err)
		}
	}
}

func TestGenerateReachesEveryCell(t *testing.T) {
	params := GameParams{Rows: 3, Cols: 3, Density: 12}
	r := rand.New(rand.NewPCG(1, 2))
	hit := make(map[Point]bool)
	for range 500 {
		b, err := Generate(params, r)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range b.Mines() {
			hit[p] = true
		}
	}
	if len(hit) != 9 {
		t.Errorf("mines landed on %d distinct cells, want 9", len(hit))
	}
}

func TestGenerateProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		params := GameParams{
			Rows:    rapid.IntRange(1, 24).Draw(t, "rows"),
			Cols:    rapid.IntRange(1, 24).Draw(t, "cols"),
			Density: rapid.IntRange(0, 100).Draw(t, "density"),
		}
		seed := rapid.Uint64().Draw(t, "seed")
		b, err := Generate(params, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			t.Fatalf("%s: %v", params, err)
		}
		checkBoard(t, b, params)
	})
}
