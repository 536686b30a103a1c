package mines

import (
	"fmt"
	"strings"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// GameParams describe a board before it is generated. Density is the
// percentage of cells that hold a mine, rounded down.
type GameParams struct {
	Rows    int `schema:"rows" json:"rows" mapstructure:"rows"`
	Cols    int `schema:"cols" json:"cols" mapstructure:"cols"`
	Density int `schema:"density" json:"density" mapstructure:"density"`
}

var DefaultGameParams = GameParams{Rows: 10, Cols: 10, Density: 12}

func (p GameParams) Unpack() (rows int, cols int, density int) {
	return p.Rows, p.Cols, p.Density
}

func (p GameParams) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d",
			ErrInvalidConfiguration, p.Rows, p.Cols)
	}
	if p.Density < 0 || p.Density > 100 {
		return fmt.Errorf("%w: density must be within [0, 100], got %d",
			ErrInvalidConfiguration, p.Density)
	}
	return nil
}

// MineCount is floor(rows*cols*density/100).
func (p GameParams) MineCount() int {
	return p.Rows * p.Cols * p.Density / 100
}

func (p GameParams) SafeTiles() int {
	return p.Rows*p.Cols - p.MineCount()
}

func (p GameParams) PointInBounds(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.Density)
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d%%)", p.Rows, p.Cols, p.Density)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Cols, &p.Density)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseGameParams decodes rows, cols and density from form-like values.
// Keys that are absent keep their [DefaultGameParams] value.
func ParseGameParams(src map[string][]string) (GameParams, error) {
	return DefaultGameParams.Override(src)
}

// Override returns a copy of p with the keys present in src replaced.
func (p GameParams) Override(src map[string][]string) (GameParams, error) {
	if err := decoder.Decode(&p, src); err != nil {
		return GameParams{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if err := p.Validate(); err != nil {
		return GameParams{}, err
	}
	return p, nil
}
