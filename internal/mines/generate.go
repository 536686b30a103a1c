package mines

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// NewRand returns a generator seeded from the runtime's random hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Generate lays out exactly params.MineCount() mines. If r is nil a freshly
// seeded generator is used.
func Generate(params GameParams, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}
	rows, cols, _ := params.Unpack()
	mineCount := params.MineCount()

	/*
	 * Write down every cell, then pick mineCount of them off the list:
	 * each pick swaps the chosen entry with the last live one so it is
	 * never drawn again.
	 */
	candidates := make([]int, rows*cols)
	for i := range candidates {
		candidates[i] = i
	}
	mineSet := make([]Point, 0, mineCount)
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		c := candidates[i]
		mineSet = append(mineSet, Point{Row: c / cols, Col: c % cols})
		k--
		candidates[i] = candidates[k]
	}

	b := newBoard(rows, cols, mineSet)
	Log.WithFields(logrus.Fields{
		"params":    params.String(),
		"mines":     b.MineCount(),
		"safeTiles": b.SafeTiles(),
	}).Debug("generated board")
	return b, nil
}
