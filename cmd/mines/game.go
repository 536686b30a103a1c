package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-light/internal/mines"
	"github.com/vancomm/minesweeper-light/internal/records"
)

// player drives one session at a time from text commands and renders the
// result to out.
type player struct {
	out    io.Writer
	store  records.Store
	rnd    *rand.Rand
	now    func() time.Time
	params mines.GameParams

	session   *mines.Session
	startedAt time.Time
	best      *records.Record
}

func newPlayer(out io.Writer, store records.Store, params mines.GameParams, rnd *rand.Rand) *player {
	return &player{
		out:    out,
		store:  store,
		rnd:    rnd,
		now:    time.Now,
		params: params,
	}
}

func (p *player) newGame(ctx context.Context, params mines.GameParams) error {
	board, err := mines.Generate(params, p.rnd)
	if err != nil {
		return err
	}
	return p.start(ctx, params, board)
}

// start begins a session on board. The best time is read once here.
func (p *player) start(ctx context.Context, params mines.GameParams, board *mines.Board) error {
	p.params = params
	p.session = mines.NewSession(board)
	p.startedAt = p.now()
	p.best = nil

	rec, err := p.store.Best(ctx, params)
	switch {
	case err == nil:
		p.best = &rec
	case errors.Is(err, records.ErrNoRecord):
	default:
		log.WithError(err).Warn("unable to read best time")
	}

	log.WithFields(logrus.Fields{
		"params": params.String(),
		"mines":  board.MineCount(),
	}).Info("new game")
	p.render()
	return nil
}

func (p *player) reveal(ctx context.Context, row, col int) error {
	res, err := p.session.Reveal(row, col)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"cell":    fmt.Sprintf("(%d, %d)", row, col),
		"opened":  len(res.Opened),
		"outcome": res.Outcome.String(),
	}).Debug("reveal")
	p.render()

	switch res.Outcome {
	case mines.Lost:
		if len(res.Opened) > 0 {
			fmt.Fprintln(p.out, "Boom! You hit a mine. Game over!")
		}
	case mines.Won:
		if len(res.Opened) > 0 {
			p.finish(ctx)
		}
	}
	return nil
}

func (p *player) flag(row, col int) error {
	if _, err := p.session.ToggleFlag(row, col); err != nil {
		return err
	}
	p.render()
	return nil
}

// finish records the completion time of a won game; it is written once.
func (p *player) finish(ctx context.Context) {
	seconds := int(p.now().Sub(p.startedAt) / time.Second)
	fmt.Fprintf(p.out, "Clear! Time: %ds\n", seconds)

	improved, err := p.store.Submit(ctx, p.params, seconds)
	if err != nil {
		log.WithError(err).Error("unable to save best time")
		return
	}
	if improved {
		fmt.Fprintf(p.out, "%ds is the new record!\n", seconds)
		p.best = &records.Record{Params: p.params, Seconds: seconds, RecordedAt: p.now()}
	}
}

func (p *player) bestTime() string {
	if p.best == nil {
		return "N/A"
	}
	return fmt.Sprintf("%ds", p.best.Seconds)
}

func (p *player) render() {
	if p.session == nil {
		return
	}
	board := p.session.Board()
	view := p.session.View()

	var b strings.Builder
	fmt.Fprintf(&b, "Best time: %s  Mines left: %d  [%s]\n",
		p.bestTime(), p.session.MinesLeft(), p.session.Outcome())
	fmt.Fprint(&b, "    ")
	for c := range board.Cols() {
		fmt.Fprintf(&b, "%-2d", c%100)
	}
	fmt.Fprint(&b, "\n")
	for r, line := range strings.Split(strings.TrimSuffix(view.ToString(board.Cols()), "\n"), "\n") {
		fmt.Fprintf(&b, "%3d %s\n", r, line)
	}
	fmt.Fprint(p.out, b.String())
}

// Run starts a game with the configured params and executes lines until the
// player quits or ctx is cancelled. It returns io.EOF once lines is closed.
func (p *player) Run(ctx context.Context, lines <-chan string) error {
	if err := p.newGame(ctx, p.params); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return io.EOF
			}
			if err := p.execute(ctx, line); errors.Is(err, errQuit) {
				return err
			} else if err != nil {
				fmt.Fprintln(p.out, "error:", err)
			}
		}
	}
}
