package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errQuit = errors.New("quit")

// Maps known commands to number of arguments, -1 for any
var commandNargs = map[string]int{
	"o": 2,
	"f": 2,
	"n": -1,
	"p": 0,
	"h": 0,
	"q": 0,
}

const helpText = `commands (separate several with ';'):
  o ROW COL                      reveal a cell
  f ROW COL                      toggle a flag
  n [rows=R] [cols=C] [density=D] start a new game
  p                              print the board
  h                              show this help
  q                              quit
`

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("row must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("column must be an int")
		return
	}
	return
}

// parseKeyValues turns ["rows=16", "density=20"] into form values.
func parseKeyValues(args []string) (map[string][]string, error) {
	src := make(map[string][]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		src[k] = append(src[k], v)
	}
	return src, nil
}

func (p *player) executeCommand(ctx context.Context, c string) error {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return nil
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs >= 0 && nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "o":
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return err
		}
		return p.reveal(ctx, row, col)
	case "f":
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return err
		}
		return p.flag(row, col)
	case "n":
		src, err := parseKeyValues(parts[1:])
		if err != nil {
			return err
		}
		params, err := p.params.Override(src)
		if err != nil {
			return err
		}
		return p.newGame(ctx, params)
	case "p":
		p.render()
		return nil
	case "h":
		fmt.Fprint(p.out, helpText)
		return nil
	case "q":
		return errQuit
	}
	return errors.New("invalid command")
}

// execute runs every ';'-separated command on line, stopping at the first
// failure.
func (p *player) execute(ctx context.Context, line string) error {
	for _, c := range byPiece(strings.TrimSpace(line), ";") {
		if err := p.executeCommand(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
