package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellStatus is what a player is shown for a single cell.
type CellStatus int8

const (
	Unknown       CellStatus = -2
	Flag          CellStatus = -1
	CorrectFlag   CellStatus = 64 // post-game-over
	ExplodedMine  CellStatus = 65
	WrongFlag     CellStatus = 66
	UnflaggedMine CellStatus = 67
	// 0-8 for an opened cell with given number of mined neighbours
)

func (s CellStatus) String() string {
	switch {
	case s == Unknown:
		return "-"
	case s == Flag, s == CorrectFlag:
		return "F"
	case s == WrongFlag:
		return "x"
	case s == ExplodedMine:
		return "#"
	case s == UnflaggedMine:
		return "*"
	case s == 0:
		return "."
	case 1 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Opened reports whether s is an adjacency count.
func (s CellStatus) Opened() bool {
	return 0 <= s && s <= 8
}

// Grid is a row-major player view of a board.
type Grid []CellStatus

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
