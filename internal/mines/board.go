package mines

import (
	"fmt"
	"strings"
)

// Mine marks a mined cell in place of an adjacency count.
const Mine int8 = -1

type Point struct {
	Row, Col int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Cell is what a board holds at a single coordinate.
type Cell struct {
	Mine  bool
	Count int
}

// Board is an immutable mine layout with precomputed adjacency counts.
type Board struct {
	rows, cols int
	cells      []int8
	mines      []Point
}

// NewBoard builds a board with mines at exactly the given points. The points
// must be distinct and lie within rows x cols.
func NewBoard(rows, cols int, mineSet []Point) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: board must be at least 1x1, got %dx%d",
			ErrInvalidConfiguration, rows, cols)
	}
	seen := make(map[Point]struct{}, len(mineSet))
	for _, p := range mineSet {
		if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
			return nil, fmt.Errorf("%w: mine %v outside %dx%d",
				ErrInvalidConfiguration, p, rows, cols)
		}
		if _, ok := seen[p]; ok {
			return nil, fmt.Errorf("%w: duplicate mine %v", ErrInvalidConfiguration, p)
		}
		seen[p] = struct{}{}
	}
	return newBoard(rows, cols, mineSet), nil
}

// newBoard trusts mineSet to be distinct and in bounds.
func newBoard(rows, cols int, mineSet []Point) *Board {
	b := &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]int8, rows*cols),
		mines: append([]Point(nil), mineSet...),
	}
	for _, p := range b.mines {
		b.cells[p.Row*cols+p.Col] = Mine
	}
	for _, p := range b.mines {
		neighbours(rows, cols, p.Row, p.Col, func(r, c int) {
			if i := r*cols + c; b.cells[i] != Mine {
				b.cells[i]++
			}
		})
	}
	return b
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

func (b *Board) MineCount() int {
	return len(b.mines)
}

func (b *Board) SafeTiles() int {
	return b.rows*b.cols - len(b.mines)
}

// Mines returns a copy of the mine set in placement order.
func (b *Board) Mines() []Point {
	return append([]Point(nil), b.mines...)
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

func (b *Board) CellKind(row, col int) (Cell, error) {
	if !b.InBounds(row, col) {
		return Cell{}, outOfBounds(row, col, b.rows, b.cols)
	}
	v := b.cells[row*b.cols+col]
	if v == Mine {
		return Cell{Mine: true}, nil
	}
	return Cell{Count: int(v)}, nil
}

// IsMine reports false for out-of-bounds coordinates.
func (b *Board) IsMine(row, col int) bool {
	return b.InBounds(row, col) && b.cells[row*b.cols+col] == Mine
}

func (b *Board) at(i int) int8 {
	return b.cells[i]
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := range b.rows {
		for c := range b.cols {
			v := b.cells[r*b.cols+c]
			if v == Mine {
				sb.WriteString("* ")
			} else {
				fmt.Fprintf(&sb, "%d ", v)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
