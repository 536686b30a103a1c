package mines

import "github.com/sirupsen/logrus"

// CellState is the reveal state of a single cell within a session.
type CellState int8

const (
	Hidden CellState = iota
	Revealed
	Flagged
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "invalid"
	}
}

type Outcome int8

const (
	Ongoing Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "invalid"
	}
}

// RevealResult describes the cells a single reveal opened.
type RevealResult struct {
	Opened  []Point
	Outcome Outcome
}

type FlagResult struct {
	State CellState
}

// Session tracks one game played on an immutable [Board]. It is not safe for
// concurrent use; callers serialise input events.
type Session struct {
	board        *Board
	state        []CellState
	revealedSafe int
	flags        int
	outcome      Outcome

	exploded     int          // index of the mine that ended the game, -1 otherwise
	correctFlags map[int]bool // mines that were flagged when the game was lost
}

func NewSession(board *Board) *Session {
	return &Session{
		board:    board,
		state:    make([]CellState, board.rows*board.cols),
		exploded: -1,
	}
}

func (s *Session) Board() *Board { return s.board }

func (s *Session) Outcome() Outcome { return s.outcome }

func (s *Session) Terminal() bool {
	return s.outcome != Ongoing
}

func (s *Session) RevealedSafeCount() int { return s.revealedSafe }

func (s *Session) FlagCount() int { return s.flags }

// MinesLeft is the number of mines not accounted for by flags. It goes
// negative when the player places more flags than there are mines.
func (s *Session) MinesLeft() int {
	return s.board.MineCount() - s.flags
}

func (s *Session) State(row, col int) (CellState, error) {
	if !s.board.InBounds(row, col) {
		return Hidden, outOfBounds(row, col, s.board.rows, s.board.cols)
	}
	return s.state[row*s.board.cols+col], nil
}

// Reveal opens the cell at (row, col). Flagged or already revealed cells and
// any cell of a finished game are left untouched and yield an empty result.
func (s *Session) Reveal(row, col int) (RevealResult, error) {
	if !s.board.InBounds(row, col) {
		return RevealResult{Outcome: s.outcome},
			outOfBounds(row, col, s.board.rows, s.board.cols)
	}
	i := row*s.board.cols + col
	if s.Terminal() || s.state[i] != Hidden {
		return RevealResult{Outcome: s.outcome}, nil
	}

	if s.board.at(i) == Mine {
		return s.explode(i), nil
	}

	opened := s.open(i)
	if s.revealedSafe == s.board.SafeTiles() {
		s.outcome = Won
		Log.WithFields(logrus.Fields{
			"cell":     Point{row, col},
			"revealed": s.revealedSafe,
		}).Debug("game won")
	}
	return RevealResult{Opened: opened, Outcome: s.outcome}, nil
}

// explode ends the game and exposes every mine on the board.
func (s *Session) explode(i int) RevealResult {
	s.outcome = Lost
	s.exploded = i
	s.correctFlags = make(map[int]bool)

	opened := s.board.Mines()
	for _, p := range opened {
		j := p.Row*s.board.cols + p.Col
		if s.state[j] == Flagged {
			s.flags--
			s.correctFlags[j] = true
		}
		s.state[j] = Revealed
	}

	Log.WithFields(logrus.Fields{
		"cell":  Point{i / s.board.cols, i % s.board.cols},
		"mines": len(opened),
	}).Debug("game lost")
	return RevealResult{Opened: opened, Outcome: s.outcome}
}

/*
open reveals the safe cell at start and floods through every zero-count
cell reachable from it. Cells are marked revealed when queued, so each is
queued once. Neighbours of a zero-count cell are never mines; flags on them
are cleared as they are opened.
*/
func (s *Session) open(start int) []Point {
	rows, cols := s.board.rows, s.board.cols
	todo := newCellTodo(len(s.state))

	s.state[start] = Revealed
	todo.add(start)

	var opened []Point
	for i, ok := todo.pop(); ok; i, ok = todo.pop() {
		row, col := i/cols, i%cols
		opened = append(opened, Point{row, col})
		s.revealedSafe++

		if s.board.at(i) != 0 {
			continue
		}
		neighbours(rows, cols, row, col, func(r, c int) {
			j := r*cols + c
			switch s.state[j] {
			case Revealed:
				return
			case Flagged:
				s.flags--
			}
			s.state[j] = Revealed
			todo.add(j)
		})
	}
	return opened
}

// ToggleFlag flips a hidden cell to flagged and back. Revealed cells and
// finished games are left untouched; the result carries the current state.
func (s *Session) ToggleFlag(row, col int) (FlagResult, error) {
	if !s.board.InBounds(row, col) {
		return FlagResult{}, outOfBounds(row, col, s.board.rows, s.board.cols)
	}
	i := row*s.board.cols + col
	if s.Terminal() {
		return FlagResult{State: s.state[i]}, nil
	}
	switch s.state[i] {
	case Hidden:
		s.state[i] = Flagged
		s.flags++
	case Flagged:
		s.state[i] = Hidden
		s.flags--
	}
	return FlagResult{State: s.state[i]}, nil
}

// View renders the session as the player sees it. After a loss every mine is
// shown, along with flags that were placed on safe cells.
func (s *Session) View() Grid {
	g := make(Grid, len(s.state))
	for i, st := range s.state {
		mine := s.board.at(i) == Mine
		switch {
		case st == Revealed && i == s.exploded:
			g[i] = ExplodedMine
		case st == Revealed && mine && s.correctFlags[i]:
			g[i] = CorrectFlag
		case st == Revealed && mine:
			g[i] = UnflaggedMine
		case st == Revealed:
			g[i] = CellStatus(s.board.at(i))
		case st == Flagged && s.outcome == Lost:
			g[i] = WrongFlag
		case st == Flagged:
			g[i] = Flag
		case mine && s.outcome == Won:
			g[i] = UnflaggedMine
		default:
			g[i] = Unknown
		}
	}
	return g
}
