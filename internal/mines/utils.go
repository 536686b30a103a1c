package mines

// celltodo is an intrusive FIFO of cell indices. A cell is queued at most
// once as long as callers mark it before calling add.
type celltodo struct {
	next       []int
	head, tail int
}

func newCellTodo(n int) *celltodo {
	return &celltodo{next: make([]int, n), head: -1, tail: -1}
}

func (std *celltodo) add(i int) {
	if std.tail >= 0 {
		std.next[std.tail] = i
	} else {
		std.head = i
	}
	std.tail = i
	std.next[i] = -1
}

func (std *celltodo) pop() (int, bool) {
	if std.head < 0 {
		return 0, false
	}
	i := std.head
	std.head = std.next[i]
	if std.head < 0 {
		std.tail = -1
	}
	return i, true
}

// neighbours calls fn with the index of every in-bounds cell around (row, col),
// excluding the cell itself.
func neighbours(rows, cols, row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if 0 <= r && r < rows && 0 <= c && c < cols {
				fn(r, c)
			}
		}
	}
}
