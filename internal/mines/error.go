package mines

import "fmt"

var (
	ErrInvalidConfiguration = fmt.Errorf("invalid board configuration")
	ErrOutOfBounds          = fmt.Errorf("cell out of bounds")
)

func outOfBounds(row, col, rows, cols int) error {
	return fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrOutOfBounds, row, col, rows, cols)
}
