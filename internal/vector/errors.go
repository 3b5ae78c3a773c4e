package vector

import (
	"errors"
	"fmt"
)

// ErrDegenerateVector is returned when a vector with zero L2 norm is
// normalized or searched with.
var ErrDegenerateVector = errors.New("degenerate vector: zero norm")

// ErrDimensionMismatch indicates a vector whose dimensionality does not
// match the store's vocabulary size.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
