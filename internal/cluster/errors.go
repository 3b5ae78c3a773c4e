package cluster

import "fmt"

// ErrInvalidClusterCount indicates a requested cluster count outside [1, N].
type ErrInvalidClusterCount struct {
	K int
	N int
}

func (e *ErrInvalidClusterCount) Error() string {
	return fmt.Sprintf("invalid cluster count %d: must be in [1, %d]", e.K, e.N)
}
