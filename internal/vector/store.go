package vector

import "fmt"

// Store holds the corpus's normalized document vectors and their shared
// term dimensionality. Read-only after construction; queries may use it
// concurrently without locking.
type Store struct {
	vectors    []SparseVector
	dimensions int
}

// NewStore creates a store over an ordered sequence of normalized vectors,
// fixing N and the vocabulary size D. Every vector's term IDs must lie in
// [0, D); a vector referencing a term outside that range is rejected.
func NewStore(vectors []SparseVector, dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}
	for i, v := range vectors {
		for _, t := range v.Terms {
			if t < 0 || t >= dimensions {
				return nil, &ErrDimensionMismatch{Expected: dimensions, Actual: t + 1}
			}
		}
		if len(v.Terms) != len(v.Weights) {
			return nil, fmt.Errorf("vector %d: terms and weights length mismatch", i)
		}
	}
	return &Store{vectors: vectors, dimensions: dimensions}, nil
}

// Len returns the number of stored vectors.
func (s *Store) Len() int {
	return len(s.vectors)
}

// Dimensions returns the vocabulary size D shared by all vectors.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// At returns the vector at document index i.
func (s *Store) At(i int) SparseVector {
	return s.vectors[i]
}
