// Package vector provides sparse unit-norm document vectors and the
// read-only store the clustering and search layers operate on.
package vector

import "math"

// SparseVector is a sparse term-weight vector stored as parallel slices.
// Terms holds term IDs sorted ascending; Weights holds the matching weights.
// Vectors produced by Normalize have unit L2 norm, which makes squared
// Euclidean distance proportional to angular distance (‖a−b‖² = 2 − 2·cos).
type SparseVector struct {
	Terms   []int
	Weights []float64
}

// NNZ returns the number of non-zero components.
func (v SparseVector) NNZ() int {
	return len(v.Terms)
}

// Norm returns the L2 norm of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of two sparse vectors using a merge walk
// over the sorted term IDs.
func (v SparseVector) Dot(other SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.Terms) && j < len(other.Terms) {
		switch {
		case v.Terms[i] < other.Terms[j]:
			i++
		case v.Terms[i] > other.Terms[j]:
			j++
		default:
			dot += v.Weights[i] * other.Weights[j]
			i++
			j++
		}
	}
	return dot
}

// DotDense returns the dot product of v with a dense vector. Term IDs
// outside the dense vector's range contribute nothing.
func (v SparseVector) DotDense(dense []float64) float64 {
	var dot float64
	for i, t := range v.Terms {
		if t < len(dense) {
			dot += v.Weights[i] * dense[t]
		}
	}
	return dot
}

// Normalize returns a unit-norm copy of raw. Returns ErrDegenerateVector
// when raw has zero norm (e.g. a document whose tokens were all
// out-of-vocabulary), leaving the caller to drop or reject the document.
func Normalize(raw SparseVector) (SparseVector, error) {
	norm := raw.Norm()
	if norm == 0 {
		return SparseVector{}, ErrDegenerateVector
	}
	out := SparseVector{
		Terms:   make([]int, len(raw.Terms)),
		Weights: make([]float64, len(raw.Weights)),
	}
	copy(out.Terms, raw.Terms)
	inv := 1.0 / norm
	for i, w := range raw.Weights {
		out.Weights[i] = w * inv
	}
	return out, nil
}

// CosineDense returns the cosine similarity between a unit-norm sparse
// vector and a dense vector. The dense side is not assumed to be unit
// length (cluster centroids generally are not), so its norm is divided out.
func CosineDense(unit SparseVector, dense []float64) float64 {
	var norm float64
	for _, x := range dense {
		norm += x * x
	}
	if norm == 0 {
		return 0
	}
	return unit.DotDense(dense) / math.Sqrt(norm)
}
