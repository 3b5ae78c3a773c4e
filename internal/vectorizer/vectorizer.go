// Package vectorizer turns document text into sparse term-weight vectors
// over a vocabulary fixed at fit time.
package vectorizer

import "github.com/hyperjump/bunrui/internal/vector"

// Vectorizer produces sparse term-weight vectors for text. Fit must be
// called once on the training corpus; Transform then expresses any text
// in that vocabulary, dropping terms unseen at fit time (never adding).
type Vectorizer interface {
	Fit(texts []string) error
	Transform(text string) (vector.SparseVector, error)
	// Dimensions returns the vocabulary size fixed by Fit.
	Dimensions() int
}
