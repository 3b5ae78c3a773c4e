package vectorizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperjump/bunrui/internal/vector"
)

// Fake is a deterministic vectorizer for tests. It tokenizes on
// whitespace after lowercasing and weights every term by raw count, so
// fixtures can reason about exact vector contents without a TF-IDF model.
type Fake struct {
	vocab map[string]int
}

// NewFake returns an unfitted fake vectorizer.
func NewFake() *Fake {
	return &Fake{}
}

// Fit assigns term IDs in lexicographic order over the corpus vocabulary.
func (f *Fake) Fit(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("cannot fit vocabulary on empty corpus")
	}
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, term := range strings.Fields(strings.ToLower(text)) {
			seen[term] = true
		}
	}
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	f.vocab = make(map[string]int, len(terms))
	for id, term := range terms {
		f.vocab[term] = id
	}
	return nil
}

// Transform counts fitted terms in text; unseen terms are dropped.
func (f *Fake) Transform(text string) (vector.SparseVector, error) {
	if f.vocab == nil {
		return vector.SparseVector{}, fmt.Errorf("vectorizer not fitted")
	}
	counts := make(map[int]float64)
	for _, term := range strings.Fields(strings.ToLower(text)) {
		if id, ok := f.vocab[term]; ok {
			counts[id]++
		}
	}
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := vector.SparseVector{Terms: ids, Weights: make([]float64, len(ids))}
	for i, id := range ids {
		out.Weights[i] = counts[id]
	}
	return out, nil
}

// Dimensions returns the vocabulary size fixed by Fit.
func (f *Fake) Dimensions() int {
	return len(f.vocab)
}
