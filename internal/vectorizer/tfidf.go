package vectorizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/bunrui/internal/vector"
)

// textAnalyzer is the part of a Bleve analyzer the vectorizer needs.
type textAnalyzer interface {
	Analyze(input []byte) analysis.TokenStream
}

// TFIDF is a term-frequency / inverse-document-frequency vectorizer.
// Text analysis uses Bleve's standard analyzer (unicode tokenization,
// lowercasing, English stop words, no stemming), so query casing is
// handled the same way as corpus text.
//
// Weights: tf = count/len(tokens), idf = ln(1 + N/(1+df)).
type TFIDF struct {
	analyzer textAnalyzer
	vocab    map[string]int
	docFreq  []int
	numDocs  int
}

// NewTFIDF creates an unfitted TF-IDF vectorizer.
func NewTFIDF() *TFIDF {
	im := bleve.NewIndexMapping()
	return &TFIDF{
		analyzer: im.AnalyzerNamed(standard.Name),
		vocab:    make(map[string]int),
	}
}

// tokenize runs the analysis chain and returns the token terms.
func (t *TFIDF) tokenize(text string) []string {
	stream := t.analyzer.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms
}

// Fit builds the vocabulary and document frequencies from the corpus.
// Term IDs are assigned in lexicographic order so fits are reproducible.
// Texts that yield no tokens (empty or all stop words) do not count
// toward the document total, so fitting on a corpus with or without such
// texts produces the identical model. Calling Fit again replaces the
// vocabulary entirely.
func (t *TFIDF) Fit(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("cannot fit vocabulary on empty corpus")
	}

	df := make(map[string]int)
	counted := 0
	for _, text := range texts {
		tokens := t.tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		counted++
		seen := make(map[string]bool)
		for _, term := range tokens {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}
	if counted == 0 {
		return fmt.Errorf("corpus has no analyzable tokens")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	t.vocab = make(map[string]int, len(terms))
	t.docFreq = make([]int, len(terms))
	for id, term := range terms {
		t.vocab[term] = id
		t.docFreq[id] = df[term]
	}
	t.numDocs = counted
	return nil
}

// Transform converts text into a sparse TF-IDF vector over the fitted
// vocabulary. Terms unseen at fit time are dropped; a text consisting
// only of such terms yields an empty (zero) vector, not an error.
func (t *TFIDF) Transform(text string) (vector.SparseVector, error) {
	if t.numDocs == 0 {
		return vector.SparseVector{}, fmt.Errorf("vectorizer not fitted")
	}

	tokens := t.tokenize(text)
	counts := make(map[int]float64)
	for _, term := range tokens {
		if id, ok := t.vocab[term]; ok {
			counts[id]++
		}
	}
	if len(counts) == 0 {
		return vector.SparseVector{}, nil
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := vector.SparseVector{
		Terms:   ids,
		Weights: make([]float64, len(ids)),
	}
	total := float64(len(tokens))
	for i, id := range ids {
		tf := counts[id] / total
		idf := math.Log(1 + float64(t.numDocs)/(1+float64(t.docFreq[id])))
		out.Weights[i] = tf * idf
	}
	return out, nil
}

// Dimensions returns the vocabulary size fixed by Fit (0 before fitting).
func (t *TFIDF) Dimensions() int {
	return len(t.vocab)
}
