// Package search answers nearest-neighbor queries restricted to the most
// relevant topic cluster.
package search

import (
	"math"
	"sort"

	"github.com/hyperjump/bunrui/internal/cluster"
	"github.com/hyperjump/bunrui/internal/vector"
)

// Hit is one scored document from the selected cluster.
type Hit struct {
	DocIndex int
	Score    float64
}

// Resolver ranks documents within the single best-matching cluster. All
// state is fixed at construction (post-fit) and read-only, so queries can
// run concurrently without locking.
type Resolver struct {
	store         *vector.Store
	centroids     [][]float64
	centroidNorms []float64
	index         *cluster.Index
}

// NewResolver creates a resolver over a fitted partition. Centroid norms
// are precomputed once; centroids are means of unit vectors and generally
// sub-unit length, so cosine against them must divide the norm out.
func NewResolver(store *vector.Store, centroids [][]float64, ix *cluster.Index) (*Resolver, error) {
	for _, c := range centroids {
		if len(c) != store.Dimensions() {
			return nil, &vector.ErrDimensionMismatch{Expected: store.Dimensions(), Actual: len(c)}
		}
	}
	norms := make([]float64, len(centroids))
	for i, c := range centroids {
		var sum float64
		for _, x := range c {
			sum += x * x
		}
		norms[i] = math.Sqrt(sum)
	}
	return &Resolver{store: store, centroids: centroids, centroidNorms: norms, index: ix}, nil
}

// SelectCluster returns the cluster whose centroid is most similar to the
// unit-norm query vector, ties broken by lowest cluster id.
func (r *Resolver) SelectCluster(query vector.SparseVector) int {
	best, bestSim := 0, r.centroidSim(query, 0)
	for j := 1; j < len(r.centroids); j++ {
		if sim := r.centroidSim(query, j); sim > bestSim {
			best, bestSim = j, sim
		}
	}
	return best
}

func (r *Resolver) centroidSim(query vector.SparseVector, j int) float64 {
	if r.centroidNorms[j] == 0 {
		return 0
	}
	return query.DotDense(r.centroids[j]) / r.centroidNorms[j]
}

// Resolve runs the two-stage search: select one cluster by centroid
// similarity, then rank only that cluster's members by cosine similarity.
// The result is approximate by construction: a globally closer document in
// a non-selected cluster is never returned.
//
// The query must be unit-normalized and expressed in the store's
// vocabulary; a zero-norm query yields ErrDegenerateVector and a term id
// outside [0, D) yields ErrDimensionMismatch. A topN below 1 is clamped
// to 1. An empty selected cluster returns an empty hit list, not an error.
func (r *Resolver) Resolve(query vector.SparseVector, topN int) (int, []Hit, error) {
	if topN < 1 {
		topN = 1
	}
	if query.Norm() == 0 {
		return -1, nil, vector.ErrDegenerateVector
	}
	for _, t := range query.Terms {
		if t < 0 || t >= r.store.Dimensions() {
			return -1, nil, &vector.ErrDimensionMismatch{Expected: r.store.Dimensions(), Actual: t + 1}
		}
	}

	selected := r.SelectCluster(query)
	members := r.index.Members(selected)
	if len(members) == 0 {
		return selected, nil, nil
	}

	hits := make([]Hit, 0, len(members))
	for _, doc := range members {
		// Both sides unit norm, so the dot product is the cosine.
		hits = append(hits, Hit{DocIndex: doc, Score: query.Dot(r.store.At(doc))})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocIndex < hits[j].DocIndex
	})
	if topN < len(hits) {
		hits = hits[:topN]
	}
	return selected, hits, nil
}
