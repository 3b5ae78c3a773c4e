// Package cluster partitions a vector store into topic clusters with
// spherical k-means and derives the cluster -> document-index mapping
// used to narrow search scope.
package cluster

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hyperjump/bunrui/internal/vector"
	"go.uber.org/zap"
)

// Result is the outcome of a clustering fit: a total, single-valued
// document-index -> cluster-id assignment and one dense centroid per
// cluster. Centroids are component-wise means of unit vectors and are
// generally sub-unit length; similarity against them must use cosine.
type Result struct {
	Assignment []int
	Centroids  [][]float64
	// Dispersion is the total within-cluster cosine dispersion,
	// sum over documents of 1 − cos(document, its centroid).
	Dispersion float64
	Iterations int
}

// Clusterer partitions a vector store into clusters. Implementations must
// be deterministic for a fixed configuration so fits are reproducible.
type Clusterer interface {
	Fit(store *vector.Store) (*Result, error)
}

// SphericalKMeans clusters unit-norm vectors by cosine similarity.
//
// Initialization samples K distinct document vectors uniformly at random
// (seeded). Empty clusters are re-seeded from the globally worst-fit
// document, i.e. the one farthest in cosine terms from its own centroid;
// both policies are deterministic so the same seed reproduces the same fit.
type SphericalKMeans struct {
	K             int
	MaxIterations int
	// NInit is the number of independent restarts; the restart with the
	// lowest total dispersion wins, ties going to the lowest restart index.
	NInit  int
	Seed   int64
	logger *zap.Logger
}

// Option configures a SphericalKMeans.
type Option func(*SphericalKMeans)

// WithLogger sets a logger for per-restart debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *SphericalKMeans) { s.logger = l }
}

// NewSphericalKMeans creates an engine with the given parameters.
// Zero maxIterations or nInit fall back to 100 and 1.
func NewSphericalKMeans(k, maxIterations, nInit int, seed int64, opts ...Option) *SphericalKMeans {
	if maxIterations <= 0 {
		maxIterations = 100
	}
	if nInit <= 0 {
		nInit = 1
	}
	s := &SphericalKMeans{K: k, MaxIterations: maxIterations, NInit: nInit, Seed: seed}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit runs NInit independent restarts and returns the best-scoring one.
// Restarts are fully independent and run concurrently; restart r uses
// Seed+r so results do not depend on scheduling. The engine holds no
// mutable state across calls.
func (s *SphericalKMeans) Fit(store *vector.Store) (*Result, error) {
	n := store.Len()
	if s.K < 1 || s.K > n {
		return nil, &ErrInvalidClusterCount{K: s.K, N: n}
	}

	results := make([]*Result, s.NInit)
	var wg sync.WaitGroup
	for r := 0; r < s.NInit; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(s.Seed + int64(r)))
			results[r] = s.fitOnce(store, rng)
		}(r)
	}
	wg.Wait()

	best := results[0]
	for _, res := range results[1:] {
		if res.Dispersion < best.Dispersion {
			best = res
		}
	}
	if s.logger != nil {
		s.logger.Debug("fit complete",
			zap.Int("k", s.K),
			zap.Int("n_init", s.NInit),
			zap.Int("iterations", best.Iterations),
			zap.Float64("dispersion", best.Dispersion),
		)
	}
	return best, nil
}

// fitOnce runs a single restart of Lloyd's algorithm under cosine geometry.
func (s *SphericalKMeans) fitOnce(store *vector.Store, rng *rand.Rand) *Result {
	n := store.Len()
	dim := store.Dimensions()
	k := s.K

	// Initialize centroids from k distinct documents.
	centroids := make([][]float64, k)
	perm := rng.Perm(n)
	for j := 0; j < k; j++ {
		centroids[j] = densify(store.At(perm[j]), dim)
	}

	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = -1
	}
	bestSims := make([]float64, n)
	norms := make([]float64, k)

	iterations := 0
	for iter := 0; iter < s.MaxIterations; iter++ {
		iterations = iter + 1
		for j := 0; j < k; j++ {
			norms[j] = normDense(centroids[j])
		}

		// Assignment step: max cosine wins, lowest cluster id on ties.
		changed := false
		for i := 0; i < n; i++ {
			doc := store.At(i)
			best, bestSim := 0, cosineAgainst(doc, centroids[0], norms[0])
			for j := 1; j < k; j++ {
				if sim := cosineAgainst(doc, centroids[j], norms[j]); sim > bestSim {
					best, bestSim = j, sim
				}
			}
			bestSims[i] = bestSim
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// Update step: centroid = mean of assigned unit vectors.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i := 0; i < n; i++ {
			j := assignment[i]
			counts[j]++
			doc := store.At(i)
			for t, term := range doc.Terms {
				sums[j][term] += doc.Weights[t]
			}
		}
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				inv := 1.0 / float64(counts[j])
				for d := 0; d < dim; d++ {
					sums[j][d] *= inv
				}
				centroids[j] = sums[j]
			} else {
				idx := worstFit(bestSims)
				centroids[j] = densify(store.At(idx), dim)
				// Keep a second empty cluster from claiming the same document.
				bestSims[idx] = 2
			}
		}
	}

	var dispersion float64
	for j := 0; j < k; j++ {
		norms[j] = normDense(centroids[j])
	}
	for i := 0; i < n; i++ {
		dispersion += 1.0 - cosineAgainst(store.At(i), centroids[assignment[i]], norms[assignment[i]])
	}

	return &Result{
		Assignment: assignment,
		Centroids:  centroids,
		Dispersion: dispersion,
		Iterations: iterations,
	}
}

// worstFit returns the index of the document farthest from its own
// centroid, i.e. the lowest best-similarity. Lowest index wins ties.
func worstFit(sims []float64) int {
	worst, worstSim := 0, math.Inf(1)
	for i, sim := range sims {
		if sim < worstSim {
			worst, worstSim = i, sim
		}
	}
	return worst
}

func densify(v vector.SparseVector, dim int) []float64 {
	out := make([]float64, dim)
	for i, term := range v.Terms {
		out[term] = v.Weights[i]
	}
	return out
}

func normDense(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// cosineAgainst computes cos(doc, centroid) with the centroid norm
// precomputed. Documents are unit norm, so only the centroid norm divides.
func cosineAgainst(doc vector.SparseVector, centroid []float64, norm float64) float64 {
	if norm == 0 {
		return 0
	}
	return doc.DotDense(centroid) / norm
}
