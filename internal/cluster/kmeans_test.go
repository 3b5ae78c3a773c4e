package cluster

import (
	"errors"
	"testing"

	"github.com/hyperjump/bunrui/internal/vector"
)

// unit returns a normalized sparse vector over the given terms, all with
// equal raw weight.
func unit(t *testing.T, terms ...int) vector.SparseVector {
	t.Helper()
	weights := make([]float64, len(terms))
	for i := range weights {
		weights[i] = 1
	}
	v, err := vector.Normalize(vector.SparseVector{Terms: terms, Weights: weights})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// twoTopicStore builds 6 documents over an 8-term vocabulary: three about
// terms 0-3 (animals) and three about terms 4-7 (finance).
func twoTopicStore(t *testing.T) *vector.Store {
	t.Helper()
	vectors := []vector.SparseVector{
		unit(t, 0, 1, 2),
		unit(t, 0, 1, 3),
		unit(t, 1, 2, 3),
		unit(t, 4, 5, 6),
		unit(t, 4, 5, 7),
		unit(t, 5, 6, 7),
	}
	store, err := vector.NewStore(vectors, 8)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestFit_InvalidClusterCount(t *testing.T) {
	store := twoTopicStore(t)
	for _, k := range []int{0, -1, 7} {
		_, err := NewSphericalKMeans(k, 50, 1, 1).Fit(store)
		var icc *ErrInvalidClusterCount
		if !errors.As(err, &icc) {
			t.Errorf("k=%d: expected ErrInvalidClusterCount, got %v", k, err)
		}
	}
}

func TestFit_PartitionShape(t *testing.T) {
	store := twoTopicStore(t)
	for k := 1; k <= store.Len(); k++ {
		res, err := NewSphericalKMeans(k, 50, 3, 42).Fit(store)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if len(res.Centroids) != k {
			t.Errorf("k=%d: got %d centroids", k, len(res.Centroids))
		}
		if len(res.Assignment) != store.Len() {
			t.Errorf("k=%d: assignment covers %d docs, want %d", k, len(res.Assignment), store.Len())
		}
		for i, id := range res.Assignment {
			if id < 0 || id >= k {
				t.Errorf("k=%d: doc %d assigned to %d", k, i, id)
			}
		}
		if res.Iterations < 1 || res.Iterations > 50 {
			t.Errorf("k=%d: iterations = %d", k, res.Iterations)
		}
	}
}

func TestFit_Deterministic(t *testing.T) {
	store := twoTopicStore(t)
	first, err := NewSphericalKMeans(2, 50, 1, 7).Fit(store)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewSphericalKMeans(2, 50, 1, 7).Fit(store)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Assignment {
		if first.Assignment[i] != second.Assignment[i] {
			t.Fatalf("assignments differ at doc %d: %d vs %d", i, first.Assignment[i], second.Assignment[i])
		}
	}
	if first.Dispersion != second.Dispersion {
		t.Errorf("dispersion differs: %v vs %v", first.Dispersion, second.Dispersion)
	}
}

func TestFit_SeparatesTopics(t *testing.T) {
	store := twoTopicStore(t)
	res, err := NewSphericalKMeans(2, 100, 5, 1).Fit(store)
	if err != nil {
		t.Fatal(err)
	}
	// Docs 0-2 must share a cluster, docs 3-5 the other.
	animal := res.Assignment[0]
	for i := 1; i < 3; i++ {
		if res.Assignment[i] != animal {
			t.Errorf("doc %d not in animal cluster: %d vs %d", i, res.Assignment[i], animal)
		}
	}
	finance := res.Assignment[3]
	if finance == animal {
		t.Fatalf("topics were not separated")
	}
	for i := 4; i < 6; i++ {
		if res.Assignment[i] != finance {
			t.Errorf("doc %d not in finance cluster: %d vs %d", i, res.Assignment[i], finance)
		}
	}
}

func TestFit_DispersionMonotonic(t *testing.T) {
	store := twoTopicStore(t)
	// A fit capped at i+1 iterations must never score worse than one
	// capped at i, for the same restart seed.
	prev := -1.0
	for iter := 1; iter <= 10; iter++ {
		res, err := NewSphericalKMeans(2, iter, 1, 3).Fit(store)
		if err != nil {
			t.Fatal(err)
		}
		if prev >= 0 && res.Dispersion > prev+1e-12 {
			t.Errorf("dispersion rose from %v to %v at iteration cap %d", prev, res.Dispersion, iter)
		}
		prev = res.Dispersion
	}
}

func TestFit_BestOfRestartsNotWorse(t *testing.T) {
	store := twoTopicStore(t)
	single, err := NewSphericalKMeans(2, 100, 1, 5).Fit(store)
	if err != nil {
		t.Fatal(err)
	}
	multi, err := NewSphericalKMeans(2, 100, 8, 5).Fit(store)
	if err != nil {
		t.Fatal(err)
	}
	if multi.Dispersion > single.Dispersion+1e-12 {
		t.Errorf("best of 8 restarts (%v) worse than restart 0 alone (%v)", multi.Dispersion, single.Dispersion)
	}
}

func TestFit_KEqualsN(t *testing.T) {
	store := twoTopicStore(t)
	res, err := NewSphericalKMeans(store.Len(), 50, 1, 9).Fit(store)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]bool)
	for _, id := range res.Assignment {
		seen[id] = true
	}
	// With k == N every document can have its own centroid; the fit must
	// still produce a valid total assignment even if clusters collapse.
	if len(res.Assignment) != store.Len() {
		t.Errorf("assignment length %d", len(res.Assignment))
	}
	if len(seen) == 0 {
		t.Error("no clusters used")
	}
}

func TestBuildIndex_PartitionProperty(t *testing.T) {
	store := twoTopicStore(t)
	res, err := NewSphericalKMeans(2, 100, 5, 1).Fit(store)
	if err != nil {
		t.Fatal(err)
	}
	ix, err := BuildIndex(res.Assignment, 2)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]int)
	for id := 0; id < ix.K(); id++ {
		prev := -1
		for _, doc := range ix.Members(id) {
			seen[doc]++
			if doc <= prev {
				t.Errorf("cluster %d members not in insertion order", id)
			}
			prev = doc
		}
	}
	if len(seen) != store.Len() {
		t.Fatalf("union of members has %d docs, want %d", len(seen), store.Len())
	}
	for doc, count := range seen {
		if count != 1 {
			t.Errorf("doc %d appears %d times", doc, count)
		}
	}
}

func TestBuildIndex_RejectsOutOfRange(t *testing.T) {
	if _, err := BuildIndex([]int{0, 2}, 2); err == nil {
		t.Error("expected error for cluster id 2 with k=2")
	}
	if _, err := BuildIndex([]int{0, -1}, 2); err == nil {
		t.Error("expected error for negative cluster id")
	}
	if _, err := BuildIndex(nil, 0); err == nil {
		t.Error("expected error for k=0")
	}
}

func TestIndex_EmptyClusterMembers(t *testing.T) {
	ix, err := BuildIndex([]int{0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := ix.Members(1); len(got) != 0 {
		t.Errorf("empty cluster returned %v", got)
	}
	if got := ix.Members(99); len(got) != 0 {
		t.Errorf("out-of-range id returned %v", got)
	}
}
