package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/bunrui/internal/vector"
)

// Snapshot is the persisted post-fit state: the normalized vector store,
// the cluster centroids, and the document -> cluster assignment (from
// which the cluster index is rebuilt on load).
type Snapshot struct {
	Store      *vector.Store
	Centroids  [][]float64
	Assignment []int
}

// SaveSnapshot writes the snapshot to path in a little-endian binary
// layout: dims, n, k; per document nnz and (term, weight) pairs plus its
// cluster id; then k dense centroids of dims float64s each.
func SaveSnapshot(path string, snap *Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	n := snap.Store.Len()
	dims := snap.Store.Dimensions()
	k := len(snap.Centroids)
	for _, v := range []uint32{uint32(dims), uint32(n), uint32(k)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := 0; i < n; i++ {
		doc := snap.Store.At(i)
		if err := binary.Write(w, binary.LittleEndian, uint32(doc.NNZ())); err != nil {
			return fmt.Errorf("write doc %d nnz: %w", i, err)
		}
		for j, term := range doc.Terms {
			if err := binary.Write(w, binary.LittleEndian, uint32(term)); err != nil {
				return fmt.Errorf("write doc %d term: %w", i, err)
			}
			if err := binary.Write(w, binary.LittleEndian, doc.Weights[j]); err != nil {
				return fmt.Errorf("write doc %d weight: %w", i, err)
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(snap.Assignment[i])); err != nil {
			return fmt.Errorf("write doc %d assignment: %w", i, err)
		}
	}

	for j, centroid := range snap.Centroids {
		if err := binary.Write(w, binary.LittleEndian, centroid); err != nil {
			return fmt.Errorf("write centroid %d: %w", j, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var dims, n, k uint32
	for _, p := range []*uint32{&dims, &n, &k} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
	}

	vectors := make([]vector.SparseVector, n)
	assignment := make([]int, n)
	for i := uint32(0); i < n; i++ {
		var nnz uint32
		if err := binary.Read(r, binary.LittleEndian, &nnz); err != nil {
			return nil, fmt.Errorf("read doc %d nnz: %w", i, err)
		}
		v := vector.SparseVector{
			Terms:   make([]int, nnz),
			Weights: make([]float64, nnz),
		}
		for j := uint32(0); j < nnz; j++ {
			var term uint32
			if err := binary.Read(r, binary.LittleEndian, &term); err != nil {
				return nil, fmt.Errorf("read doc %d term: %w", i, err)
			}
			v.Terms[j] = int(term)
			if err := binary.Read(r, binary.LittleEndian, &v.Weights[j]); err != nil {
				return nil, fmt.Errorf("read doc %d weight: %w", i, err)
			}
		}
		vectors[i] = v
		var cl uint32
		if err := binary.Read(r, binary.LittleEndian, &cl); err != nil {
			return nil, fmt.Errorf("read doc %d assignment: %w", i, err)
		}
		assignment[i] = int(cl)
	}

	centroids := make([][]float64, k)
	for j := uint32(0); j < k; j++ {
		centroids[j] = make([]float64, dims)
		if err := binary.Read(r, binary.LittleEndian, centroids[j]); err != nil {
			return nil, fmt.Errorf("read centroid %d: %w", j, err)
		}
	}

	store, err := vector.NewStore(vectors, int(dims))
	if err != nil {
		return nil, fmt.Errorf("rebuild vector store: %w", err)
	}
	return &Snapshot{Store: store, Centroids: centroids, Assignment: assignment}, nil
}
