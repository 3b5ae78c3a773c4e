package cluster

import "fmt"

// Index maps a cluster id to the ordered document indices assigned to it.
// Member lists preserve original document order so similarity ties rank
// deterministically downstream. Read-only once built.
type Index struct {
	members [][]int
}

// BuildIndex derives the cluster -> members mapping from an assignment in
// a single linear pass. Fails if an assignment references a cluster id
// outside [0, k).
func BuildIndex(assignment []int, k int) (*Index, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster count must be positive, got %d", k)
	}
	members := make([][]int, k)
	for doc, id := range assignment {
		if id < 0 || id >= k {
			return nil, fmt.Errorf("document %d assigned to cluster %d, outside [0,%d)", doc, id, k)
		}
		members[id] = append(members[id], doc)
	}
	return &Index{members: members}, nil
}

// K returns the number of clusters.
func (ix *Index) K() int {
	return len(ix.members)
}

// Members returns the ordered document indices of cluster id. An empty
// cluster (or out-of-range id) yields an empty slice, never an error.
func (ix *Index) Members(id int) []int {
	if id < 0 || id >= len(ix.members) {
		return nil
	}
	return ix.members[id]
}
