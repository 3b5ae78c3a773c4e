package models

import "fmt"

// SearchQuery represents a search request.
type SearchQuery struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n,omitempty"`
}

// Validate ensures the query has valid fields and sets defaults.
// Returns an error if the query text is empty; TopN is clamped to [1, 100]
// with a default of 10.
func (q *SearchQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.TopN <= 0 {
		q.TopN = 10
	}
	if q.TopN > 100 {
		q.TopN = 100
	}
	return nil
}
