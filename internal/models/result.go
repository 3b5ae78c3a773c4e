package models

// SearchResult represents a single search hit.
type SearchResult struct {
	Document *Document `json:"document"`
	// Score is the cosine similarity between the query and the document.
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// SearchResponse is the response for a search request. Results are drawn
// exclusively from the single best-matching cluster; a closer document in
// another cluster is never surfaced (the defining approximation of
// partitioned search).
type SearchResponse struct {
	Results []*SearchResult `json:"results"`
	// Cluster is the id of the cluster the results were drawn from,
	// or -1 when the query vector was empty.
	Cluster   int    `json:"cluster"`
	QueryTime int64  `json:"query_time_ms"`
	Query     string `json:"query"`
}
