// Package cli provides CLI output utilities for Bunrui.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/bunrui/internal/models"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	if len(response.Results) == 0 {
		fmt.Fprintf(w, "\nNo results for %q in %dms\n", response.Query, response.QueryTime)
		return
	}
	fmt.Fprintf(w, "\nFound %d results in %dms (cluster %d)\n\n",
		len(response.Results), response.QueryTime, response.Cluster)
	for _, result := range response.Results {
		fmt.Fprintf(w, "%2d. %-40s %.4f\n", result.Rank, result.Document.Title, result.Score)
		fmt.Fprintf(w, "    %s\n", Truncate(result.Document.Content, 120))
	}
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
