package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hyperjump/bunrui/internal/models"
)

func TestWriteSearchResults_Text(t *testing.T) {
	resp := &models.SearchResponse{
		Query:   "cat",
		Cluster: 1,
		Results: []*models.SearchResult{
			{Document: &models.Document{Title: "Pets", Content: "cat dog"}, Score: 0.9, Rank: 1},
		},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Pets") || !strings.Contains(out, "cluster 1") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestWriteSearchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, &models.SearchResponse{Query: "zzz"}, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No results") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, &models.SearchResponse{Query: "cat"}, OutputJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"query": "cat"`) {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("hi", 0); got != "hi" {
		t.Errorf("Truncate with 0 = %q", got)
	}
}
