package models

import "testing"

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr bool
		wantN   int
	}{
		{"empty query", SearchQuery{}, true, 0},
		{"defaults applied", SearchQuery{Query: "cat"}, false, 10},
		{"explicit top n", SearchQuery{Query: "cat", TopN: 3}, false, 3},
		{"clamped to max", SearchQuery{Query: "cat", TopN: 500}, false, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err == nil && tt.query.TopN != tt.wantN {
				t.Errorf("TopN = %d, want %d", tt.query.TopN, tt.wantN)
			}
		})
	}
}
