// Package models defines core data structures for documents, queries, and search results.
package models

import "time"

// Document represents a corpus document with its topic cluster assignment.
type Document struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Cluster   int       `json:"cluster" db:"cluster"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DocumentInput is the raw input for a corpus document before indexing.
type DocumentInput struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
