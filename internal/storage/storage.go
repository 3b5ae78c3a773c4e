// Package storage persists the corpus documents and the fitted index.
package storage

import (
	"context"

	"github.com/hyperjump/bunrui/internal/models"
)

// Storage defines document persistence. The build pipeline writes the
// whole corpus in one batch; readers see documents in build order, which
// is the document-index order the vector store and cluster index use.
type Storage interface {
	ReplaceDocuments(ctx context.Context, docs []*models.Document) error
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)
	Close() error
}
