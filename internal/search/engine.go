package search

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/internal/vector"
	"github.com/hyperjump/bunrui/internal/vectorizer"
	"go.uber.org/zap"
)

// Engine is the caller-facing search surface. It turns query text into a
// unit vector with the corpus vectorizer and resolves it against the
// fitted partition, returning document-level results.
type Engine struct {
	vectorizer vectorizer.Vectorizer
	resolver   *Resolver
	// documents is ordered by store index; read-only after the build.
	documents []*models.Document
	logger    *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for per-query debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. documents must be ordered by document
// index, matching the vector store the resolver was built over.
func NewEngine(vec vectorizer.Vectorizer, resolver *Resolver, documents []*models.Document, opts ...EngineOption) *Engine {
	e := &Engine{vectorizer: vec, resolver: resolver, documents: documents}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search vectorizes the query text and ranks the best cluster's documents.
// A query containing no fit-time vocabulary terms produces a zero vector;
// the fixed policy is to return an empty response for it, not an error.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	raw, err := e.vectorizer.Transform(query.Query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if raw.NNZ() == 0 {
		if e.logger != nil {
			e.logger.Debug("query has no vocabulary terms", zap.String("query", query.Query))
		}
		return &models.SearchResponse{
			Results:   []*models.SearchResult{},
			Cluster:   -1,
			QueryTime: time.Since(startTime).Milliseconds(),
			Query:     query.Query,
		}, nil
	}
	unit, err := vector.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize query: %w", err)
	}

	selected, hits, err := e.resolver.Resolve(unit, query.TopN)
	if err != nil {
		return nil, err
	}

	response := &models.SearchResponse{
		Results:   make([]*models.SearchResult, 0, len(hits)),
		Cluster:   selected,
		QueryTime: time.Since(startTime).Milliseconds(),
		Query:     query.Query,
	}
	for i, hit := range hits {
		response.Results = append(response.Results, &models.SearchResult{
			Document: e.documents[hit.DocIndex],
			Score:    hit.Score,
			Rank:     i + 1,
		})
	}
	if e.logger != nil {
		e.logger.Debug("search resolved",
			zap.String("query", query.Query),
			zap.Int("cluster", selected),
			zap.Int("results", len(response.Results)),
		)
	}
	return response, nil
}
