// Package indexer runs the offline build pipeline: vectorize the corpus,
// fit the topic partition, and persist documents plus the index snapshot.
package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/bunrui/internal/cluster"
	"github.com/hyperjump/bunrui/internal/models"
	"github.com/hyperjump/bunrui/internal/storage"
	"github.com/hyperjump/bunrui/internal/vector"
	"github.com/hyperjump/bunrui/internal/vectorizer"
	"go.uber.org/zap"
)

// BuildResult is the immutable post-fit state queries are served from.
type BuildResult struct {
	Documents []*models.Document
	Store     *vector.Store
	Centroids [][]float64
	Index     *cluster.Index
}

// Builder wires the vectorizer, clustering engine, and persistence into
// the batch build. It holds no state across Build calls.
type Builder struct {
	vectorizer   vectorizer.Vectorizer
	clusterer    cluster.Clusterer
	storage      storage.Storage
	snapshotPath string
	logger       *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for build progress output.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder. store may be nil to skip persistence
// (used by in-memory builds in tests); snapshotPath may be empty likewise.
func NewBuilder(vec vectorizer.Vectorizer, clusterer cluster.Clusterer, store storage.Storage, snapshotPath string, opts ...BuilderOption) *Builder {
	b := &Builder{
		vectorizer:   vec,
		clusterer:    clusterer,
		storage:      store,
		snapshotPath: snapshotPath,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the pipeline over the raw corpus. Documents whose vectors
// come out all-zero (every token out-of-vocabulary or a stop word) are
// dropped with a warning rather than stored as unsearchable zero vectors.
func (b *Builder) Build(ctx context.Context, inputs []*models.DocumentInput) (*BuildResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("empty corpus")
	}

	texts := make([]string, len(inputs))
	for i, in := range inputs {
		texts[i] = in.Content
	}
	if err := b.vectorizer.Fit(texts); err != nil {
		return nil, fmt.Errorf("fit vocabulary: %w", err)
	}

	var (
		docs  []*models.Document
		units []vector.SparseVector
	)
	for i, in := range inputs {
		raw, err := b.vectorizer.Transform(in.Content)
		if err != nil {
			return nil, fmt.Errorf("vectorize document %s: %w", in.ID, err)
		}
		unit, err := vector.Normalize(raw)
		if errors.Is(err, vector.ErrDegenerateVector) {
			if b.logger != nil {
				b.logger.Warn("dropping document with zero vector",
					zap.String("id", in.ID),
					zap.String("title", in.Title),
				)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("normalize document %s: %w", in.ID, err)
		}
		units = append(units, unit)
		docs = append(docs, &models.Document{
			ID:      in.ID,
			Title:   in.Title,
			Content: texts[i],
		})
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("no usable documents in corpus")
	}

	store, err := vector.NewStore(units, b.vectorizer.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("build vector store: %w", err)
	}

	res, err := b.clusterer.Fit(store)
	if err != nil {
		return nil, fmt.Errorf("fit clusters: %w", err)
	}
	ix, err := cluster.BuildIndex(res.Assignment, len(res.Centroids))
	if err != nil {
		return nil, fmt.Errorf("build cluster index: %w", err)
	}
	for i, doc := range docs {
		doc.Cluster = res.Assignment[i]
	}

	if b.logger != nil {
		b.logger.Info("corpus built",
			zap.Int("documents", len(docs)),
			zap.Int("dimensions", store.Dimensions()),
			zap.Int("clusters", len(res.Centroids)),
			zap.Int("iterations", res.Iterations),
			zap.Float64("dispersion", res.Dispersion),
		)
	}

	if b.storage != nil {
		if err := b.storage.ReplaceDocuments(ctx, docs); err != nil {
			return nil, fmt.Errorf("persist documents: %w", err)
		}
	}
	if b.snapshotPath != "" {
		snap := &storage.Snapshot{Store: store, Centroids: res.Centroids, Assignment: res.Assignment}
		if err := storage.SaveSnapshot(b.snapshotPath, snap); err != nil {
			return nil, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	return &BuildResult{
		Documents: docs,
		Store:     store,
		Centroids: res.Centroids,
		Index:     ix,
	}, nil
}

// Load restores a previously built index: documents from storage, the
// vector store and centroids from the snapshot. The vectorizer is re-fit
// on the stored document contents, which reproduces the build-time
// vocabulary because fitting is deterministic; a dimensionality mismatch
// means the corpus changed since the snapshot was written.
func (b *Builder) Load(ctx context.Context) (*BuildResult, error) {
	if b.storage == nil || b.snapshotPath == "" {
		return nil, fmt.Errorf("load requires storage and a snapshot path")
	}
	docs, err := b.storage.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents stored; run a build first")
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	if err := b.vectorizer.Fit(texts); err != nil {
		return nil, fmt.Errorf("refit vocabulary: %w", err)
	}

	snap, err := storage.LoadSnapshot(b.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.Store.Dimensions() != b.vectorizer.Dimensions() {
		return nil, &vector.ErrDimensionMismatch{
			Expected: snap.Store.Dimensions(),
			Actual:   b.vectorizer.Dimensions(),
		}
	}
	if snap.Store.Len() != len(docs) {
		return nil, fmt.Errorf("snapshot has %d vectors for %d documents; rebuild the index", snap.Store.Len(), len(docs))
	}

	ix, err := cluster.BuildIndex(snap.Assignment, len(snap.Centroids))
	if err != nil {
		return nil, fmt.Errorf("rebuild cluster index: %w", err)
	}
	return &BuildResult{
		Documents: docs,
		Store:     snap.Store,
		Centroids: snap.Centroids,
		Index:     ix,
	}, nil
}
