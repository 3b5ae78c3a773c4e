// Package server provides the HTTP API for Bunrui.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/bunrui/internal/config"
	"github.com/hyperjump/bunrui/internal/indexer"
	"github.com/hyperjump/bunrui/internal/search"
	"github.com/hyperjump/bunrui/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP server for the Bunrui API. The engine and build
// result are replaced wholesale when the corpus is rebuilt; queries in
// flight keep the state they started with.
type Server struct {
	mu      sync.RWMutex
	engine  *search.Engine
	result  *indexer.BuildResult
	storage storage.Storage
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	result *indexer.BuildResult,
	store storage.Storage,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:  engine,
		result:  result,
		storage: store,
		config:  cfg,
		logger:  logger,
	}
}

// Swap replaces the query-serving state after a rebuild.
func (s *Server) Swap(engine *search.Engine, result *indexer.BuildResult) {
	s.mu.Lock()
	s.engine = engine
	s.result = result
	s.mu.Unlock()
}

func (s *Server) current() (*search.Engine, *indexer.BuildResult) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.result
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Get("/api/v1/clusters/{id}", s.handleGetCluster)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
