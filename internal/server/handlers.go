package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/bunrui/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("top_n", query.TopN))
	engine, _ := s.current()
	response, err := engine.Search(r.Context(), &query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.storage.GetDocument(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

// handleGetCluster lists the titles of a cluster's members in document order.
func (s *Server) handleGetCluster(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "cluster id must be an integer")
		return
	}
	_, result := s.current()
	if id < 0 || id >= result.Index.K() {
		s.respondError(w, http.StatusNotFound, "cluster not found")
		return
	}
	members := result.Index.Members(id)
	titles := make([]string, 0, len(members))
	for _, doc := range members {
		titles = append(titles, result.Documents[doc].Title)
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"cluster": id,
		"size":    len(members),
		"titles":  titles,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, result := s.current()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents":  len(result.Documents),
		"dimensions": result.Store.Dimensions(),
		"clusters":   result.Index.K(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
