// Package server exposes the paper search API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matsen/arxiv-search/internal/collection"
	"github.com/matsen/arxiv-search/internal/embedding"
)

const (
	// MinResults and MaxResults bound the n_results search parameter.
	MinResults = 1
	MaxResults = 100

	// DefaultResults is used when a search request omits n_results.
	DefaultResults = 10

	// shutdownTimeout bounds how long in-flight requests may run after a
	// termination signal.
	shutdownTimeout = 10 * time.Second
)

// Server handles search API requests against one collection.
type Server struct {
	store    *collection.Store
	provider embedding.Provider
	name     string
}

// New creates a server reading from the named collection.
func New(store *collection.Store, provider embedding.Provider, name string) *Server {
	return &Server{
		store:    store,
		provider: provider,
		name:     name,
	}
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status          string `json:"status"`
	CollectionCount int    `json:"collection_count"`
}

// SearchRequest is the body of a search request. NResults is a pointer so an
// omitted field (defaulted) is distinguishable from an explicit zero
// (rejected).
type SearchRequest struct {
	Query    string `json:"query"`
	NResults *int   `json:"n_results"`
}

// SearchResult is a single paper in search results.
type SearchResult struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Categories string  `json:"categories"`
	Distance   float64 `json:"distance"`
}

// SearchResponse is the response from the search endpoint.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler returns the API handler with CORS restricted to the given origins.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/search", s.handleSearch)
	return withCORS(allowedOrigins, mux)
}

// Run serves the API on addr until the process receives SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Run(addr string, allowedOrigins []string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(allowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// handleHealth reports service status and the collection item count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	count, err := s.store.Count(s.name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "counting collection: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "healthy",
		CollectionCount: count,
	})
}

// handleSearch embeds the query text and returns the nearest stored papers.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	nResults := DefaultResults
	if req.NResults != nil {
		nResults = *req.NResults
	}
	if nResults < MinResults || nResults > MaxResults {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "n_results must be between 1 and 100",
		})
		return
	}

	queryEmb, err := s.provider.Embed(r.Context(), req.Query)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "embedding query: " + err.Error()})
		return
	}

	matches, err := s.store.Search(s.name, queryEmb.Vector, nResults)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "searching collection: " + err.Error()})
		return
	}

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			ID:         m.ID,
			Title:      m.Title,
			Categories: m.Categories,
			Distance:   m.Distance,
		}
	}

	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
