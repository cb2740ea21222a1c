// Package server exposes the optimization engine over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/optigo-xyz/go-optigo/engine"
	"github.com/optigo-xyz/go-optigo/history"
	"github.com/optigo-xyz/go-optigo/results"
)

// Server is the HTTP front of one engine.
type Server struct {
	engine   *engine.Engine
	store    history.Store
	cors     bool
	maxBytes int64
	log      zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCORS enables permissive cross-origin headers on every route.
func WithCORS() Option {
	return func(s *Server) { s.cors = true }
}

// WithHistory serves recent solve records from the given store at /solves.
func WithHistory(store history.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the structured logger. The default discards logs.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer creates an HTTP server around an engine.
func NewServer(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine:   eng,
		maxBytes: engine.DefaultMaxDescriptionBytes,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mux returns an http.ServeMux with all routes configured.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/solve", s.handleSolve)
	mux.HandleFunc("/defaults", s.handleDefaults)
	mux.HandleFunc("/solves", s.handleSolves)
	mux.HandleFunc("/", s.handleRoot)

	if s.cors {
		return corsMiddleware(mux)
	}
	return mux
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	resp := s.engine.Handle(r.Context(), body, nil)

	status := http.StatusOK
	if resp.Outcome == results.OutcomeValidationError {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	lim := s.engine.Defaults()
	writeJSON(w, http.StatusOK, map[string]float64{
		"timeLimitSeconds":     lim.TimeLimit.Seconds(),
		"relativeGapTolerance": lim.RelativeGap,
	})
}

func (s *Server) handleSolves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, "solve history not configured", http.StatusNotFound)
		return
	}

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("history query failed")
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "optigo optimization service is running; POST /solve to use it",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware adds allow-all cross-origin headers and answers
// preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
