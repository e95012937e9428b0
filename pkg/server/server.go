// Package server exposes the chat core to the rendering layer over an
// HTTP API plus a WebSocket push channel.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// Conversation is the slice of the chat manager the server drives.
type Conversation interface {
	ActiveSession() string
	Transcript() domain.Transcript
	Sessions(ctx context.Context) []string
	SelectSession(ctx context.Context, requested string) (string, error)
	Submit(ctx context.Context, in domain.PendingInput) error
	DeleteSession(ctx context.Context, id string) error
	Subscribe() (updates <-chan struct{}, cancel func())
}

// Ingestor turns raw audio bytes into transcribed text.
type Ingestor interface {
	Transcribe(ctx context.Context, raw []byte) (string, error)
}

// Server serves the REST API and WebSocket updates for the chat core.
type Server struct {
	conv     Conversation
	ingest   Ingestor
	registry *prometheus.Registry
	srv      *http.Server
}

// New creates a new Server. registry may be nil to disable /metrics.
func New(conv Conversation, ingest Ingestor, registry *prometheus.Registry) *Server {
	return &Server{
		conv:     conv,
		ingest:   ingest,
		registry: registry,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Sessions
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions/select", s.handleSelectSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	// Transcript
	mux.HandleFunc("GET /api/transcript", s.handleGetTranscript)

	// Pending input submission
	mux.HandleFunc("POST /api/messages", s.handleSubmitText)
	mux.HandleFunc("POST /api/voice", s.handleSubmitVoice)
	mux.HandleFunc("POST /api/audio", s.handleSubmitAudioFile)
	mux.HandleFunc("POST /api/image", s.handleSubmitImage)

	// WebSocket
	mux.HandleFunc("/api/updates", s.handleUpdates)

	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return s.corsMiddleware(s.requestIDMiddleware(mux))
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	slog.Info("Starting server", "addr", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)
		slog.Debug("Request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	slog.Error("API Error", "error", err)
	s.jsonResponse(w, statusFromError(err), map[string]string{"error": err.Error()})
}

// statusFromError maps the domain error taxonomy to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDecode),
		errors.Is(err, domain.ErrTranscription),
		errors.Is(err, domain.ErrModel):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
