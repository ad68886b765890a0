// Package server exposes a Generator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/showtell/quizgen/internal/quiz"
	"github.com/showtell/quizgen/internal/quizgen"
)

// maxBodyBytes bounds a request body.
const maxBodyBytes = 64 << 10

// defaultCount is used when a request omits count.
const defaultCount = 3

// Generator is the part of *quizgen.Generator the server needs.
type Generator interface {
	Generate(ctx context.Context, caption string, count int, opts ...quizgen.CallOption) (*quiz.Batch, error)
	Tiers() []string
}

// Server serves the quiz API.
type Server struct {
	gen    Generator
	logger zerolog.Logger

	origins     []string
	originRegex *regexp.Regexp
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origin allow-list. Default: local dev
// servers on ports 5173 and 4173.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithAllowedOriginRegex additionally allows origins matching re.
func WithAllowedOriginRegex(re *regexp.Regexp) Option {
	return func(s *Server) { s.originRegex = re }
}

// New creates a Server around gen.
func New(gen Generator, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		gen:    gen,
		logger: logger.With().Str("component", "server").Logger(),
		origins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:4173",
			"http://127.0.0.1:4173",
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed handler with CORS and panic recovery applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/quiz", s.generate).Methods(http.MethodPost)

	cors := handlers.CORS(
		handlers.AllowedOriginValidator(s.originAllowed),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(cors(r))
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return s.originRegex != nil && s.originRegex.MatchString(origin)
}

type healthResponse struct {
	OK    bool     `json:"ok"`
	Tiers []string `json:"tiers"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Tiers: s.gen.Tiers()})
}

// QuizRequest is the body of POST /api/quiz.
type QuizRequest struct {
	Caption string   `json:"caption"`
	Count   int      `json:"count,omitempty"`
	Seed    *uint64  `json:"seed,omitempty"`
	Objects []string `json:"objects,omitempty"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.logger.Debug().Err(err).Msg("rejecting malformed quiz request")
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	count := req.Count
	if count == 0 {
		count = defaultCount
	}

	var opts []quizgen.CallOption
	if req.Seed != nil {
		opts = append(opts, quizgen.WithSeed(*req.Seed))
	}
	if len(req.Objects) > 0 {
		opts = append(opts, quizgen.WithObjects(req.Objects...))
	}

	batch, err := s.gen.Generate(r.Context(), req.Caption, count, opts...)
	switch {
	case errors.Is(err, quiz.ErrEmptyCaption):
		writeError(w, http.StatusBadRequest, quiz.ErrEmptyCaption.Error())
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("quiz generation failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type recoveryLogger struct {
	logger zerolog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error().Msg(fmt.Sprint(v...))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
