// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
	"github.com/okian/innings/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Classify predicts the category of a tagged player record.
	Classify(ctx context.Context, req player.Request) (model.Prediction, error)

	// Models describes the loaded models.
	Models(ctx context.Context) ([]model.Info, error)

	// Ready reports whether models are loaded.
	Ready() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	predictHandler *PredictHandler
	modelsHandler  *ModelsHandler

	logger         logger.Logger
	maxBodyBytes   int64
	allowedOrigins []string
	requestTimeout time.Duration
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) (*Server, error) {
	s := &Server{
		maxBodyBytes:   defaultMaxBodyBytes,
		allowedOrigins: []string{"*"},
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	validator, err := newRecordValidator()
	if err != nil {
		return nil, fmt.Errorf("compile request schemas: %w", err)
	}

	s.healthHandler = NewHealthHandler(deps)
	s.predictHandler = NewPredictHandler(deps, validator, s.maxBodyBytes, s.logger)
	s.modelsHandler = NewModelsHandler(deps)
	return s, nil
}

// Register installs middleware and attaches all HTTP routes to r. It must
// run before any other routes are added to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(s.requestTimeout))

	r.With(MetricsMiddleware("healthz")).Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", s.healthHandler.MetricsHandler())
	r.With(MetricsMiddleware("models")).Get("/models", s.modelsHandler.HandleListModels)
	r.With(MetricsMiddleware("predict")).Post("/predict/{player_type}", s.predictHandler.HandlePredict)
}

// Handler returns a router with only the API routes registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	s.Register(ctx, r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
