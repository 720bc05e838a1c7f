// Package service provides the prediction service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/innings/internal/adapters/modelstore"
	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
	"github.com/okian/innings/pkg/logger"
	"github.com/okian/innings/pkg/metrics"
)

// Default artifact locations, relative to the working directory.
const (
	DefaultBattingModelPath = "models/analysis/batting_model.yaml"
	DefaultBowlingModelPath = "models/analysis/bowling_model.yaml"
)

// Service classifies player records with the model registered for their kind.
type Service struct {
	mu sync.RWMutex

	battingPath string
	bowlingPath string

	registry *modelstore.Registry
	started  bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithModelPaths sets the artifact paths loaded by Start.
func WithModelPaths(batting, bowling string) Option {
	return func(s *Service) {
		if batting != "" {
			s.battingPath = batting
		}
		if bowling != "" {
			s.bowlingPath = bowling
		}
	}
}

// WithRegistry injects an already built registry; Start then skips loading.
func WithRegistry(r *modelstore.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// New constructs a Service. Models are not loaded until Start.
func New(opts ...Option) *Service {
	s := &Service{
		battingPath: DefaultBattingModelPath,
		bowlingPath: DefaultBowlingModelPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the model registry. It is safe to call more than once; only
// the first successful call loads. A load failure leaves the service
// unstarted and must be treated as fatal by the caller.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.registry == nil {
		s.logger.Info(ctx, "loading models",
			logger.String("batting", s.battingPath),
			logger.String("bowling", s.bowlingPath),
		)
		reg, err := modelstore.LoadRegistry(ctx, s.battingPath, s.bowlingPath, modelstore.WithLogger(s.logger))
		if err != nil {
			return fmt.Errorf("start prediction service: %w", err)
		}
		s.registry = reg
	}

	s.started = true
	s.logger.Info(ctx, "prediction service started", logger.Int("models", len(s.registry.Models())))
	return nil
}

// Stop marks the service as stopped. Loaded models are kept in memory.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

// Ready reports whether the service can classify.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Service) models() (*modelstore.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.registry, nil
}

// Classify validates the request, derives its features and returns the
// label predicted by the model for its kind.
func (s *Service) Classify(ctx context.Context, req player.Request) (model.Prediction, error) {
	reg, err := s.models()
	if err != nil {
		return model.Prediction{}, err
	}

	kind := req.Kind.String()
	start := time.Now()

	if err := req.Validate(); err != nil {
		metrics.RecordPredictionError(kind, reason(err))
		return model.Prediction{}, err
	}
	vec, err := features.Build(req)
	if err != nil {
		metrics.RecordPredictionError(kind, reason(err))
		return model.Prediction{}, err
	}
	predictor, err := reg.For(req.Kind)
	if err != nil {
		metrics.RecordPredictionError(kind, reason(err))
		return model.Prediction{}, err
	}
	label, err := predictor.Predict(ctx, vec)
	if err != nil {
		metrics.RecordPredictionError(kind, "model_error")
		s.logger.Error(ctx, "model prediction failed",
			logger.String("kind", kind),
			logger.String("model", predictor.Info().Name),
			logger.Error(err),
		)
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrPredict, err)
	}

	metrics.RecordPredictionLatency(kind, float64(time.Since(start).Microseconds())/1000)
	metrics.RecordPrediction(kind, label.String())
	s.logger.Debug(ctx, "player classified",
		logger.String("kind", kind),
		logger.String("player", req.PlayerName()),
		logger.String("category", label.String()),
	)

	return model.Prediction{Kind: req.Kind, Label: label, Features: vec}, nil
}

// Models describes the loaded models.
func (s *Service) Models(_ context.Context) ([]model.Info, error) {
	reg, err := s.models()
	if err != nil {
		return nil, err
	}
	return reg.Models(), nil
}

// reason maps a classification error to a metrics label.
func reason(err error) string {
	switch {
	case errors.Is(err, features.ErrZeroRuns):
		return "zero_runs"
	case errors.Is(err, player.ErrCareerSpan):
		return "career_span"
	case errors.Is(err, player.ErrNegativeStat):
		return "negative_stat"
	case errors.Is(err, player.ErrPayloadMismatch), errors.Is(err, features.ErrUnknownPayload):
		return "payload_mismatch"
	case errors.Is(err, player.ErrUnknownKind), errors.Is(err, modelstore.ErrNoModel):
		return "unknown_kind"
	default:
		return "other"
	}
}
