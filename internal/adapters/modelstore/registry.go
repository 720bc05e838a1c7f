package modelstore

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
	"github.com/okian/innings/pkg/logger"
	"github.com/okian/innings/pkg/metrics"
)

// Registry holds one predictor per player kind. It is built once and never
// mutated, so it is safe to share across requests without locking.
type Registry struct {
	batting model.Predictor
	bowling model.Predictor
}

// NewRegistry wraps already constructed predictors.
func NewRegistry(batting, bowling model.Predictor) (*Registry, error) {
	if batting == nil || bowling == nil {
		return nil, fmt.Errorf("%w: both batting and bowling models are required", ErrNoModel)
	}
	return &Registry{batting: batting, bowling: bowling}, nil
}

// LoadRegistry reads both artifacts. Any failure aborts the whole load.
func LoadRegistry(ctx context.Context, battingPath, bowlingPath string, opts ...Option) (*Registry, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	batting, err := loadTimed(ctx, o, player.Batsman, battingPath)
	if err != nil {
		return nil, fmt.Errorf("load batting model: %w", err)
	}
	bowling, err := loadTimed(ctx, o, player.Bowler, bowlingPath)
	if err != nil {
		return nil, fmt.Errorf("load bowling model: %w", err)
	}
	return NewRegistry(batting, bowling)
}

func loadTimed(ctx context.Context, o *loadOptions, kind player.Kind, path string) (model.Predictor, error) {
	start := time.Now()
	p, err := Load(ctx, kind, path)
	if err != nil {
		return nil, err
	}
	metrics.RecordModelLoad(kind.String(), float64(time.Since(start).Milliseconds()))
	if o.logger != nil {
		info := p.Info()
		o.logger.Info(ctx, "model loaded",
			logger.String("kind", kind.String()),
			logger.String("name", info.Name),
			logger.String("type", info.Type),
			logger.String("path", path),
			logger.Int("labels", len(info.Labels)),
		)
	}
	return p, nil
}

// For returns the predictor for kind.
func (r *Registry) For(kind player.Kind) (model.Predictor, error) {
	switch kind {
	case player.Batsman:
		return r.batting, nil
	case player.Bowler:
		return r.bowling, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoModel, string(kind))
	}
}

// Models describes the loaded predictors in kind order.
func (r *Registry) Models() []model.Info {
	return []model.Info{r.batting.Info(), r.bowling.Info()}
}
