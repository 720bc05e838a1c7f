// Package model defines the classifier capability the prediction service
// depends on. Concrete model formats live in adapters.
package model

import (
	"context"
	"errors"

	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/player"
)

// ErrSchemaMismatch is returned when a vector does not carry the features a
// predictor was trained on.
var ErrSchemaMismatch = errors.New("feature vector does not match model schema")

// Label is a predicted performance category, e.g. "Power Hitter".
type Label string

func (l Label) String() string { return string(l) }

// Info describes a loaded model.
type Info struct {
	Name     string      `json:"name"`
	Kind     player.Kind `json:"kind"`
	Type     string      `json:"type"`
	Version  int         `json:"format_version"`
	Features []string    `json:"features"`
	Labels   []Label     `json:"labels"`
	Source   string      `json:"source,omitempty"`
}

// Predictor is an immutable trained classifier. Implementations must be
// safe for concurrent use.
type Predictor interface {
	// Predict returns exactly one label for a vector matching the schema the
	// model was trained on.
	Predict(ctx context.Context, v features.Vector) (Label, error)

	// Info describes the model.
	Info() Info
}

// PredictorFunc adapts a function to a Predictor with the given info.
type PredictorFunc struct {
	Fn   func(ctx context.Context, v features.Vector) (Label, error)
	Meta Info
}

// Predict calls Fn.
func (p PredictorFunc) Predict(ctx context.Context, v features.Vector) (Label, error) {
	return p.Fn(ctx, v)
}

// Info returns Meta.
func (p PredictorFunc) Info() Info { return p.Meta }

// Prediction is the outcome of classifying one record.
type Prediction struct {
	Kind     player.Kind
	Label    Label
	Features features.Vector
}
