package modelstore

import "errors"

// Sentinel kinds for model loading errors.
var (
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrArtifactCorrupt  = errors.New("model artifact corrupt")
	ErrIncompatible     = errors.New("model artifact incompatible")
	ErrNoModel          = errors.New("no model for player type")
)
