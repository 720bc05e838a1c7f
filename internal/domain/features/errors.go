package features

import "errors"

// Sentinel errors returned while deriving feature vectors.
var (
	ErrZeroRuns       = errors.New("runs must be greater than zero")
	ErrUnknownPayload = errors.New("request carries no record")
)
