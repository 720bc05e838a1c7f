package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("prediction service not started")
	ErrPredict    = errors.New("model prediction failed")
)
