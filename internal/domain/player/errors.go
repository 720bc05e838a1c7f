package player

import "errors"

// Sentinel errors for player records and requests. Callers match with errors.Is.
var (
	ErrUnknownKind     = errors.New("unknown player type")
	ErrPayloadMismatch = errors.New("payload does not match player type")
	ErrNegativeStat    = errors.New("stat must not be negative")
	ErrCareerSpan      = errors.New("end_year must not be before start_year")
)
