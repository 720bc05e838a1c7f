package smoketest

import (
	"time"

	"github.com/okian/innings/internal/domain/player"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumRecords int           // Number of records to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated records, empty to skip
	Verbose    bool          // Log every prediction
}

// Submission is one generated record bound to the route it is posted to.
type Submission struct {
	Kind    player.Kind           `json:"kind"`
	Batsman *player.BatsmanRecord `json:"batsman,omitempty"`
	Bowler  *player.BowlerRecord  `json:"bowler,omitempty"`
}

// Body returns the JSON payload for the submission.
func (s Submission) Body() any {
	if s.Batsman != nil {
		return s.Batsman
	}
	return s.Bowler
}

// PredictResponse is the success body of POST /predict/{player_type}.
type PredictResponse struct {
	PredictedCategory string `json:"predicted_category"`
}

// ErrorResponse is the error body returned by the service.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ModelInfo is the subset of GET /models the smoke run checks against.
type ModelInfo struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
}

// Stats holds smoke run statistics.
type Stats struct {
	RecordsGenerated int
	Submitted        int
	Successful       int
	Failed           int
	UnknownLabels    int
	Categories       map[string]int // "kind/label" -> count
	ProbesPassed     int
	ProbesFailed     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
