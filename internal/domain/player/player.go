// Package player defines the cricket player records accepted for prediction
// and the tagged request that binds a record to its player type.
package player

import (
	"fmt"
	"strings"
)

// Kind identifies which model a record is classified by.
type Kind string

// Supported player kinds.
const (
	Batsman Kind = "batsman"
	Bowler  Kind = "bowler"
)

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind { return []Kind{Batsman, Bowler} }

// ParseKind resolves a path parameter to a Kind, ignoring case and
// surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Batsman:
		return Batsman, nil
	case Bowler:
		return Bowler, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (k Kind) String() string { return string(k) }

// Other returns the opposite kind.
func (k Kind) Other() Kind {
	if k == Batsman {
		return Bowler
	}
	return Batsman
}

// BatsmanRecord carries career batting statistics.
type BatsmanRecord struct {
	Player    string  `json:"player"`
	Mat       int     `json:"mat"`
	Runs      int     `json:"runs"`
	SR        float64 `json:"sr"`
	Avg       float64 `json:"avg"`
	Fours     int     `json:"fours"`
	Sixes     int     `json:"sixes"`
	StartYear int     `json:"start_year"`
	EndYear   int     `json:"end_year"`
}

// CareerLength is the span in years between first and last season.
func (r BatsmanRecord) CareerLength() int { return r.EndYear - r.StartYear }

// Validate checks the invariants every batsman record must hold. A zero
// runs total is valid here; it is rejected when features are derived.
func (r BatsmanRecord) Validate() error {
	if err := nonNegative([]stat{
		{"mat", r.Mat},
		{"runs", r.Runs},
		{"fours", r.Fours},
		{"sixes", r.Sixes},
	}); err != nil {
		return err
	}
	return careerSpan(r.StartYear, r.EndYear)
}

// BowlerRecord carries career bowling statistics.
type BowlerRecord struct {
	Player    string  `json:"player"`
	Mat       int     `json:"mat"`
	Wickets   int     `json:"wickets"`
	Econ      float64 `json:"econ"`
	SR        float64 `json:"sr"`
	StartYear int     `json:"start_year"`
	EndYear   int     `json:"end_year"`
}

// CareerLength is the span in years between first and last season.
func (r BowlerRecord) CareerLength() int { return r.EndYear - r.StartYear }

// Validate checks the invariants every bowler record must hold.
func (r BowlerRecord) Validate() error {
	if err := nonNegative([]stat{
		{"mat", r.Mat},
		{"wickets", r.Wickets},
	}); err != nil {
		return err
	}
	return careerSpan(r.StartYear, r.EndYear)
}

// stat is a named count checked in declaration order.
type stat struct {
	name  string
	value int
}

func nonNegative(stats []stat) error {
	for _, s := range stats {
		if s.value < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeStat, s.name, s.value)
		}
	}
	return nil
}

func careerSpan(start, end int) error {
	if end < start {
		return fmt.Errorf("%w: start_year=%d end_year=%d", ErrCareerSpan, start, end)
	}
	return nil
}
