package features

import (
	"fmt"

	"github.com/okian/innings/internal/domain/player"
)

// Feature names shared by both schemas.
const (
	Matches      = "mat"
	StrikeRate   = "sr"
	CareerLength = "career_length"
)

// Run value of boundary hits.
const (
	runsPerFour = 4
	runsPerSix  = 6
)

// BatsmanSchema is the feature order the batting model was trained on.
var BatsmanSchema = []string{Matches, "runs", "avg", StrikeRate, CareerLength, "fours", "sixes", "boundary_pct"}

// BowlerSchema is the feature order the bowling model was trained on.
var BowlerSchema = []string{Matches, "wickets", "econ", StrikeRate, CareerLength}

// Schema returns the feature order for kind.
func Schema(kind player.Kind) ([]string, error) {
	switch kind {
	case player.Batsman:
		return append([]string(nil), BatsmanSchema...), nil
	case player.Bowler:
		return append([]string(nil), BowlerSchema...), nil
	default:
		return nil, fmt.Errorf("%w: %q", player.ErrUnknownKind, string(kind))
	}
}

// BoundaryPct is the share of runs scored from fours and sixes, weighted by
// their run value. It is not clamped. The sum is taken in float64 so very
// large counts cannot wrap.
func BoundaryPct(fours, sixes, runs int) (float64, error) {
	if runs == 0 {
		return 0, ErrZeroRuns
	}
	return (float64(fours)*runsPerFour + float64(sixes)*runsPerSix) / float64(runs), nil
}

// BuildBatsman derives the batting feature vector.
func BuildBatsman(r player.BatsmanRecord) (Vector, error) {
	if r.EndYear < r.StartYear {
		return Vector{}, fmt.Errorf("%w: start_year=%d end_year=%d", player.ErrCareerSpan, r.StartYear, r.EndYear)
	}
	pct, err := BoundaryPct(r.Fours, r.Sixes, r.Runs)
	if err != nil {
		return Vector{}, err
	}
	return newVector(BatsmanSchema, []float64{
		float64(r.Mat),
		float64(r.Runs),
		r.Avg,
		r.SR,
		float64(r.CareerLength()),
		float64(r.Fours),
		float64(r.Sixes),
		pct,
	}), nil
}

// BuildBowler derives the bowling feature vector.
func BuildBowler(r player.BowlerRecord) (Vector, error) {
	if r.EndYear < r.StartYear {
		return Vector{}, fmt.Errorf("%w: start_year=%d end_year=%d", player.ErrCareerSpan, r.StartYear, r.EndYear)
	}
	return newVector(BowlerSchema, []float64{
		float64(r.Mat),
		float64(r.Wickets),
		r.Econ,
		r.SR,
		float64(r.CareerLength()),
	}), nil
}

// Build dispatches on the request's kind.
func Build(req player.Request) (Vector, error) {
	switch req.Kind {
	case player.Batsman:
		if req.Batsman == nil {
			return Vector{}, fmt.Errorf("%w: batsman", ErrUnknownPayload)
		}
		return BuildBatsman(*req.Batsman)
	case player.Bowler:
		if req.Bowler == nil {
			return Vector{}, fmt.Errorf("%w: bowler", ErrUnknownPayload)
		}
		return BuildBowler(*req.Bowler)
	default:
		return Vector{}, fmt.Errorf("%w: %q", player.ErrUnknownKind, string(req.Kind))
	}
}

// FromValues builds a vector with the given schema, for callers that already
// hold ordered values (tests, offline tooling).
func FromValues(schema []string, values []float64) (Vector, error) {
	if len(schema) != len(values) {
		return Vector{}, fmt.Errorf("schema has %d features, got %d values", len(schema), len(values))
	}
	return newVector(append([]string(nil), schema...), append([]float64(nil), values...)), nil
}
