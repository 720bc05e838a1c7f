package smoketest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/innings/internal/domain/player"
	"github.com/okian/innings/pkg/logger"
)

// randomFloatDivisor sets the resolution of randomFloat.
const randomFloatDivisor = 1000000

// Ranges for generated career statistics.
const (
	minMatches      = 5
	matchRange      = 120
	runsPerMatchMax = 45
	firstSeason     = 1995
	seasonRange     = 25
	maxCareerYears  = 15
	batSRMin        = 60.0
	batSRRange      = 100.0
	bowlEconMin     = 4.0
	bowlEconRange   = 6.0
	bowlSRMin       = 12.0
	bowlSRRange     = 25.0
	wicketsPerMatch = 2
)

// randomFloat returns a random float64 in [0, 1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomInt returns a random int in [0, n).
func randomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// GenerateRecords creates n valid records alternating between kinds.
func GenerateRecords(ctx context.Context, n int) ([]Submission, error) {
	logger.Get().Info(ctx, "generating player records", logger.Int("count", n))

	out := make([]Submission, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during record generation: %w", err)
		}
		name := "player-" + uuid.NewString()[:8]
		if i%2 == 0 {
			rec := generateBatsman(name)
			out = append(out, Submission{Kind: player.Batsman, Batsman: &rec})
		} else {
			rec := generateBowler(name)
			out = append(out, Submission{Kind: player.Bowler, Bowler: &rec})
		}
	}
	return out, nil
}

func careerYears() (start, end int) {
	start = firstSeason + randomInt(seasonRange)
	return start, start + randomInt(maxCareerYears+1)
}

func generateBatsman(name string) player.BatsmanRecord {
	mat := minMatches + randomInt(matchRange)
	runs := 1 + randomInt(mat*runsPerMatchMax)
	start, end := careerYears()

	// Boundaries stay below the runs they account for.
	fours := randomInt(runs/8 + 1)
	sixes := randomInt(runs/20 + 1)

	return player.BatsmanRecord{
		Player:    name,
		Mat:       mat,
		Runs:      runs,
		SR:        batSRMin + randomFloat()*batSRRange,
		Avg:       float64(runs) / float64(1+randomInt(mat)),
		Fours:     fours,
		Sixes:     sixes,
		StartYear: start,
		EndYear:   end,
	}
}

func generateBowler(name string) player.BowlerRecord {
	mat := minMatches + randomInt(matchRange)
	start, end := careerYears()
	return player.BowlerRecord{
		Player:    name,
		Mat:       mat,
		Wickets:   randomInt(mat*wicketsPerMatch + 1),
		Econ:      bowlEconMin + randomFloat()*bowlEconRange,
		SR:        bowlSRMin + randomFloat()*bowlSRRange,
		StartYear: start,
		EndYear:   end,
	}
}
