package criteria

import (
	"math"

	"o1ready/internal/types"
)

// Tier labels. Strong means a petition-ready profile, Moderate means the
// three-criterion threshold is met, Needs Work means it is not.
const (
	TierStrong    = "Strong"
	TierModerate  = "Moderate"
	TierNeedsWork = "Needs Work"
)

const (
	strongMinimum   = 5
	pointsPerMet    = 12
	confidenceBonus = 4
)

// Score computes the deterministic readiness result for an assessment.
//
// The 0-100 score is metCount*12 plus a confidence bonus of at most 4 points,
// so the bonus can never bridge a met-count step and the score stays monotonic
// in met-count. The input is validated with Normalize first; malformed
// assessments are rejected rather than scored.
func Score(a types.Assessment) (types.ScoreResult, error) {
	normalized, err := Normalize(a)
	if err != nil {
		return types.ScoreResult{}, err
	}

	metCount := 0
	confidenceSum := 0.0
	for _, c := range normalized.Criteria {
		if c.Met {
			metCount++
			confidenceSum += c.Confidence
		}
	}

	score := metCount * pointsPerMet
	if metCount > 0 {
		avg := confidenceSum / float64(metCount)
		score += int(math.Round(avg * confidenceBonus))
	}
	if score > 100 {
		score = 100
	}

	return types.ScoreResult{
		MetCount:     metCount,
		ThresholdMet: metCount >= Threshold,
		Score:        score,
		Tier:         tierFor(metCount),
	}, nil
}

// tierFor maps a met-count to its tier. Total over 0..8.
func tierFor(metCount int) string {
	switch {
	case metCount >= strongMinimum:
		return TierStrong
	case metCount >= Threshold:
		return TierModerate
	default:
		return TierNeedsWork
	}
}
