package criteria

import (
	"testing"

	"o1ready/internal/types"
)

// assessmentWithMet builds a well-formed assessment with the first metCount
// criteria marked met at the given confidence.
func assessmentWithMet(metCount int, confidence float64) types.Assessment {
	records := make([]types.CriterionEvidence, len(Definitions))
	for i, d := range Definitions {
		records[i] = types.CriterionEvidence{
			Name:        d.Name,
			Description: d.Description,
			Met:         i < metCount,
			Reasoning:   "test",
		}
		if records[i].Met {
			records[i].Confidence = confidence
			records[i].Evidence = []string{"evidence"}
		}
	}
	return types.Assessment{Criteria: records}
}

func TestScoreThresholdFlag(t *testing.T) {
	// The one load-bearing business rule: threshold is true iff metCount >= 3.
	for metCount := 0; metCount <= Count; metCount++ {
		result, err := Score(assessmentWithMet(metCount, 0.8))
		if err != nil {
			t.Fatalf("Score failed for metCount=%d: %v", metCount, err)
		}

		if result.MetCount != metCount {
			t.Errorf("Expected metCount %d, got %d", metCount, result.MetCount)
		}

		expectedThreshold := metCount >= 3
		if result.ThresholdMet != expectedThreshold {
			t.Errorf("metCount=%d: expected thresholdMet=%v, got %v", metCount, expectedThreshold, result.ThresholdMet)
		}
	}
}

func TestScoreMonotonicInMetCount(t *testing.T) {
	// Score must never decrease as met-count rises, even when the lower
	// met-count has maximum confidence and the higher one has none.
	for metCount := 1; metCount <= Count; metCount++ {
		lower, err := Score(assessmentWithMet(metCount-1, 1.0))
		if err != nil {
			t.Fatalf("Score failed for metCount=%d: %v", metCount-1, err)
		}
		higher, err := Score(assessmentWithMet(metCount, 0.0))
		if err != nil {
			t.Fatalf("Score failed for metCount=%d: %v", metCount, err)
		}

		if higher.Score < lower.Score {
			t.Errorf("Score not monotonic: metCount=%d confidence=1.0 scored %d, metCount=%d confidence=0.0 scored %d",
				metCount-1, lower.Score, metCount, higher.Score)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		name       string
		metCount   int
		confidence float64
		expected   int
	}{
		{name: "nothing met", metCount: 0, confidence: 0, expected: 0},
		{name: "one met no confidence", metCount: 1, confidence: 0, expected: 12},
		{name: "one met full confidence", metCount: 1, confidence: 1.0, expected: 16},
		{name: "threshold met", metCount: 3, confidence: 0.5, expected: 38},
		{name: "all met full confidence clamps to 100", metCount: 8, confidence: 1.0, expected: 100},
		{name: "all met no confidence", metCount: 8, confidence: 0, expected: 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Score(assessmentWithMet(tt.metCount, tt.confidence))
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if result.Score != tt.expected {
				t.Errorf("Expected score %d, got %d", tt.expected, result.Score)
			}
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("Score %d outside [0,100]", result.Score)
			}
		})
	}
}

func TestScoreTierMapping(t *testing.T) {
	// Every met-count maps to exactly one tier and the boundaries are stable.
	expectedTiers := map[int]string{
		0: TierNeedsWork,
		1: TierNeedsWork,
		2: TierNeedsWork,
		3: TierModerate,
		4: TierModerate,
		5: TierStrong,
		6: TierStrong,
		7: TierStrong,
		8: TierStrong,
	}

	for metCount := 0; metCount <= Count; metCount++ {
		result, err := Score(assessmentWithMet(metCount, 0.7))
		if err != nil {
			t.Fatalf("Score failed for metCount=%d: %v", metCount, err)
		}
		if result.Tier != expectedTiers[metCount] {
			t.Errorf("metCount=%d: expected tier %q, got %q", metCount, expectedTiers[metCount], result.Tier)
		}
	}
}

func TestScoreRejectsMalformedAssessments(t *testing.T) {
	tests := []struct {
		name       string
		assessment types.Assessment
	}{
		{
			name:       "empty assessment",
			assessment: types.Assessment{},
		},
		{
			name: "seven criteria",
			assessment: types.Assessment{
				Criteria: assessmentWithMet(0, 0).Criteria[:7],
			},
		},
		{
			name: "nine criteria",
			assessment: types.Assessment{
				Criteria: append(assessmentWithMet(0, 0).Criteria, types.CriterionEvidence{Name: "Extra"}),
			},
		},
		{
			name: "duplicate criterion",
			assessment: func() types.Assessment {
				a := assessmentWithMet(0, 0)
				a.Criteria[1].Name = a.Criteria[0].Name
				return a
			}(),
		},
		{
			name: "unknown criterion name",
			assessment: func() types.Assessment {
				a := assessmentWithMet(0, 0)
				a.Criteria[3].Name = "Patents"
				return a
			}(),
		},
		{
			name: "confidence above one",
			assessment: func() types.Assessment {
				a := assessmentWithMet(2, 0.5)
				a.Criteria[0].Confidence = 1.5
				return a
			}(),
		},
		{
			name: "negative confidence",
			assessment: func() types.Assessment {
				a := assessmentWithMet(2, 0.5)
				a.Criteria[1].Confidence = -0.1
				return a
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Score(tt.assessment); err == nil {
				t.Error("Expected error for malformed assessment, got none")
			}
		})
	}
}

func TestNormalizeReordersAndFillsDescriptions(t *testing.T) {
	a := assessmentWithMet(3, 0.9)
	// Shuffle the records and blank the descriptions.
	a.Criteria[0], a.Criteria[7] = a.Criteria[7], a.Criteria[0]
	a.Criteria[2], a.Criteria[5] = a.Criteria[5], a.Criteria[2]
	for i := range a.Criteria {
		a.Criteria[i].Description = ""
	}

	normalized, err := Normalize(a)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	for i, d := range Definitions {
		if normalized.Criteria[i].Name != d.Name {
			t.Errorf("Position %d: expected %q, got %q", i, d.Name, normalized.Criteria[i].Name)
		}
		if normalized.Criteria[i].Description != d.Description {
			t.Errorf("Criterion %q: description not filled from definitions", d.Name)
		}
	}
}

func TestEmptyAssessmentIsScoreable(t *testing.T) {
	a := EmptyAssessment("resume could not be parsed")

	result, err := Score(a)
	if err != nil {
		t.Fatalf("Score failed on empty assessment: %v", err)
	}

	if result.MetCount != 0 {
		t.Errorf("Expected metCount 0, got %d", result.MetCount)
	}
	if result.ThresholdMet {
		t.Error("Empty assessment should not meet the threshold")
	}
	if result.Tier != TierNeedsWork {
		t.Errorf("Expected tier %q, got %q", TierNeedsWork, result.Tier)
	}
	for _, c := range a.Criteria {
		if c.Reasoning != "resume could not be parsed" {
			t.Errorf("Criterion %q: expected failure reason in reasoning, got %q", c.Name, c.Reasoning)
		}
	}
}

func BenchmarkScore(b *testing.B) {
	a := assessmentWithMet(5, 0.85)
	for b.Loop() {
		_, _ = Score(a)
	}
}
