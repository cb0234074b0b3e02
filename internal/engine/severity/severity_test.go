package severity

import (
	"testing"

	"github.com/nightjar-labs/triage/internal/model"
)

func testScorer() *Scorer {
	return New(model.SeverityTable{
		"itching":             1,
		"cough":               2,
		"headache":            3,
		"fever":               4,
		"vomiting":            5,
		"shortness_of_breath": 6,
		"chest_pain":          7,
	}, DefaultBreakpoints())
}

func TestScoreTiers(t *testing.T) {
	s := testScorer()

	tests := []struct {
		name     string
		symptoms []string
		want     model.Tier
	}{
		{"empty set defaults low", nil, model.TierLow},
		{"unknown symptoms default low", []string{"mystery"}, model.TierLow},
		{"single light symptom", []string{"itching"}, model.TierLow},
		{"medium band", []string{"fever", "headache"}, model.TierMedium}, // mean 3.5
		{"high band", []string{"vomiting", "fever"}, model.TierHigh},     // mean 4.5
		{"critical band", []string{"chest_pain", "shortness_of_breath"}, model.TierCritical}, // mean 6.5
		{"unknown symptom does not dilute", []string{"chest_pain", "shortness_of_breath", "mystery"}, model.TierCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(tt.symptoms); got != tt.want {
				t.Fatalf("Score(%v) = %s, want %s", tt.symptoms, got, tt.want)
			}
		})
	}
}

func TestScoreMonotonicity(t *testing.T) {
	s := testScorer()

	// Adding a symptom strictly heavier than everything already present
	// must never lower the tier.
	rank := map[model.Tier]int{
		model.TierLow: 0, model.TierMedium: 1, model.TierHigh: 2, model.TierCritical: 3,
	}
	base := []string{"cough", "headache"}
	before := s.Score(base)
	for _, heavier := range []string{"fever", "vomiting", "shortness_of_breath", "chest_pain"} {
		after := s.Score(append(append([]string(nil), base...), heavier))
		if rank[after] < rank[before] {
			t.Errorf("adding %s lowered tier from %s to %s", heavier, before, after)
		}
	}
}
