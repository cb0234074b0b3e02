// Package severity turns per-symptom weights into a qualitative tier.
package severity

import (
	"github.com/nightjar-labs/triage/internal/model"
)

// Breakpoints are the mean-weight thresholds for each tier, checked from
// most to least severe. Anything below Medium, and any input with no
// matched weights, scores the default TierLow.
type Breakpoints struct {
	Critical float64
	High     float64
	Medium   float64
}

// DefaultBreakpoints returns the shipped thresholds.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{Critical: 6.0, High: 4.5, Medium: 2.5}
}

// Scorer aggregates symptom weights against fixed breakpoints.
// Safe for concurrent use; the weight table is read-only.
type Scorer struct {
	weights model.SeverityTable
	bp      Breakpoints
}

// New creates a Scorer over the given weight table.
func New(weights model.SeverityTable, bp Breakpoints) *Scorer {
	return &Scorer{weights: weights, bp: bp}
}

// Score computes the tier for a resolved symptom set: the mean weight of
// the symptoms present in the table, compared against the breakpoints.
// Symptoms without a weight contribute nothing; an empty or fully unmatched
// set scores TierLow.
func (s *Scorer) Score(symptoms []string) model.Tier {
	sum := 0.0
	matched := 0
	for _, tok := range symptoms {
		if w, ok := s.weights[tok]; ok {
			sum += w
			matched++
		}
	}
	if matched == 0 {
		return model.TierLow
	}

	mean := sum / float64(matched)
	switch {
	case mean >= s.bp.Critical:
		return model.TierCritical
	case mean >= s.bp.High:
		return model.TierHigh
	case mean >= s.bp.Medium:
		return model.TierMedium
	default:
		return model.TierLow
	}
}
