package score

import (
	"math"

	"github.com/okazarov/attest/internal/model"
)

// Aggregate rolls many scored promises into one filer-level credibility
// number: held contributes +1, mixed 0, failed -1; unclear promises are
// excluded from both numerator and denominator. The company score is nil
// when no promise resolved beyond unclear.
func Aggregate(scores []model.PromiseScore) model.CompanyScore {
	var breakdown model.ScoreBreakdown
	sum := 0
	counted := 0

	for _, s := range scores {
		switch s.Status {
		case model.ScoreHeld:
			breakdown.Held++
			sum++
			counted++
		case model.ScoreMixed:
			breakdown.Mixed++
			counted++
		case model.ScoreFailed:
			breakdown.Failed++
			sum--
			counted++
		default:
			breakdown.Unclear++
		}
	}

	company := model.CompanyScore{
		ScoredCount: counted,
		Breakdown:   breakdown,
	}
	if counted > 0 {
		v := int(math.Round(float64(sum) / float64(counted) * 100))
		company.Score = &v
	}
	return company
}
