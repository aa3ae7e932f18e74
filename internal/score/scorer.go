// Package score converts verifications into 0-100 credibility scores and
// rolls scored promises up to one filer-level number. The model is additive
// and fully explainable: every awarded component appends a reason.
package score

import (
	"fmt"
	"math"
	"regexp"

	"github.com/okazarov/attest/internal/model"
)

// Additive component weights, capped to [0,100] overall
const (
	pointsMatch         = 40
	pointsDirection     = 30
	pointsMagnitudeFull = 20
	pointsMagnitudePart = 10
	pointsNoTargetBonus = 10
)

// Status thresholds on the final score
const (
	thresholdHeld  = 80
	thresholdMixed = 50
)

var (
	reTargetPct = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	reIncrease  = regexp.MustCompile(`(?i)\b(?:increase|grow|growth|improve|expand|higher|rise|accelerate)\b`)
	reDecrease  = regexp.MustCompile(`(?i)\b(?:decrease|reduce|reduction|lower|decline|cut|shrink|deleverage)\b`)
)

// Scorer scores verified promises
type Scorer struct{}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score converts one verification into a promise score. Without a matched
// KPI no further scoring is meaningful: the result short-circuits to zero
// with status unclear.
func (s *Scorer) Score(promise model.ClassifiedPromise, verification model.VerificationResult) model.PromiseScore {
	if verification.KPIUsed == nil {
		return model.PromiseScore{
			Score:   0,
			Status:  model.ScoreUnclear,
			Reasons: []string{"no KPI could be matched to this promise"},
		}
	}

	var reasons []string
	total := pointsMatch
	reasons = append(reasons, fmt.Sprintf("+%d: matched metric %s", pointsMatch, verification.KPIUsed.Key))

	var deltaPct *float64
	if verification.Comparison != nil {
		deltaPct = verification.Comparison.DeltaPct
	}

	statedDecrease := reDecrease.MatchString(promise.Text)
	statedIncrease := reIncrease.MatchString(promise.Text)

	// Direction: the promise states a direction and the observed delta
	// agrees with it in sign.
	if deltaPct != nil && (statedIncrease || statedDecrease) {
		if directionAgrees(*deltaPct, statedDecrease) {
			total += pointsDirection
			reasons = append(reasons, fmt.Sprintf("+%d: observed change agrees with the stated direction", pointsDirection))
		} else {
			reasons = append(reasons, "+0: observed change opposes the stated direction")
		}
	}

	// Magnitude against an explicit stated target percentage.
	target := statedTargetPct(promise.Text)
	switch {
	case target > 0 && deltaPct != nil && directionAgrees(*deltaPct, statedDecrease):
		achieved := math.Abs(*deltaPct)
		switch {
		case achieved >= 0.8*target:
			total += pointsMagnitudeFull
			reasons = append(reasons, fmt.Sprintf("+%d: achieved %.2f%% of a stated %.2f%% target", pointsMagnitudeFull, achieved, target))
		case achieved >= 0.4*target:
			total += pointsMagnitudePart
			reasons = append(reasons, fmt.Sprintf("+%d: partially achieved a stated %.2f%% target (%.2f%%)", pointsMagnitudePart, target, achieved))
		default:
			reasons = append(reasons, fmt.Sprintf("+0: achieved %.2f%% falls short of the stated %.2f%% target", achieved, target))
		}
	case target == 0:
		total += pointsNoTargetBonus
		reasons = append(reasons, fmt.Sprintf("+%d: no explicit target stated, metric matched", pointsNoTargetBonus))
	default:
		reasons = append(reasons, "+0: stated target not achieved in the promised direction")
	}

	confPoints := confidencePoints(promise)
	total += confPoints
	reasons = append(reasons, fmt.Sprintf("+%d: classification confidence %s", confPoints, promise.Confidence))

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	return model.PromiseScore{
		Score:   total,
		Status:  statusFor(total),
		Reasons: reasons,
	}
}

// directionAgrees checks the delta sign against the stated direction;
// a promise with no stated decrease is read as promising an increase
func directionAgrees(deltaPct float64, statedDecrease bool) bool {
	if statedDecrease {
		return deltaPct < 0
	}
	return deltaPct > 0
}

// statedTargetPct extracts the first explicit percentage in the promise
// text, or 0 when none is stated
func statedTargetPct(text string) float64 {
	m := reTargetPct.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	var v float64
	if _, err := fmt.Sscanf(m[1], "%f", &v); err != nil {
		return 0
	}
	return v
}

// confidencePoints maps the promise's own classification confidence to
// score points. Numeric confidence inputs on a 0-100 scale bucket the same
// way when no tier is present.
func confidencePoints(p model.ClassifiedPromise) int {
	switch p.Confidence {
	case model.ConfidenceHigh:
		return 10
	case model.ConfidenceMedium:
		return 6
	case model.ConfidenceLow:
		return 3
	}
	switch {
	case p.ConfidenceScore >= 80:
		return 10
	case p.ConfidenceScore >= 60:
		return 6
	default:
		return 3
	}
}

func statusFor(total int) model.ScoreStatus {
	switch {
	case total >= thresholdHeld:
		return model.ScoreHeld
	case total >= thresholdMixed:
		return model.ScoreMixed
	default:
		return model.ScoreFailed
	}
}
