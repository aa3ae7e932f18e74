// Package verify checks a classified promise against canonical KPI trends.
// Verification is a pure, total function: every failure path is represented
// in the returned status, and identical inputs always produce identical
// results.
package verify

import (
	"fmt"
	"math"
	"strings"

	"github.com/okazarov/attest/internal/kpi"
	"github.com/okazarov/attest/internal/mapping"
	"github.com/okazarov/attest/internal/model"
)

// minMaterialDeltaPct is the near-zero band: changes smaller than this are
// neither support nor contradiction
const minMaterialDeltaPct = 1.0

// Computed margin ratio keys, preferred over directly tagged metrics for
// margin promises. Operating margin first, gross margin second (one
// consistent priority order).
const (
	keyOperatingMargin = "operatingMargin"
	keyGrossMargin     = "grossMargin"
)

// Verifier resolves promises against KPI series and judges direction and
// magnitude of the observed change
type Verifier struct {
	mapper *mapping.Mapper
}

// NewVerifier creates a verifier
func NewVerifier() *Verifier {
	return &Verifier{mapper: mapping.NewMapper()}
}

// Verify checks one promise against the extracted KPI set
func (v *Verifier) Verify(promise model.ClassifiedPromise, kpis *model.KPIExtractionResult) model.VerificationResult {
	var reasoning []string

	typ := v.mapper.ResolveType(promise)
	if typ != promise.Type {
		reasoning = append(reasoning, fmt.Sprintf("promise type %q has no direct KPI mapping; inferred %q from text", promise.Type, typ))
	}
	if typ == model.PromiseOther {
		reasoning = append(reasoning, "no KPI mapping exists for this promise and none could be inferred from its text")
		return model.VerificationResult{
			Status:     model.StatusUnresolved,
			Confidence: model.ConfidenceLow,
			KPIUsed:    nil,
			Notes:      "Promise could not be mapped to any tracked metric.",
			Reasoning:  reasoning,
		}
	}

	// Margin promises prefer a computed ratio over directly tagged metrics.
	var series model.KPISeries
	var used *model.KPIRef
	var attempted []string
	if typ == model.PromiseMargin {
		series, used = v.marginSeries(kpis, &reasoning)
		attempted = append(attempted, keyOperatingMargin, keyGrossMargin)
	}
	if used == nil {
		series, used, attempted = v.resolveSeries(typ, kpis, attempted, &reasoning)
	}

	if used == nil {
		reasoning = append(reasoning, fmt.Sprintf("no data points for any candidate key (tried: %s)", strings.Join(attempted, ", ")))
		if available := kpis.AvailableKeys(); len(available) > 0 {
			sample := available
			if len(sample) > 5 {
				sample = sample[:5]
			}
			reasoning = append(reasoning, fmt.Sprintf("keys with data: %s", strings.Join(sample, ", ")))
		} else {
			reasoning = append(reasoning, "no KPI data was extracted for this filer")
		}
		return model.VerificationResult{
			Status:     model.StatusUnresolved,
			Confidence: model.ConfidenceLow,
			KPIUsed:    nil,
			Notes:      "No KPI data available to verify this promise.",
			Reasoning:  reasoning,
		}
	}

	after, before := series.ComparablePair()
	if after == nil {
		// Resolved a key but every point was filtered out of the pair
		// search; treat as no data for this metric.
		reasoning = append(reasoning, fmt.Sprintf("%s resolved but no comparable data points remain", used.Key))
		return model.VerificationResult{
			Status:     model.StatusUnresolved,
			Confidence: model.ConfidenceLow,
			KPIUsed:    used,
			Notes:      "No comparable data points for the matched metric.",
			Reasoning:  reasoning,
		}
	}

	if before == nil {
		afterVal := after.Value
		reasoning = append(reasoning, fmt.Sprintf("%s has a single data point (%s %s); trend not yet comparable", used.Key, after.FiscalPeriod, fiscalYearLabel(after)))
		return model.VerificationResult{
			Status:     model.StatusPending,
			Confidence: model.ConfidenceLow,
			KPIUsed:    used,
			Comparison: &model.Comparison{After: &afterVal},
			Notes:      "Only one historical data point exists; verification is pending.",
			Reasoning:  reasoning,
		}
	}

	deltaAbs := after.Value - before.Value
	deltaPct := 0.0
	if before.Value != 0 {
		deltaPct = round2((after.Value - before.Value) / math.Abs(before.Value) * 100)
	}
	beforeVal, afterVal := before.Value, after.Value
	comparison := &model.Comparison{
		Before:   &beforeVal,
		After:    &afterVal,
		DeltaAbs: &deltaAbs,
		DeltaPct: &deltaPct,
	}
	reasoning = append(reasoning, fmt.Sprintf("%s moved from %.2f (%s %s) to %.2f (%s %s): %+.2f%%",
		used.Key, before.Value, before.FiscalPeriod, fiscalYearLabel(before),
		after.Value, after.FiscalPeriod, fiscalYearLabel(after), deltaPct))

	favorable := increaseFavorable(typ, used.Key)
	status := judge(deltaPct, favorable, &reasoning)
	confidence := verificationConfidence(after, before, &reasoning)

	return model.VerificationResult{
		Status:     status,
		Confidence: confidence,
		KPIUsed:    used,
		Comparison: comparison,
		Notes:      notesFor(status, used.Label, deltaPct),
		Reasoning:  reasoning,
	}
}

// resolveSeries walks the mapped key list, then fuzzy-matched keys, taking
// the first key with at least one data point
func (v *Verifier) resolveSeries(typ model.PromiseType, kpis *model.KPIExtractionResult, attempted []string, reasoning *[]string) (model.KPISeries, *model.KPIRef, []string) {
	keys := v.mapper.Keys(typ)
	keys = append(keys, v.mapper.FuzzyKeys(typ, kpis.AvailableKeys())...)

	seen := make(map[string]bool)
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		attempted = append(attempted, key)
		series := kpis.Series(key)
		if len(series) == 0 {
			continue
		}
		*reasoning = append(*reasoning, fmt.Sprintf("resolved %q promise to metric %s (%d points)", typ, key, len(series)))
		return series, &model.KPIRef{Key: key, Label: kpi.MetricLabel(key)}, attempted
	}
	return nil, nil, attempted
}

// marginSeries computes the preferred margin ratio series: operating income
// over revenue first, gross profit over revenue second. Nil when neither
// ratio pair has matching fiscal periods.
func (v *Verifier) marginSeries(kpis *model.KPIExtractionResult, reasoning *[]string) (model.KPISeries, *model.KPIRef) {
	if series := ratioSeries(kpis.Series("operatingIncome"), kpis.Series("revenue"), keyOperatingMargin); len(series) > 0 {
		*reasoning = append(*reasoning, fmt.Sprintf("computed operating margin from operatingIncome / revenue (%d matched periods)", len(series)))
		return series, &model.KPIRef{Key: keyOperatingMargin, Label: "Operating margin (computed)"}
	}
	if series := ratioSeries(kpis.Series("grossProfit"), kpis.Series("revenue"), keyGrossMargin); len(series) > 0 {
		*reasoning = append(*reasoning, fmt.Sprintf("computed gross margin from grossProfit / revenue (%d matched periods)", len(series)))
		return series, &model.KPIRef{Key: keyGrossMargin, Label: "Gross margin (computed)"}
	}
	*reasoning = append(*reasoning, "no ratio pair available; falling back to directly tagged metrics")
	return nil, nil
}

// ratioSeries divides numerator by denominator for matching fiscal periods,
// yielding a synthetic percentage series in the numerator's recency order
func ratioSeries(num, den model.KPISeries, key string) model.KPISeries {
	if len(num) == 0 || len(den) == 0 {
		return nil
	}
	denByPeriod := make(map[string]model.CanonicalKPI)
	for _, d := range den {
		denByPeriod[fmt.Sprintf("%d|%s", d.FiscalYear, d.FiscalPeriod)] = d
	}

	var out model.KPISeries
	for _, n := range num {
		d, ok := denByPeriod[fmt.Sprintf("%d|%s", n.FiscalYear, n.FiscalPeriod)]
		if !ok || d.Value == 0 {
			continue
		}
		out = append(out, model.CanonicalKPI{
			Key:          key,
			Label:        key,
			Period:       n.Period,
			PeriodType:   n.PeriodType,
			Value:        round2(n.Value / d.Value * 100),
			Unit:         "ratio",
			FiledDate:    n.FiledDate,
			FiscalYear:   n.FiscalYear,
			FiscalPeriod: n.FiscalPeriod,
			Form:         n.Form,
		})
	}
	return out
}

// increaseFavorable applies the per-key directionality flag, with the COSTS
// special case: costs are rarely tagged directly, so an increase in the
// income-like proxy metric counts as evidence of cost efficiency.
func increaseFavorable(typ model.PromiseType, key string) bool {
	if typ == model.PromiseCosts {
		switch key {
		case "operatingIncome", "netIncome", keyOperatingMargin, keyGrossMargin:
			return true
		}
	}
	switch key {
	case keyOperatingMargin, keyGrossMargin:
		return true
	}
	return kpi.IncreaseFavorable(key)
}

func judge(deltaPct float64, increaseFavorable bool, reasoning *[]string) model.VerificationStatus {
	if math.Abs(deltaPct) < minMaterialDeltaPct {
		*reasoning = append(*reasoning, fmt.Sprintf("change of %.2f%% is within the ±%.0f%% noise band", deltaPct, minMaterialDeltaPct))
		return model.StatusUnresolved
	}
	observedIncrease := deltaPct > 0
	if observedIncrease == increaseFavorable {
		*reasoning = append(*reasoning, "observed direction matches the favorable direction for this metric")
		return model.StatusSupported
	}
	*reasoning = append(*reasoning, "observed direction contradicts the favorable direction for this metric")
	return model.StatusContradicted
}

// verificationConfidence is additive: +40 both points (+20 when only the
// latest exists), +20 same unit, +20 annual periodicity, +20 bonus when all
// three hold. High at 80, medium at 50.
func verificationConfidence(after, before *model.CanonicalKPI, reasoning *[]string) model.Confidence {
	score := 0
	both := after != nil && before != nil
	if both {
		score += 40
	} else if after != nil {
		score += 20
	}
	sameUnit := both && after.Unit == before.Unit
	if sameUnit {
		score += 20
	}
	annual := after != nil && after.PeriodType == model.PeriodAnnual && (before == nil || before.PeriodType == model.PeriodAnnual)
	if annual {
		score += 20
	}
	if both && sameUnit && annual {
		score += 20
	}
	*reasoning = append(*reasoning, fmt.Sprintf("verification confidence score %d (both points=%t, same unit=%t, annual=%t)", score, both, sameUnit, annual))

	switch {
	case score >= 80:
		return model.ConfidenceHigh
	case score >= 50:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func notesFor(status model.VerificationStatus, label string, deltaPct float64) string {
	switch status {
	case model.StatusSupported:
		return fmt.Sprintf("%s moved %+.2f%% in the promised direction.", label, deltaPct)
	case model.StatusContradicted:
		return fmt.Sprintf("%s moved %+.2f%% against the promised direction.", label, deltaPct)
	default:
		return fmt.Sprintf("%s changed %+.2f%%, too small to support or contradict the promise.", label, deltaPct)
	}
}

func fiscalYearLabel(k *model.CanonicalKPI) string {
	return fmt.Sprintf("FY%d", k.FiscalYear)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
