// Package kpi resolves structured numeric disclosures to a canonical,
// versioned metric vocabulary with period and unit normalization.
package kpi

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okazarov/attest/internal/model"
)

const (
	maxPointsPerMetric = 8
	maxPointsTotal     = 50
)

// FactsPayload is the structured numeric-facts input: a namespaced tag
// vocabulary with nested unit buckets and per-datapoint metadata. This is
// the shape regulatory registries publish company facts in.
type FactsPayload struct {
	CIK        json.Number                   `json:"cik"`
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]Concept `json:"facts"`
}

// Concept is one tagged concept with its unit-bucketed data points
type Concept struct {
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Units       map[string][]FactPoint `json:"units"`
}

// FactPoint is one disclosed value for a concept
type FactPoint struct {
	Start string  `json:"start,omitempty"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"` // FY, Q1..Q4
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
	Frame string  `json:"frame,omitempty"`
}

// ParseFactsPayload unmarshals a raw facts document
func ParseFactsPayload(data []byte) (*FactsPayload, error) {
	var payload FactsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse facts payload: %w", err)
	}
	return &payload, nil
}

// Extractor resolves facts payloads against the metric dictionary
type Extractor struct{}

// NewExtractor creates a KPI extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract resolves the payload to the canonical KPI set. A metric with no
// resolvable tag is silently absent. The only returned error is a malformed
// dictionary entry, which indicates a defect in the fixed tables rather
// than bad input data.
func (e *Extractor) Extract(payload *FactsPayload) (*model.KPIExtractionResult, error) {
	if err := validateDictionary(); err != nil {
		return nil, err
	}

	result := &model.KPIExtractionResult{}
	if payload == nil || len(payload.Facts) == 0 {
		return result, nil
	}

	byKey := make(map[string][]model.CanonicalKPI)
	for _, def := range Dictionary {
		if def.Tags == nil {
			continue // derived, computed below
		}
		points := e.resolveMetric(payload, def)
		if len(points) > 0 {
			byKey[def.Key] = points
		}
	}

	// Free cash flow is derived: operating cash flow minus the absolute
	// value of capex for matching fiscal periods, only when both exist.
	if fcf := deriveFCF(byKey["operatingCashFlow"], byKey["capex"]); len(fcf) > 0 {
		byKey[KeyFCF] = fcf
	}

	var all []model.CanonicalKPI
	for _, points := range byKey {
		all = append(all, points...)
	}
	sortCanonical(all)
	if len(all) > maxPointsTotal {
		all = all[:maxPointsTotal]
	}

	result.KPIs = all
	result.Summary = summarize(all, len(byKey))
	return result, nil
}

// resolveMetric resolves the first synonym tag present in the payload with
// at least one compatible unit bucket, then normalizes its points
func (e *Extractor) resolveMetric(payload *FactsPayload, def MetricDef) []model.CanonicalKPI {
	for _, tag := range def.Tags {
		concept, ok := lookupConcept(payload, tag)
		if !ok {
			continue
		}
		unit, points := compatibleUnit(concept, def.Unit)
		if len(points) == 0 {
			continue
		}
		return normalize(def, unit, points)
	}
	return nil
}

// lookupConcept searches namespaces in a fixed order (us-gaap first, then
// the rest sorted) so resolution is deterministic
func lookupConcept(payload *FactsPayload, tag string) (Concept, bool) {
	if ns, ok := payload.Facts["us-gaap"]; ok {
		if c, ok := ns[tag]; ok {
			return c, true
		}
	}
	var names []string
	for name := range payload.Facts {
		if name != "us-gaap" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if c, ok := payload.Facts[name][tag]; ok {
			return c, true
		}
	}
	return Concept{}, false
}

// compatibleUnit picks the first unit bucket compatible with the metric's
// unit class, preferring USD for currency metrics
func compatibleUnit(concept Concept, class UnitClass) (string, []FactPoint) {
	if class == UnitCurrency {
		if pts, ok := concept.Units["USD"]; ok && len(pts) > 0 {
			return "USD", pts
		}
	}
	var units []string
	for unit := range concept.Units {
		units = append(units, unit)
	}
	sort.Strings(units)
	for _, unit := range units {
		if unitMatchesClass(unit, class) && len(concept.Units[unit]) > 0 {
			return unit, concept.Units[unit]
		}
	}
	return "", nil
}

func unitMatchesClass(unit string, class UnitClass) bool {
	switch class {
	case UnitCurrency:
		return len(unit) == 3 && unit == strings.ToUpper(unit) && !strings.Contains(unit, "/")
	case UnitShares:
		return strings.EqualFold(unit, "shares")
	case UnitPerShare:
		return strings.Contains(unit, "/")
	case UnitPure:
		return strings.EqualFold(unit, "pure")
	}
	return false
}

// normalize filters points to trend-relevant full reports, deduplicates by
// fiscal period keeping the most recently filed, and caps the window
func normalize(def MetricDef, unit string, points []FactPoint) []model.CanonicalKPI {
	var kept []model.CanonicalKPI
	for _, p := range points {
		// Amendments and other forms are excluded from trend analysis.
		if p.Form != "10-K" && p.Form != "10-Q" {
			continue
		}
		if p.FY == 0 || p.FP == "" {
			continue
		}
		kept = append(kept, model.CanonicalKPI{
			Key:          def.Key,
			Label:        def.Label,
			Period:       p.End,
			PeriodType:   periodType(p),
			Value:        p.Val,
			Unit:         unit,
			FiledDate:    p.Filed,
			FiscalYear:   p.FY,
			FiscalPeriod: p.FP,
			Form:         p.Form,
		})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].FiledDate != kept[j].FiledDate {
			return kept[i].FiledDate > kept[j].FiledDate
		}
		return kept[i].Period > kept[j].Period
	})

	seen := make(map[string]bool)
	var deduped []model.CanonicalKPI
	for _, k := range kept {
		fpKey := fmt.Sprintf("%d|%s", k.FiscalYear, k.FiscalPeriod)
		if seen[fpKey] {
			continue
		}
		seen[fpKey] = true
		deduped = append(deduped, k)
		if len(deduped) == maxPointsPerMetric {
			break
		}
	}
	return deduped
}

func periodType(p FactPoint) model.PeriodType {
	if p.Start == "" {
		return model.PeriodInstant
	}
	if p.FP == "FY" {
		return model.PeriodAnnual
	}
	return model.PeriodQuarterly
}

// deriveFCF computes free cash flow per fiscal period where both operating
// cash flow and capex exist for that period
func deriveFCF(ocf, capex []model.CanonicalKPI) []model.CanonicalKPI {
	if len(ocf) == 0 || len(capex) == 0 {
		return nil
	}
	capexByPeriod := make(map[string]model.CanonicalKPI)
	for _, c := range capex {
		capexByPeriod[fmt.Sprintf("%d|%s", c.FiscalYear, c.FiscalPeriod)] = c
	}

	var fcf []model.CanonicalKPI
	for _, o := range ocf {
		c, ok := capexByPeriod[fmt.Sprintf("%d|%s", o.FiscalYear, o.FiscalPeriod)]
		if !ok {
			continue
		}
		fcf = append(fcf, model.CanonicalKPI{
			Key:          KeyFCF,
			Label:        MetricLabel(KeyFCF),
			Period:       o.Period,
			PeriodType:   o.PeriodType,
			Value:        o.Value - math.Abs(c.Value),
			Unit:         o.Unit,
			FiledDate:    o.FiledDate,
			FiscalYear:   o.FiscalYear,
			FiscalPeriod: o.FiscalPeriod,
			Form:         o.Form,
		})
		if len(fcf) == maxPointsPerMetric {
			break
		}
	}
	return fcf
}

// sortCanonical orders the final set by key, then recency, with annual
// periods before quarterly within the same fiscal year
func sortCanonical(kpis []model.CanonicalKPI) {
	rank := func(fp string) int {
		switch fp {
		case "FY":
			return 0
		case "Q4":
			return 1
		case "Q3":
			return 2
		case "Q2":
			return 3
		case "Q1":
			return 4
		}
		return 5
	}
	sort.SliceStable(kpis, func(i, j int) bool {
		a, b := kpis[i], kpis[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear > b.FiscalYear
		}
		if rank(a.FiscalPeriod) != rank(b.FiscalPeriod) {
			return rank(a.FiscalPeriod) < rank(b.FiscalPeriod)
		}
		return a.FiledDate > b.FiledDate
	})
}

func summarize(kpis []model.CanonicalKPI, metricsFound int) model.KPISummary {
	years := make(map[int]bool)
	keys := make(map[string]bool)
	for _, k := range kpis {
		years[k.FiscalYear] = true
		keys[k.Key] = true
	}
	var coverage []int
	for y := range years {
		coverage = append(coverage, y)
	}
	sort.Ints(coverage)
	var keyList []string
	for k := range keys {
		keyList = append(keyList, k)
	}
	sort.Strings(keyList)

	return model.KPISummary{
		TotalPoints:   len(kpis),
		MetricsFound:  metricsFound,
		CoverageYears: coverage,
		Keys:          keyList,
	}
}

// validateDictionary enforces the fixed-table invariants: non-empty keys
// and labels, and source tags on every non-derived entry
func validateDictionary() error {
	seen := make(map[string]bool)
	for _, def := range Dictionary {
		if def.Key == "" || def.Label == "" {
			return fmt.Errorf("metric dictionary %s: entry with empty key or label", DictionaryVersion)
		}
		if seen[def.Key] {
			return fmt.Errorf("metric dictionary %s: duplicate key %q", DictionaryVersion, def.Key)
		}
		seen[def.Key] = true
		if def.Tags == nil && def.Key != KeyFCF {
			return fmt.Errorf("metric dictionary %s: %q has no source tags and is not derived", DictionaryVersion, def.Key)
		}
	}
	return nil
}
