package model

import "sort"

// PeriodType discriminates how a KPI value covers time
type PeriodType string

const (
	PeriodAnnual    PeriodType = "annual"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodInstant   PeriodType = "instant" // balance-sheet point in time
)

// CanonicalKPI is a dictionary-resolved numeric metric for one fiscal period.
// Immutable once produced.
type CanonicalKPI struct {
	Key          string     `json:"key"`
	Label        string     `json:"label"`
	Period       string     `json:"period"` // period end date, YYYY-MM-DD
	PeriodType   PeriodType `json:"period_type"`
	Value        float64    `json:"value"`
	Unit         string     `json:"unit"`
	FiledDate    string     `json:"filed_date"`
	FiscalYear   int        `json:"fiscal_year"`
	FiscalPeriod string     `json:"fiscal_period"` // FY, Q1..Q4
	Form         string     `json:"form"`
}

// KPIRef identifies the metric a verification was resolved against, by value
type KPIRef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// KPISeries is a recency-ordered collection of points sharing one key
type KPISeries []CanonicalKPI

// Latest returns the most recent point, or nil when the series is empty
func (s KPISeries) Latest() *CanonicalKPI {
	if len(s) == 0 {
		return nil
	}
	p := s[0]
	return &p
}

// ComparablePair returns the two most recent comparable points as
// (after, before). Annual points are preferred; when fewer than two annual
// points exist, the two most recent quarterly points are used instead.
// Either pointer may be nil when the history is too short.
func (s KPISeries) ComparablePair() (*CanonicalKPI, *CanonicalKPI) {
	annual := s.filter(PeriodAnnual)
	if len(annual) >= 2 {
		return &annual[0], &annual[1]
	}
	quarterly := s.filter(PeriodQuarterly)
	if len(quarterly) >= 2 {
		return &quarterly[0], &quarterly[1]
	}
	// Instant metrics (debt, cash) compare their two most recent points.
	if len(s) >= 2 && s[0].PeriodType == PeriodInstant {
		a, b := s[0], s[1]
		return &a, &b
	}
	if len(annual) == 1 {
		return &annual[0], nil
	}
	if len(quarterly) == 1 {
		return &quarterly[0], nil
	}
	if len(s) == 1 {
		p := s[0]
		return &p, nil
	}
	return nil, nil
}

func (s KPISeries) filter(pt PeriodType) []CanonicalKPI {
	var out []CanonicalKPI
	for _, k := range s {
		if k.PeriodType == pt {
			out = append(out, k)
		}
	}
	return out
}

// KPIExtractionResult is the full canonical metric set for one filer
type KPIExtractionResult struct {
	KPIs    []CanonicalKPI `json:"kpis"`
	Summary KPISummary     `json:"summary"`
}

// KPISummary carries coverage counts for a KPI extraction
type KPISummary struct {
	TotalPoints   int      `json:"total_points"`
	MetricsFound  int      `json:"metrics_found"`
	CoverageYears []int    `json:"coverage_years,omitempty"`
	Keys          []string `json:"keys,omitempty"`
}

// Series returns the recency-ordered series for one key (possibly empty)
func (r *KPIExtractionResult) Series(key string) KPISeries {
	var out KPISeries
	for _, k := range r.KPIs {
		if k.Key == key {
			out = append(out, k)
		}
	}
	return out
}

// AvailableKeys returns the sorted distinct keys with at least one point
func (r *KPIExtractionResult) AvailableKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range r.KPIs {
		if !seen[k.Key] {
			seen[k.Key] = true
			keys = append(keys, k.Key)
		}
	}
	sort.Strings(keys)
	return keys
}
