package model

// PromiseType categorizes the subject of a forward-looking statement
type PromiseType string

const (
	PromiseRevenue  PromiseType = "revenue"
	PromiseMargin   PromiseType = "margin"
	PromiseCosts    PromiseType = "costs"
	PromiseCapex    PromiseType = "capex"
	PromiseDebt     PromiseType = "debt"
	PromiseStrategy PromiseType = "strategy"
	PromiseProduct  PromiseType = "product"
	PromiseMarket   PromiseType = "market"
	PromiseOther    PromiseType = "other"
)

// TimeHorizon is the stated fulfillment window of a promise
type TimeHorizon string

const (
	HorizonNextPeriod     TimeHorizon = "next_period"
	HorizonThisFiscalYear TimeHorizon = "this_fiscal_year"
	HorizonTwoPlusYears   TimeHorizon = "two_plus_years"
	HorizonLongTerm       TimeHorizon = "long_term"
	HorizonUnspecified    TimeHorizon = "unspecified"
)

// Confidence is a coarse tier derived from an additive heuristic score
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidence tiers for sorting (high first)
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

// ClassifiedPromise is a forward-looking sentence with its classification.
// Values are never reclassified in place; a new value is produced instead.
type ClassifiedPromise struct {
	Text            string      `json:"text"`
	Type            PromiseType `json:"type"`
	Horizon         TimeHorizon `json:"time_horizon"`
	Measurable      bool        `json:"measurable"`
	Confidence      Confidence  `json:"confidence"`
	ConfidenceScore int         `json:"confidence_score"`
	Keywords        []string    `json:"keywords,omitempty"`
	Source          string      `json:"source"` // section name the sentence came from
}

// PromiseSummary carries counts by type, horizon, and confidence for a batch
type PromiseSummary struct {
	Total        int                 `json:"total"`
	ByType       map[PromiseType]int `json:"by_type"`
	ByHorizon    map[TimeHorizon]int `json:"by_horizon"`
	ByConfidence map[Confidence]int  `json:"by_confidence"`
}

// SummarizePromises builds the count breakdown for a promise set
func SummarizePromises(promises []ClassifiedPromise) PromiseSummary {
	s := PromiseSummary{
		Total:        len(promises),
		ByType:       make(map[PromiseType]int),
		ByHorizon:    make(map[TimeHorizon]int),
		ByConfidence: make(map[Confidence]int),
	}
	for _, p := range promises {
		s.ByType[p.Type]++
		s.ByHorizon[p.Horizon]++
		s.ByConfidence[p.Confidence]++
	}
	return s
}
