package model

// ScoreStatus is the coarse credibility outcome for one scored promise
type ScoreStatus string

const (
	ScoreHeld    ScoreStatus = "held"
	ScoreMixed   ScoreStatus = "mixed"
	ScoreFailed  ScoreStatus = "failed"
	ScoreUnclear ScoreStatus = "unclear"
)

// PromiseScore converts one verification into a 0-100 credibility score
type PromiseScore struct {
	Score   int         `json:"score"` // always in [0,100]
	Status  ScoreStatus `json:"status"`
	Reasons []string    `json:"reasons"`
}

// ScoreBreakdown counts scored promises by status
type ScoreBreakdown struct {
	Held    int `json:"held"`
	Mixed   int `json:"mixed"`
	Failed  int `json:"failed"`
	Unclear int `json:"unclear"`
}

// CompanyScore aggregates many promise scores into one filer-level number.
// Score is nil iff no promise resolved to a non-unclear status.
type CompanyScore struct {
	Score       *int           `json:"company_score"`
	ScoredCount int            `json:"scored_count"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
}
