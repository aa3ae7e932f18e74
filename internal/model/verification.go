package model

// VerificationStatus is the outcome of checking a promise against KPI data
type VerificationStatus string

const (
	StatusSupported    VerificationStatus = "supported"
	StatusContradicted VerificationStatus = "contradicted"
	StatusUnresolved   VerificationStatus = "unresolved"
	StatusPending      VerificationStatus = "pending" // only one comparable point yet
)

// Comparison holds the two data points a verification compared. Nil fields
// mean deliberately absent (insufficient history), not an error.
type Comparison struct {
	Before   *float64 `json:"before"`
	After    *float64 `json:"after"`
	DeltaAbs *float64 `json:"delta_abs"`
	DeltaPct *float64 `json:"delta_pct"`
}

// VerificationResult is the pure output of verifying one promise.
// Identical inputs always produce an identical result.
type VerificationResult struct {
	Status     VerificationStatus `json:"status"`
	Confidence Confidence         `json:"confidence"`
	KPIUsed    *KPIRef            `json:"kpi_used"`
	Comparison *Comparison        `json:"comparison,omitempty"`
	Notes      string             `json:"notes"`
	Reasoning  []string           `json:"reasoning"`
}
