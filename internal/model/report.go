package model

import "time"

// Assessment pairs one promise with its verification and score
type Assessment struct {
	Promise      ClassifiedPromise  `json:"promise"`
	Verification VerificationResult `json:"verification"`
	Score        PromiseScore       `json:"score"`
}

// Report is the complete analysis output for one filer
type Report struct {
	RunID       string     `json:"run_id"`
	Subject     string     `json:"subject"` // entity name or CIK
	FilingKind  FilingKind `json:"filing_kind"`
	GeneratedAt time.Time  `json:"generated_at"`

	Sections     []FilingSection `json:"sections"`
	Promises     PromiseSummary  `json:"promises"`
	KPIs         KPISummary      `json:"kpis"`
	Assessments  []Assessment    `json:"assessments"`
	CompanyScore CompanyScore    `json:"company"`

	LLM *LLMSummary `json:"llm,omitempty"` // optional narrative, never affects scores
}

// LLMSummary is an optional generated narrative. It is produced after
// scoring and never feeds back into any score.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
