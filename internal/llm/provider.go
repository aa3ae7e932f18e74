package llm

import (
	"context"
	"fmt"

	"github.com/okazarov/attest/internal/model"
)

// Provider defines the interface for narrative-summary backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative summary of an already-scored report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for summarization
type SummarizeRequest struct {
	// Report is the finished analysis report. Scores are already final;
	// the summary must describe them, never adjust them.
	Report *model.Report

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the generated summary
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds summarizer configuration
type Config struct {
	Provider  string // "openai" or "" (disabled); BaseURL covers compatible gateways
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int
}

// ConfigFromModel converts the application LLM config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

// BuildPrompt constructs the default summarization prompt. The report's
// numbers are authoritative: the model restates them, nothing more.
func BuildPrompt(report *model.Report) string {
	scoreLine := "not computable (no scorable promises)"
	if report.CompanyScore.Score != nil {
		scoreLine = fmt.Sprintf("%d/100 over %d scored promises", *report.CompanyScore.Score, report.CompanyScore.ScoredCount)
	}
	bd := report.CompanyScore.Breakdown

	prompt := fmt.Sprintf(`You are summarizing a filing promise-credibility report. The report compares
forward-looking statements from a regulatory filing against disclosed metric
trends. It never asserts intent or future performance.

RULES:
1. Restate only the numbers below; do not invent metrics or statements.
2. If data was insufficient, say so explicitly.
3. Describe credibility of past promises, not predictions.

Report:
- Subject: %s (%s filing)
- Company score: %s
- Breakdown: %d held, %d mixed, %d failed, %d unclear
- Promises extracted: %d
- KPI data points: %d across %d metrics

Notable assessments:
`, report.Subject, report.FilingKind, scoreLine,
		bd.Held, bd.Mixed, bd.Failed, bd.Unclear,
		report.Promises.Total, report.KPIs.TotalPoints, report.KPIs.MetricsFound)

	for i, a := range report.Assessments {
		if i >= 5 {
			break
		}
		prompt += fmt.Sprintf("- [%s %d/100] %s\n", a.Score.Status, a.Score.Score, a.Verification.Notes)
	}

	prompt += "\nProvide a 3-4 sentence summary of how well this filer's past promises held up."
	return prompt
}
