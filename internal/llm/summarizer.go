package llm

import (
	"context"
	"fmt"
	"regexp"

	"github.com/okazarov/attest/internal/model"
)

// Summarizer wraps a provider to generate the optional narrative summary.
// It runs strictly after scoring and its output never feeds back into any
// score.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer for the configured provider
func NewSummarizer(config Config) (*Summarizer, error) {
	switch config.Provider {
	case "", "none":
		return &Summarizer{config: config}, nil
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return &Summarizer{provider: p, config: config}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", config.Provider)
	}
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// reNumericClaim flags fabricated-looking score claims the prompt forbids
var reNumericClaim = regexp.MustCompile(`\b(?:guaranteed|will certainly|proves)\b`)

// GenerateSummary produces the narrative summary for a finished report
func (s *Summarizer) GenerateSummary(ctx context.Context, report *model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	summary := &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
	}
	if reNumericClaim.MatchString(resp.Summary) {
		summary.Warnings = append(summary.Warnings, "summary contains certainty language the prompt forbids; treat with caution")
	}
	return summary, nil
}
