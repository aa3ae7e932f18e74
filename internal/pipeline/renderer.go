package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/okazarov/attest/internal/model"
)

// Renderer writes reports as JSON, Markdown, and a stdout summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Promise Credibility Report: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- Filing kind: %s\n", report.FilingKind)
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- Run: %s\n\n", report.RunID)

	b.WriteString("## Company score\n\n")
	if report.CompanyScore.Score != nil {
		fmt.Fprintf(&b, "**%d / 100** across %d scored promises\n\n", *report.CompanyScore.Score, report.CompanyScore.ScoredCount)
	} else {
		b.WriteString("No promise could be scored against KPI data.\n\n")
	}
	bd := report.CompanyScore.Breakdown
	fmt.Fprintf(&b, "| Held | Mixed | Failed | Unclear |\n|---|---|---|---|\n| %d | %d | %d | %d |\n\n",
		bd.Held, bd.Mixed, bd.Failed, bd.Unclear)

	fmt.Fprintf(&b, "## Extraction\n\n")
	fmt.Fprintf(&b, "- Promises: %d\n", report.Promises.Total)
	fmt.Fprintf(&b, "- KPI points: %d across %d metrics", report.KPIs.TotalPoints, report.KPIs.MetricsFound)
	if len(report.KPIs.CoverageYears) > 0 {
		fmt.Fprintf(&b, " (FY%d–FY%d)", report.KPIs.CoverageYears[0], report.KPIs.CoverageYears[len(report.KPIs.CoverageYears)-1])
	}
	b.WriteString("\n")
	for _, sec := range report.Sections {
		fmt.Fprintf(&b, "- Section %q: %d words\n", sec.Title, sec.WordCount)
	}
	b.WriteString("\n## Promises\n\n")

	for i, a := range report.Assessments {
		fmt.Fprintf(&b, "### %d. [%s] %s — %d/100\n\n", i+1, strings.ToUpper(string(a.Score.Status)), a.Promise.Type, a.Score.Score)
		fmt.Fprintf(&b, "> %s\n\n", a.Promise.Text)
		fmt.Fprintf(&b, "- Verification: **%s** (%s confidence)\n", a.Verification.Status, a.Verification.Confidence)
		if a.Verification.KPIUsed != nil {
			fmt.Fprintf(&b, "- Metric: %s\n", a.Verification.KPIUsed.Label)
		}
		if c := a.Verification.Comparison; c != nil && c.DeltaPct != nil {
			fmt.Fprintf(&b, "- Change: %+.2f%%\n", *c.DeltaPct)
		}
		fmt.Fprintf(&b, "- %s\n", a.Verification.Notes)
		for _, reason := range a.Score.Reasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.SummaryMD != "" {
		b.WriteString("## Narrative summary (generated, non-scoring)\n\n")
		b.WriteString(report.LLM.SummaryMD)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("attest evaluates how disclosed metrics moved relative to stated promises. ")
		b.WriteString("It does not determine intent, truthfulness, or future performance.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short result overview to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\nSubject: %s (%s)\n", report.Subject, report.FilingKind)
	fmt.Printf("Promises: %d | KPI points: %d\n", report.Promises.Total, report.KPIs.TotalPoints)
	bd := report.CompanyScore.Breakdown
	fmt.Printf("Held: %d  Mixed: %d  Failed: %d  Unclear: %d\n", bd.Held, bd.Mixed, bd.Failed, bd.Unclear)
	if report.CompanyScore.Score != nil {
		fmt.Printf("Company score: %d/100 (%d scored)\n", *report.CompanyScore.Score, report.CompanyScore.ScoredCount)
	} else {
		fmt.Println("Company score: n/a (no scorable promises)")
	}
}
