package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okazarov/attest/internal/logger"
	"github.com/okazarov/attest/internal/model"
)

const filingFixture = `<html><body>
<div>Item 7. Management's Discussion and Analysis of Financial Condition and Results of Operations</div>
<div>Net sales grew across all segments during fiscal 2024, reflecting continued customer adoption.
We expect revenue to increase by approximately 10% in fiscal 2025.
Gross margin performance reflected a favorable product mix during the year.</div>
<div>Item 7A. Quantitative and Qualitative Disclosures About Market Risk</div>
<div>The company is exposed to interest rate and foreign currency risks.</div>
</body></html>`

const factsFixture = `{
	"cik": 320193,
	"entityName": "Apple Inc.",
	"facts": {
		"us-gaap": {
			"Revenues": {
				"label": "Revenues",
				"units": {
					"USD": [
						{"start": "2023-10-01", "end": "2024-09-28", "val": 120000000000,
						 "fy": 2024, "fp": "FY", "form": "10-K", "filed": "2024-11-01"},
						{"start": "2022-10-01", "end": "2023-09-30", "val": 100000000000,
						 "fy": 2023, "fp": "FY", "form": "10-K", "filed": "2023-11-03"}
					]
				}
			}
		}
	}
}`

func testPipeline() *Pipeline {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Extraction.MinSectionChars = 50
	return NewPipeline(cfg, logger.Discard())
}

func TestAnalyze_EndToEnd(t *testing.T) {
	p := testPipeline()

	doc := model.RawDocument{Content: filingFixture, Kind: model.FilingAnnual}
	report, err := p.Analyze(context.Background(), doc, []byte(factsFixture), "320193")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.RunID == "" {
		t.Error("run ID missing")
	}
	if report.Subject != "Apple Inc." {
		t.Errorf("subject = %q, want entity name from facts", report.Subject)
	}
	if len(report.Sections) == 0 || report.Sections[0].Name != "management_discussion" {
		t.Fatalf("sections = %+v, want management_discussion located", report.Sections)
	}

	if report.Promises.Total != 1 {
		t.Fatalf("promises = %d, want 1 (%+v)", report.Promises.Total, report.Assessments)
	}
	if report.KPIs.TotalPoints != 2 {
		t.Errorf("kpi points = %d, want 2", report.KPIs.TotalPoints)
	}

	a := report.Assessments[0]
	if a.Verification.Status != model.StatusSupported {
		t.Errorf("verification = %s, want supported (%v)", a.Verification.Status, a.Verification.Reasoning)
	}
	if a.Score.Status != model.ScoreHeld {
		t.Errorf("score status = %s, want held (%v)", a.Score.Status, a.Score.Reasons)
	}

	if report.CompanyScore.Score == nil || *report.CompanyScore.Score != 100 {
		t.Errorf("company score = %v, want 100", report.CompanyScore.Score)
	}
	if report.LLM != nil {
		t.Error("LLM summary must be absent when no provider is configured")
	}
}

func TestAnalyze_UnreadableFactsDegrades(t *testing.T) {
	p := testPipeline()

	doc := model.RawDocument{Content: filingFixture, Kind: model.FilingAnnual}
	report, err := p.Analyze(context.Background(), doc, []byte("not json"), "320193")
	if err != nil {
		t.Fatalf("bad facts must not abort the run: %v", err)
	}

	if report.Subject != "320193" {
		t.Errorf("subject = %q, want the CIK when facts are unreadable", report.Subject)
	}
	if report.KPIs.TotalPoints != 0 {
		t.Errorf("kpi points = %d, want 0", report.KPIs.TotalPoints)
	}
	for _, a := range report.Assessments {
		if a.Verification.Status != model.StatusUnresolved {
			t.Errorf("verification = %s, want unresolved without KPI data", a.Verification.Status)
		}
		if a.Score.Status != model.ScoreUnclear {
			t.Errorf("score status = %s, want unclear", a.Score.Status)
		}
	}
	if report.CompanyScore.Score != nil {
		t.Errorf("company score = %d, want nil when nothing resolved", *report.CompanyScore.Score)
	}
}

func TestAnalyze_NoFacts(t *testing.T) {
	p := testPipeline()

	doc := model.RawDocument{Content: filingFixture, Kind: model.FilingAnnual}
	report, err := p.Analyze(context.Background(), doc, nil, "320193")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.KPIs.TotalPoints != 0 {
		t.Errorf("kpi points = %d, want 0", report.KPIs.TotalPoints)
	}
}

func TestRenderReport(t *testing.T) {
	p := testPipeline()

	doc := model.RawDocument{Content: filingFixture, Kind: model.FilingAnnual}
	report, err := p.Analyze(context.Background(), doc, []byte(factsFixture), "320193")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")
	if err := p.RenderReport(report, jsonPath, mdPath); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON report: %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("JSON report is not valid JSON: %v", err)
	}
	if decoded.Subject != "Apple Inc." {
		t.Errorf("round-tripped subject = %q", decoded.Subject)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read Markdown report: %v", err)
	}
	text := string(md)
	for _, want := range []string{
		"# Promise Credibility Report: Apple Inc.",
		"## Company score",
		"100 / 100",
		"We expect revenue to increase",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	// Default config includes the footer.
	if !strings.Contains(text, "does not determine intent") {
		t.Error("footer missing with include_footer enabled")
	}
}
