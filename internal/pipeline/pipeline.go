// Package pipeline composes the analysis stages into a full filing run:
// clean markup, locate sections, classify promises, extract KPIs, verify
// and score each promise, and aggregate the filer-level score.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/okazarov/attest/internal/cache"
	"github.com/okazarov/attest/internal/classify"
	"github.com/okazarov/attest/internal/extract"
	"github.com/okazarov/attest/internal/kpi"
	"github.com/okazarov/attest/internal/llm"
	"github.com/okazarov/attest/internal/model"
	"github.com/okazarov/attest/internal/registry"
	"github.com/okazarov/attest/internal/score"
	"github.com/okazarov/attest/internal/verify"
)

// Pipeline orchestrates one complete analysis run
type Pipeline struct {
	extractor    *extract.Extractor
	classifier   *classify.Classifier
	kpiExtractor *kpi.Extractor
	verifier     *verify.Verifier
	scorer       *score.Scorer
	registry     *registry.Client
	renderer     *Renderer
	summarizer   *llm.Summarizer // nil when disabled
	config       *model.Config
	log          *logrus.Logger
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config, log *logrus.Logger) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	} else if cfg.Cache.Enabled {
		store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			log.WithError(err).Warn("failed to initialize LLM provider; narrative summary disabled")
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		extractor:    extract.NewExtractor(cfg.Extraction.MinSectionChars),
		classifier:   classify.NewClassifier(cfg.Extraction.MaxPromises),
		kpiExtractor: kpi.NewExtractor(),
		verifier:     verify.NewVerifier(),
		scorer:       score.NewScorer(),
		registry:     registry.NewClient(cfg, store, log),
		renderer:     NewRenderer(cfg.Output.IncludeFooter),
		summarizer:   summarizer,
		config:       cfg,
		log:          log,
	}
}

// AnalyzeCIK fetches the latest filing and facts for a CIK from the
// registry and analyzes them
func (p *Pipeline) AnalyzeCIK(ctx context.Context, cik string, kind model.FilingKind) (*model.Report, error) {
	p.log.WithFields(logrus.Fields{"cik": cik, "kind": kind}).Info("fetching filing and company facts")

	markup, err := p.registry.LatestFiling(ctx, cik, kind)
	if err != nil {
		return nil, fmt.Errorf("fetch filing: %w", err)
	}
	factsRaw, err := p.registry.CompanyFacts(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("fetch company facts: %w", err)
	}

	doc := model.RawDocument{Content: markup, Kind: kind}
	return p.Analyze(ctx, doc, factsRaw, cik)
}

// Analyze runs the full pipeline over pre-fetched inputs
func (p *Pipeline) Analyze(ctx context.Context, doc model.RawDocument, factsRaw []byte, subject string) (*model.Report, error) {
	plain := extract.Clean(doc.Content)
	sections := p.extractor.ExtractSections(plain, doc.Kind)
	if len(sections.Sections) == 0 {
		p.log.Debug("no narrative section located; classifying full text")
	}

	promises := p.classifier.ExtractPromises(sections)
	p.log.WithField("promises", len(promises)).Debug("classified forward-looking statements")

	var facts *kpi.FactsPayload
	if len(factsRaw) > 0 {
		parsed, err := kpi.ParseFactsPayload(factsRaw)
		if err != nil {
			// Bad facts input degrades to "no KPI data", not a failed run.
			p.log.WithError(err).Warn("facts payload unreadable; verification will be unresolved")
		} else {
			facts = parsed
			if parsed.EntityName != "" {
				subject = parsed.EntityName
			}
		}
	}

	kpis, err := p.kpiExtractor.Extract(facts)
	if err != nil {
		// Dictionary invariant violations are defects, not data problems.
		return nil, fmt.Errorf("extract KPIs: %w", err)
	}
	p.log.WithField("points", kpis.Summary.TotalPoints).Debug("extracted canonical KPIs")

	assessments := p.assess(promises, kpis)

	scores := make([]model.PromiseScore, len(assessments))
	for i, a := range assessments {
		scores[i] = a.Score
	}

	report := &model.Report{
		RunID:        uuid.NewString(),
		Subject:      subject,
		FilingKind:   doc.Kind,
		GeneratedAt:  time.Now().UTC(),
		Sections:     sectionList(sections),
		Promises:     model.SummarizePromises(promises),
		KPIs:         kpis.Summary,
		Assessments:  assessments,
		CompanyScore: score.Aggregate(scores),
	}

	// Narrative summary runs after scoring and never affects it.
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, report)
		if err != nil {
			p.log.WithError(err).Warn("LLM summary generation failed")
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// assess verifies and scores each promise. A failure in one item is caught
// and downgraded so a single bad promise never aborts the batch.
func (p *Pipeline) assess(promises []model.ClassifiedPromise, kpis *model.KPIExtractionResult) []model.Assessment {
	assessments := make([]model.Assessment, len(promises))
	for i, promise := range promises {
		assessments[i] = p.assessOne(promise, kpis)
	}
	return assessments
}

func (p *Pipeline) assessOne(promise model.ClassifiedPromise, kpis *model.KPIExtractionResult) (a model.Assessment) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("assessment failed: %v", r)
			p.log.Warn(msg)
			a = model.Assessment{
				Promise: promise,
				Verification: model.VerificationResult{
					Status:     model.StatusUnresolved,
					Confidence: model.ConfidenceLow,
					Notes:      "Assessment failed; promise left unresolved.",
					Reasoning:  []string{msg},
				},
				Score: model.PromiseScore{
					Score:   0,
					Status:  model.ScoreUnclear,
					Reasons: []string{msg},
				},
			}
		}
	}()

	verification := p.verifier.Verify(promise, kpis)
	return model.Assessment{
		Promise:      promise,
		Verification: verification,
		Score:        p.scorer.Score(promise, verification),
	}
}

// RenderReport renders the report to the requested outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.log.WithField("path", jsonPath).Info("wrote JSON report")
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.log.WithField("path", mdPath).Info("wrote Markdown report")
	}
	p.renderer.RenderSummary(report)
	return nil
}

func sectionList(set *model.SectionSet) []model.FilingSection {
	var out []model.FilingSection
	for _, name := range []string{extract.SectionMDNA, extract.SectionRiskFactors, extract.SectionBusiness} {
		if sec := set.Section(name); sec != nil {
			out = append(out, *sec)
		}
	}
	return out
}
