package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/okazarov/attest/internal/model"
)

// Analyzer defines the interface for analyzing one filer
type Analyzer interface {
	AnalyzeCIK(ctx context.Context, cik string, kind model.FilingKind) (*model.Report, error)
}

// AnalysisJob represents one filer analysis
type AnalysisJob struct {
	CIK      string
	Kind     model.FilingKind
	Analyzer Analyzer
	ctx      context.Context
}

// Execute executes the analysis job
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	if j.ctx != nil {
		ctx = j.ctx
	}
	report, err := j.Analyzer.AnalyzeCIK(ctx, j.CIK, j.Kind)
	return &AnalysisResult{
		CIK:    j.CIK,
		Report: report,
		Error:  err,
	}
}

// AnalysisResult represents the result of one analysis job
type AnalysisResult struct {
	CIK    string
	Report *model.Report
	Error  error
}

// GetError returns the error from the analysis result
func (r *AnalysisResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple filers concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessCIKs analyzes multiple filers concurrently. A failure in one item
// is carried in its result; the batch always runs to completion.
func (b *BatchProcessor) ProcessCIKs(ctx context.Context, ciks []string, kind model.FilingKind) []*AnalysisResult {
	if len(ciks) == 0 {
		return []*AnalysisResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, cik := range ciks {
		pool.Submit(&AnalysisJob{
			CIK:      cik,
			Kind:     kind,
			Analyzer: b.analyzer,
			ctx:      ctx,
		})
	}

	results := pool.Wait()

	analysisResults := make([]*AnalysisResult, len(results))
	for i, result := range results {
		analysisResults[i] = result.(*AnalysisResult)
	}
	return analysisResults
}

// ProcessFile reads CIKs from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, kind model.FilingKind) ([]*AnalysisResult, error) {
	ciks, err := ReadCIKsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read CIKs: %w", err)
	}
	return b.ProcessCIKs(ctx, ciks, kind), nil
}

// ReadCIKsFromFile reads CIKs from a file (one per line, # comments allowed)
func ReadCIKsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ciks []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			ciks = append(ciks, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return ciks, nil
}
