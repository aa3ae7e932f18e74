package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okazarov/attest/internal/logger"
	"github.com/okazarov/attest/internal/pipeline"
	"github.com/okazarov/attest/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple filers from a file in parallel",
	Long: `Batch analyzes multiple filers concurrently:
- Read CIKs from the input file (one per line, # comments allowed)
- Analyze filers in parallel with a configurable worker count
- Write one JSON and Markdown report per filer

A failure on one filer never aborts the batch; it is reported per item.

Example:
  attest batch ciks.txt
  attest batch ciks.txt --concurrency 8 --output-dir ./reports
  attest batch ciks.txt --kind quarterly --timeout 15m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./attest-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&filingKind, "kind", "annual", "filing kind: annual or quarterly")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable narrative summary generation")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	timeout = batchTimeout // individual fetches share the batch budget

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	kind, err := parseKind(filingKind)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	log := logger.New("info", verbose)
	p := pipeline.NewPipeline(cfg, log)
	processor := worker.NewBatchProcessor(p, concurrency)

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	results, err := processor.ProcessFile(ctx, args[0], kind)
	if err != nil {
		return err
	}

	succeeded, failed := 0, 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			log.WithField("cik", result.CIK).WithError(result.Error).Error("analysis failed")
			continue
		}
		succeeded++

		base := filepath.Join(outputDir, sanitizeName(result.CIK))
		if err := p.RenderReport(result.Report, base+".json", base+".md"); err != nil {
			log.WithField("cik", result.CIK).WithError(err).Error("render failed")
		}
	}

	fmt.Printf("\nBatch complete: %d succeeded, %d failed (%d total)\n", succeeded, failed, len(results))
	return nil
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
