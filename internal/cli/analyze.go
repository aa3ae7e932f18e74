package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/okazarov/attest/internal/logger"
	"github.com/okazarov/attest/internal/model"
	"github.com/okazarov/attest/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	filingPath  string
	factsPath   string
	filingKind  string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [cik]",
	Short: "Analyze one filer's promises against its disclosed KPI trends",
	Long: `Analyze extracts forward-looking statements from a filing's narrative
sections, resolves the filer's structured numeric facts to canonical KPIs,
verifies each promise against the metric trend, and scores credibility.

Inputs come either from the registry (pass a CIK) or from local files
(--filing and --facts), in which case no network access happens at all.

Example:
  attest analyze 320193 --kind annual --json report.json
  attest analyze --filing 10k.htm --facts companyfacts.json --md report.md
  attest analyze 320193 --llm --llm-model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	analyzeCmd.Flags().StringVar(&filingPath, "filing", "", "local filing document (skips registry fetch)")
	analyzeCmd.Flags().StringVar(&factsPath, "facts", "", "local structured facts JSON (skips registry fetch)")
	analyzeCmd.Flags().StringVar(&filingKind, "kind", "annual", "filing kind: annual or quarterly")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 25_000_000, "max response bytes to read")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable narrative summary generation")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cik := ""
	if len(args) == 1 {
		cik = args[0]
	}
	if cik == "" && (filingPath == "" || factsPath == "") {
		return fmt.Errorf("pass a CIK, or both --filing and --facts for local analysis")
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	kind, err := parseKind(filingKind)
	if err != nil {
		return err
	}

	log := logger.New("info", verbose)
	p := pipeline.NewPipeline(cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var report *model.Report
	if filingPath != "" && factsPath != "" {
		markup, err := os.ReadFile(filingPath)
		if err != nil {
			return fmt.Errorf("read filing: %w", err)
		}
		factsRaw, err := os.ReadFile(factsPath)
		if err != nil {
			return fmt.Errorf("read facts: %w", err)
		}
		subject := cik
		if subject == "" {
			subject = filepath.Base(filingPath)
		}
		doc := model.RawDocument{Content: string(markup), Kind: kind}
		report, err = p.Analyze(ctx, doc, factsRaw, subject)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	} else {
		report, err = p.AnalyzeCIK(ctx, cik, kind)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", cik, err)
		}
	}

	return p.RenderReport(report, outJSON, outMD)
}

// buildConfig layers CLI flags on top of the defaults
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".attest", "cache")
		}
	}

	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

func parseKind(s string) (model.FilingKind, error) {
	switch s {
	case "annual", "10-K", "10-k":
		return model.FilingAnnual, nil
	case "quarterly", "10-Q", "10-q":
		return model.FilingQuarterly, nil
	}
	return "", fmt.Errorf("unknown filing kind %q (use annual or quarterly)", s)
}
