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

	"github.com/avetrov/contentaudit/internal/pipeline"
	"github.com/avetrov/contentaudit/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Audit multiple URLs from a file in parallel",
	Long: `Batch audits multiple URLs concurrently:
- Read URLs from input file (one per line, # for comments)
- Audit URLs in parallel with a bounded worker count
- Rate-limit requests per domain
- Write one report per URL into the output directory

Example:
  contentaudit batch urls.txt
  contentaudit batch urls.txt --concurrency 8 --output-dir ./reports
  contentaudit batch urls.txt --format json --site-type blog`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./contentaudit-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the whole batch")

	batchCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json, yaml")
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the claim verification cache")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	batchCmd.Flags().BoolVar(&noFacts, "no-facts", false, "skip claim extraction and verification")
	batchCmd.Flags().StringVar(&language, "lang", "en", "content language code")
	batchCmd.Flags().StringVar(&entity, "entity", "", "central entity for every page")
	batchCmd.Flags().StringVar(&siteType, "site-type", "", "website type applied to every page")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "claim verifier provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "claim verifier model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.BatchWorkers = concurrency
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, logger)
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)
	processor := worker.NewBatchProcessor(p, limiter, cfg.Concurrency.BatchWorkers)

	logger.Debug().Str("file", file).Int("workers", cfg.Concurrency.BatchWorkers).Msg("starting batch")

	results, err := processor.ProcessFile(ctx, file, pageParams())
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			continue
		}

		successCount++

		path := filepath.Join(outputDir, reportFilename(result.URL, cfg.Output.Format))
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write report: %v\n", result.URL, err)
			continue
		}
		renderErr := p.Render(f, result.Report)
		_ = f.Close()
		if renderErr != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: render report: %v\n", result.URL, renderErr)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d issues, %d claims)\n", result.URL, len(result.Report.Issues), len(result.Report.Claims))
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d total, %d succeeded, %d failed, reports in %s\n",
		len(results), successCount, failureCount, outputDir)

	return nil
}

// reportFilename derives a filesystem-safe report name from a URL.
func reportFilename(rawURL, format string) string {
	name := rawURL
	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = strings.Trim(name, "/")

	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "-")
	name = replacer.Replace(name)

	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "report"
	}

	ext := "txt"
	switch strings.ToLower(format) {
	case "json":
		ext = "json"
	case "yaml", "yml":
		ext = "yaml"
	}

	return name + "." + ext
}
