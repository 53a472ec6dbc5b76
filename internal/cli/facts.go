package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avetrov/contentaudit/internal/cache"
	"github.com/avetrov/contentaudit/internal/facts"
	"github.com/avetrov/contentaudit/internal/llm"
)

var (
	factsTimeout time.Duration
	factsVerify  bool
	factsJSON    bool
)

// factsCmd represents the facts command
var factsCmd = &cobra.Command{
	Use:   "facts [file]",
	Short: "Extract and verify factual claims from text",
	Long: `Facts extracts verifiable claims (statistics, dates, attributions,
comparisons) from plain text and optionally verifies each one through
the configured verifier.

Reads from the file argument, or stdin when omitted.

Example:
  contentaudit facts article.txt
  cat article.txt | contentaudit facts
  contentaudit facts article.txt --verify --llm-provider openai`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)

	factsCmd.Flags().DurationVar(&factsTimeout, "timeout", 2*time.Minute, "overall verification timeout")
	factsCmd.Flags().BoolVar(&factsVerify, "verify", false, "verify claims through the configured verifier")
	factsCmd.Flags().BoolVar(&factsJSON, "json", false, "emit claims as JSON")
	factsCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "claim verifier provider (openai, anthropic, ollama)")
	factsCmd.Flags().StringVar(&llmModel, "llm-model", "", "claim verifier model name")
}

func runFacts(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	extractor := facts.NewExtractor(
		facts.WithStalenessYears(cfg.Facts.StalenessYears),
		facts.WithMaxClaims(cfg.Facts.MaxClaims),
	)
	claims := extractor.Extract(text)

	logger.Debug().Int("claims", len(claims)).Msg("claims extracted")

	if factsVerify && len(claims) > 0 {
		if cfg.LLM.Provider != "" {
			if err := apiKeyFromEnv(cfg); err != nil {
				return err
			}
		}

		verifier, err := llm.New(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			return fmt.Errorf("verifier: %w", err)
		}

		opts := []facts.PipelineOption{
			facts.WithWindow(cfg.Concurrency.VerificationWindow),
			facts.WithPipelineStaleness(cfg.Facts.StalenessYears),
			facts.WithLogger(logger),
		}
		if cfg.Cache.Enabled {
			opts = append(opts, facts.WithCache(facts.NewStoreAdapter(
				cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL), cfg.Cache.MemoryTTL)))
		}

		ctx, cancel := context.WithTimeout(context.Background(), factsTimeout)
		defer cancel()

		claims = facts.NewPipeline(verifier, opts...).VerifyAll(ctx, claims)
	}

	if factsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	}

	if len(claims) == 0 {
		fmt.Println("No verifiable claims found.")
		return nil
	}

	fmt.Printf("Claims (%d)\n", len(claims))
	for _, claim := range claims {
		fmt.Printf("\n  [%s] %s\n", claim.VerificationStatus, claim.Text)
		fmt.Printf("      type: %s, confidence: %.2f\n", claim.ClaimType, claim.Confidence)
		for _, src := range claim.VerificationSources {
			fmt.Printf("      source: %s\n", src.URL)
		}
		if claim.Suggestion != "" {
			fmt.Printf("      suggestion: %s\n", claim.Suggestion)
		}
	}

	return nil
}
