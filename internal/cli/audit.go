package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avetrov/contentaudit/internal/model"
	"github.com/avetrov/contentaudit/internal/pipeline"
)

var (
	outFormat   string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noRobots    bool
	noFacts     bool
	language    string
	entity      string
	attributes  []string
	predicates  []string
	siteType    string
	llmProvider string
	llmModel    string
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <url|file>",
	Short: "Audit a single page or local file",
	Long: `Audit runs every applicable rule validator over one page:
- Context qualifiers, certainty balance, filler language
- Central entity placement and attribute coverage
- HTML nesting, heading hierarchy, internal linking
- Website-type structural expectations
- Cost of retrieval (DOM size, TTFB, compression)

Extracted factual claims are verified when a verifier is configured.

Example:
  contentaudit audit https://example.com/article
  contentaudit audit article.html --entity "Acme Widgets" --site-type ecommerce
  contentaudit audit draft.txt --format json
  contentaudit audit https://example.com --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json, yaml")

	// HTTP flags
	auditCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall audit timeout")
	auditCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	auditCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read (0 = config default)")
	auditCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the claim verification cache")
	auditCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip the robots.txt check")
	auditCmd.Flags().BoolVar(&noFacts, "no-facts", false, "skip claim extraction and verification")

	// Content context flags
	auditCmd.Flags().StringVar(&language, "lang", "en", "content language code (en, de, nl, ...)")
	auditCmd.Flags().StringVar(&entity, "entity", "", "central entity the content should lead with")
	auditCmd.Flags().StringSliceVar(&attributes, "attributes", nil, "expected topical attributes (comma separated)")
	auditCmd.Flags().StringSliceVar(&predicates, "predicates", nil, "expected topical predicates (comma separated)")
	auditCmd.Flags().StringVar(&siteType, "site-type", "", "website type: ecommerce, saas, b2b, blog, local_business")

	// Verifier flags
	auditCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "claim verifier provider (openai, anthropic, ollama)")
	auditCmd.Flags().StringVar(&llmModel, "llm-model", "", "claim verifier model name")
}

func runAudit(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, logger)
	params := pageParams()

	var report *model.Report
	if isURL(target) {
		report, err = p.AuditURL(ctx, target, params)
		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}
	} else {
		data, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("read %s: %w", target, err)
		}
		if isHTMLFile(target) {
			report = p.AuditContent(ctx, target, "", string(data), params)
		} else {
			report = p.AuditContent(ctx, target, string(data), "", params)
		}
	}

	return p.Render(os.Stdout, report)
}

// buildConfig resolves config file + env, then applies command flags.
func buildConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFacts {
		cfg.Facts.Enabled = false
	}
	if outFormat != "" {
		cfg.Output.Format = outFormat
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	if cfg.LLM.Provider != "" {
		if err := apiKeyFromEnv(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func pageParams() pipeline.PageParams {
	return pipeline.PageParams{
		Language:      language,
		CentralEntity: entity,
		Attributes:    attributes,
		Predicates:    predicates,
		WebsiteType:   model.WebsiteType(siteType),
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
