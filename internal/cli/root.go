// Package cli implements the contentaudit command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avetrov/contentaudit/internal/model"
)

var (
	cfgFile string
	verbose bool
	logger  zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contentaudit",
	Short: "contentaudit - deterministic content quality audits",
	Long: `contentaudit inspects web content for quality problems a machine can
actually measure: missing context qualifiers, entity placement, HTML
nesting mistakes, weak internal linking, filler language, retrieval
cost, and more.

Every finding is a deterministic heuristic over tokens, counts, ratios,
or markup structure. Extracted factual claims can additionally be
verified through a pluggable LLM verifier.

contentaudit reports findings; it never computes a pass/fail score.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("contentaudit v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.contentaudit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file and CONTENTAUDIT_* env variables, and
// sets up the logger.
func initConfig() {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.contentaudit")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CONTENTAUDIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// loadConfig materializes the effective configuration: defaults overlaid
// with whatever the config file and environment provide.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// apiKeyFromEnv resolves the verifier API key for a provider. Ollama
// needs none; its base URL may come from OLLAMA_BASE_URL.
func apiKeyFromEnv(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
