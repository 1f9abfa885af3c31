package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/akhmetov/cv-matcher/internal/catalog"
	"github.com/akhmetov/cv-matcher/internal/embedding"
	"github.com/akhmetov/cv-matcher/internal/embedding/gemini"
	"github.com/akhmetov/cv-matcher/internal/engine"
	"github.com/akhmetov/cv-matcher/internal/logger"
	"github.com/akhmetov/cv-matcher/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowReport  = "Show full report"
	PromptDumpToFile  = "Dump results to file"
	PromptExit        = "Exit"
	topMatchesPreview = 10
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptDumpToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank catalog jobs against a resume",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().IntP("top-n", "n", 0, "limit results to the best N matches (0 returns all)")
	matchCmd.Flags().BoolP("no-prompt", "y", false, "print results and exit without the interactive menu")
	matchCmd.Flags().StringP("resume-file", "r", "", "path to the resume text file")
	matchCmd.Flags().StringP("catalog-file", "c", "", "path to a JSON file with job postings")

	viper.BindPFlag("top-n", matchCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("resume-file", matchCmd.Flags().Lookup("resume-file"))
	viper.BindPFlag("catalog.file", matchCmd.Flags().Lookup("catalog-file"))
}

// runMatch is the main command for the cli.
func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	resumeFile := strings.TrimSpace(viper.GetString("resume-file"))
	if resumeFile == "" {
		logger.Fatal("resume file is required",
			zap.String("hint", "set the resume-file key in the configuration file or pass --resume-file"),
		)
	}

	resumeText, err := os.ReadFile(resumeFile)
	if err != nil {
		logger.Fatal("reading resume file", zap.Error(err))
	}

	jobs, err := loadCatalog(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading job catalog", zap.Error(err))
	}

	logger.Info("loaded job catalog", zap.Int("count", jobs.Len()))

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs in the catalog"))
		return
	}

	matcher, err := prepareMatcher(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the matcher", zap.Error(err))
	}

	ranking, err := matcher.Rank(ctx, string(resumeText), jobs, viper.GetInt("top-n"))
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	for _, skipped := range ranking.Skipped {
		logger.Warn("job skipped",
			zap.String("job_id", skipped.ID),
			zap.String("reason", skipped.Reason),
		)
	}

	if len(ranking.Matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no matches produced"))
		return
	}

	printMatches(ranking.Matches)

	if cmd.Flag("no-prompt").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, ranking); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, ranking *engine.Ranking) error {
	switch action {
	case PromptShowReport:
		pretty, _ := json.MarshalIndent(ranking, "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", len(ranking.Matches)))
		return nil
	case PromptDumpToFile:
		filename, err := ranking.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printMatches(matches []*engine.MatchResult) {
	shown := len(matches)
	if shown > topMatchesPreview {
		shown = topMatchesPreview
	}

	for i, match := range matches[:shown] {
		fmt.Printf("%2d. [%.2f] %s", i+1, match.Score, match.JobTitle)
		if match.Company != "" {
			fmt.Printf(" @ %s", match.Company)
		}
		fmt.Printf(" (%s)\n", match.JobID)

		for _, reason := range match.Reasons {
			fmt.Printf("      - %s\n", reason)
		}
		if len(match.MissingSkills) > 0 {
			fmt.Printf("      - Missing skills: %s\n", strings.Join(match.MissingSkills, ", "))
		}
	}

	if shown < len(matches) {
		fmt.Printf("... and %d more\n", len(matches)-shown)
	}
}

// loadCatalog returns a snapshot of job postings from the configured source.
func loadCatalog(ctx context.Context, config *Config, logger *zap.Logger) (*catalog.Jobs, error) {
	if config.Catalog == nil {
		return nil, errors.New("catalog configuration is required")
	}

	var jobs *catalog.Jobs
	var rejected []catalog.RejectedRecord
	var err error

	switch {
	case strings.TrimSpace(viper.GetString("catalog.file")) != "":
		jobs, rejected, err = catalog.FromFile(viper.GetString("catalog.file"))
	case strings.TrimSpace(config.Catalog.URL) != "":
		token := ""
		if tokenFile := strings.TrimSpace(viper.GetString("catalog.token-file")); tokenFile != "" {
			token, err = secrets.Load(secrets.Source{Name: "catalog token", File: tokenFile})
			if err != nil {
				return nil, err
			}
		}
		client := catalog.NewClient(ctx, logger, config.Catalog.URL, token)
		jobs, rejected, err = client.List()
	default:
		return nil, errors.New("either catalog.file or catalog.url must be configured")
	}

	if err != nil {
		return nil, err
	}

	for _, record := range rejected {
		logger.Warn("rejected job record at the catalog boundary",
			zap.Int("index", record.Index),
			zap.String("job_id", record.ID),
			zap.String("reason", record.Reason),
		)
	}

	return jobs, nil
}

func prepareMatcher(ctx context.Context, config *Config, log *zap.Logger) (*engine.Matcher, error) {
	provider, model, err := newEmbeddingProvider(ctx, config.Embeddings, log)
	if err != nil {
		return nil, err
	}

	matchCfg := engine.Config{}
	cacheMax := 0
	if config.Match != nil {
		matchCfg.Concurrency = config.Match.Concurrency
		cacheMax = config.Match.CacheMaxEntries
		if w := config.Match.Weights; w != nil {
			matchCfg.Weights = engine.Weights{
				Similarity: w.Similarity,
				Skills:     w.Skills,
				Experience: w.Experience,
				Education:  w.Education,
			}
		}
	}

	matchLogger := logger.WithMatchFields(log, "gemini", model)
	cache := embedding.NewCache(provider, matchLogger, cacheMax)

	return engine.NewMatcher(provider, cache, matchCfg, matchLogger)
}

func newEmbeddingProvider(ctx context.Context, cfg *EmbeddingsConfig, log *zap.Logger) (embedding.Provider, string, error) {
	if cfg == nil {
		return nil, "", errors.New("embeddings configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	keyFile := strings.TrimSpace(viper.GetString("embeddings.gemini.api-key-file"))
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set embeddings.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	model := ""
	maxRetries := 0
	if cfg.Gemini != nil {
		model = cfg.Gemini.Model
		maxRetries = cfg.Gemini.MaxRetries
	}

	client, err := gemini.New(ctx, apiKey, model, maxRetries, log)
	if err != nil {
		return nil, "", err
	}

	return client, client.Model(), nil
}
