package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/reviewbotdev/reviewbot/internal/adapter/cli"
	"github.com/reviewbotdev/reviewbot/internal/adapter/git"
	githubadapter "github.com/reviewbotdev/reviewbot/internal/adapter/github"
	"github.com/reviewbotdev/reviewbot/internal/adapter/llm"
	"github.com/reviewbotdev/reviewbot/internal/adapter/llm/anthropic"
	llmhttp "github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/reviewbotdev/reviewbot/internal/adapter/llm/openai"
	"github.com/reviewbotdev/reviewbot/internal/adapter/llm/static"
	"github.com/reviewbotdev/reviewbot/internal/adapter/observability"
	"github.com/reviewbotdev/reviewbot/internal/adapter/output/json"
	"github.com/reviewbotdev/reviewbot/internal/adapter/output/markdown"
	storeAdapter "github.com/reviewbotdev/reviewbot/internal/adapter/store"
	"github.com/reviewbotdev/reviewbot/internal/adapter/store/sqlite"
	"github.com/reviewbotdev/reviewbot/internal/adapter/tracking"
	"github.com/reviewbotdev/reviewbot/internal/config"
	"github.com/reviewbotdev/reviewbot/internal/determinism"
	"github.com/reviewbotdev/reviewbot/internal/redaction"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
	"github.com/reviewbotdev/reviewbot/internal/version"
)

func main() {
	if err := run(); err != nil {
		// check-skip's review outcome is a plain exit code; the command
		// already printed it.
		if !errors.Is(err, cli.ErrShouldReview) {
			// Redact API keys from URLs in error messages before logging
			log.Println(llmhttp.RedactURLSecrets(err.Error()))
		}
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "reviewbot",
		EnvPrefix:   "REVIEWBOT",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	// The Actions container contract (GITHUB_TOKEN, OPENAI_API_KEY, ...)
	// wins over the config file.
	cfg = config.Merge(cfg, config.FromEnvironment())

	obs := buildObservability(cfg.Observability)

	// Create review logger adapter if logging is enabled
	var reviewLogger review.Logger
	if obs.structured != nil {
		reviewLogger = observability.NewReviewLogger(obs.structured)
	}

	provider, err := buildProvider(cfg, obs)
	if err != nil {
		return err
	}

	// Initialize history store if enabled; review runs proceed without it
	var reviewStore review.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				reviewStore = storeAdapter.NewBridge(sqliteStore)
				defer reviewStore.Close()
			}
		}
	}

	// Instantiate redaction engine if enabled
	var redactor review.Redactor
	if cfg.Redaction.Enabled {
		redactor = redaction.NewEngine()
	}

	// "none" disables stale review dismissal and recognition of the bot's
	// own past comments.
	botUsername := cfg.Review.BotUsername
	if strings.EqualFold(botUsername, "none") {
		botUsername = ""
	}

	// The GitHub side is wired only with credentials; local mode works
	// without them.
	var (
		fetcher       review.PullRequestFetcher
		poster        review.ReviewPoster
		trackingStore review.TrackingStore
		commits       cli.CommitLister
	)
	if cfg.GitHub.Token != "" || cfg.GitHub.UsesAppAuth() {
		client, err := githubadapter.NewFromConfig(cfg.GitHub)
		if err != nil {
			return fmt.Errorf("github client: %w", err)
		}
		fetcher = githubadapter.NewFetcher(client, botUsername)
		poster = githubadapter.NewPoster(client, cfg.Review.Actions, botUsername)
		trackingStore = tracking.NewGitHubStore(client)
		commits = client
	}

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}

	// Timestamp function for deterministic output file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("2006-01-02T15-04-05Z")
	}

	orchestrator := review.NewOrchestrator(review.OrchestratorDeps{
		Provider:   provider,
		Fetcher:    fetcher,
		Poster:     poster,
		Git:        git.NewEngine(repoDir),
		Markdown:   markdown.NewWriter(nowFunc),
		JSON:       json.NewWriter(nowFunc),
		Redactor:   redactor,
		Tracking:   trackingStore,
		Store:      reviewStore,
		Logger:     reviewLogger,
		Estimator:  llm.EstimateTokens,
		PRSeed:     determinism.PullRequestSeed,
		BranchSeed: determinism.GenerateSeed,
	}, review.Options{
		Exclude:            cfg.Review.Exclude,
		MaxFilesPerReview:  cfg.Review.MaxFilesPerReview,
		ChunkTokenBudget:   cfg.Review.ChunkTokenBudget,
		Workers:            cfg.Review.Workers,
		CustomInstructions: cfg.Review.Instructions,
	})

	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer:      orchestrator,
		Commits:       commits,
		DefaultOutput: cfg.Output.Directory,
		DefaultRepo:   repositoryName(repoDir),
		Color:         review.IsOutputTerminal(),
		Version:       version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		switch {
		case errors.Is(err, cli.ErrVersionRequested):
			return nil
		case errors.Is(err, cli.ErrShouldReview):
			return err
		}
		return fmt.Errorf("command failed: %w", err)
	}

	logUsageSummary(ctx, obs)
	return nil
}

// logUsageSummary reports aggregate token and cost figures for the run.
// Quiet when metrics are disabled or no API calls were made.
func logUsageSummary(ctx context.Context, obs observabilityComponents) {
	if obs.metrics == nil || obs.structured == nil {
		return
	}

	stats := obs.metrics.GetStats()
	if stats.TotalRequests == 0 {
		return
	}

	obs.structured.LogInfo(ctx, "llm usage", map[string]interface{}{
		"requests":   stats.TotalRequests,
		"tokens_in":  stats.TotalTokensIn,
		"tokens_out": stats.TotalTokensOut,
		"cost_usd":   fmt.Sprintf("%.4f", stats.TotalCost),
		"errors":     stats.ErrorCount,
	})
}

func repositoryName(repoDir string) string {
	abs, err := filepath.Abs(repoDir)
	if err != nil {
		return "unknown"
	}
	return filepath.Base(abs)
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reviewbot"))
	}
	return paths
}

// observabilityComponents holds shared observability instances. The
// structured field is the same logger as logger; it carries the concrete
// type so the review pipeline can log through it too.
type observabilityComponents struct {
	logger     llmhttp.Logger
	structured observability.StructuredLogger
	metrics    llmhttp.Metrics
	pricing    llmhttp.Pricing
}

// buildObservability creates observability components based on configuration
func buildObservability(cfg config.ObservabilityConfig) observabilityComponents {
	// Pricing is always on; it only computes costs
	obs := observabilityComponents{pricing: llmhttp.NewDefaultPricing()}

	if logger := observability.NewLoggerFromConfig(cfg.Logging); logger != nil {
		obs.logger = logger
		obs.structured = logger
	}
	if cfg.Metrics.Enabled {
		obs.metrics = llmhttp.NewDefaultMetrics()
	}

	return obs
}

// buildProvider creates the single active review provider named by
// cfg.Provider. A missing API key is an error rather than a silent
// fallback; the static provider exists for tests and dry runs.
func buildProvider(cfg config.Config, obs observabilityComponents) (review.Provider, error) {
	name := cfg.Provider
	if name == "" {
		name = "openai"
	}

	providerCfg, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q is not configured", name)
	}
	if !providerCfg.Enabled {
		return nil, fmt.Errorf("provider %q is disabled in configuration", name)
	}

	useSeed := cfg.Determinism.Enabled && cfg.Determinism.UseSeed

	switch name {
	case "openai":
		model := providerCfg.Model
		if model == "" {
			model = "gpt-4"
		}
		if providerCfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when provider is openai")
		}
		client := openai.NewHTTPClient(providerCfg.APIKey, model, providerCfg, cfg.HTTP)
		client.SetDeterminism(cfg.Determinism.Temperature, useSeed)
		if obs.logger != nil {
			client.SetLogger(obs.logger)
		}
		if obs.metrics != nil {
			client.SetMetrics(obs.metrics)
		}
		if obs.pricing != nil {
			client.SetPricing(obs.pricing)
		}
		return openai.NewProvider(model, client), nil

	case "anthropic":
		model := providerCfg.Model
		if model == "" {
			model = "claude-3-5-sonnet-20241022"
		}
		if providerCfg.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when provider is anthropic")
		}
		client := anthropic.NewHTTPClient(providerCfg.APIKey, model, providerCfg, cfg.HTTP)
		client.SetDeterminism(cfg.Determinism.Temperature, useSeed)
		if obs.logger != nil {
			client.SetLogger(obs.logger)
		}
		if obs.metrics != nil {
			client.SetMetrics(obs.metrics)
		}
		if obs.pricing != nil {
			client.SetPricing(obs.pricing)
		}
		return anthropic.NewProvider(model, client), nil

	case "static":
		model := providerCfg.Model
		if model == "" {
			model = "static-v1"
		}
		return static.NewProvider(model), nil

	default:
		return nil, fmt.Errorf("unsupported provider %q (supported: openai, anthropic, static)", name)
	}
}

// Compile-time interface compliance checks
var _ cli.Reviewer = (*review.Orchestrator)(nil)
var _ cli.CommitLister = (*githubadapter.Client)(nil)
var _ review.Provider = (*openai.Provider)(nil)
var _ review.Provider = (*anthropic.Provider)(nil)
var _ review.Provider = (*static.Provider)(nil)
var _ review.Redactor = (*redaction.Engine)(nil)
var _ observability.StructuredLogger = (*llmhttp.DefaultLogger)(nil)
