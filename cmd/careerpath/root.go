package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerpath/internal/adapter"
	"github.com/amishk599/careerpath/internal/ai"
	"github.com/amishk599/careerpath/internal/config"
	"github.com/amishk599/careerpath/internal/model"
	"github.com/amishk599/careerpath/internal/ratelimit"
	"github.com/amishk599/careerpath/internal/retry"
	"github.com/amishk599/careerpath/internal/store"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "careerpath",
	Short: "Career guidance backed by an LLM, with deterministic fallbacks",
	Long: "careerpath recommends careers, builds learning roadmaps, explains matches, curates learning\n" +
		"resources and answers career questions. Without an API key every command still answers\n" +
		"from built-in fallback data.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CAREERPATH_CONFIG env var or ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// resolveConfigPath picks the config file to read.
// Priority: explicit path arg > CAREERPATH_CONFIG env var > "./config.yaml" if it exists.
// An empty result means defaults plus environment.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("CAREERPATH_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func loadConfig(path string) (*config.Config, error) {
	return config.Load(resolveConfigPath(path))
}

// setupLogger logs to stderr so stdout only carries command output. One-shot
// commands only show warnings unless --debug is set.
func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stderr, slog.LevelWarn, dbg)
}

func newLogger(w io.Writer, level slog.Level, dbg bool) *slog.Logger {
	if dbg {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// app bundles what every generation command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	history store.Store
	advisor *ai.Advisor
}

func newApp(logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	history, err := setupStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		history: history,
		advisor: setupAdvisor(cfg, history, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		a.logger.Warn("closing history store", "error", err)
	}
}

func setupStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if !cfg.History.Enabled {
		return store.NewNopStore(), nil
	}
	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	logger.Debug("history enabled", "path", cfg.History.Path)
	return s, nil
}

// setupAdvisor wires the LLM transport, retry policy and job search. Without a
// credential the advisor gets no provider and answers from fallback data.
func setupAdvisor(cfg *config.Config, recorder model.GenerationRecorder, logger *slog.Logger) *ai.Advisor {
	policy := retry.DefaultPolicy()
	deadline, needed := generationDeadline(cfg.AI, policy)
	if cfg.AI.Configured() && deadline < needed {
		logger.Warn("ai.deadline is shorter than the retry schedule, later retries will be cut off",
			"deadline", deadline, "needed", needed)
	}

	opts := []ai.Option{
		ai.WithDeadline(deadline),
		ai.WithRecorder(recorder),
	}

	searchClient := &http.Client{Timeout: cfg.JobSearch.Timeout}
	if searcher := setupSearcher(cfg, searchClient, logger); searcher != nil {
		opts = append(opts, ai.WithAugmenter(ai.NewJobAugmenter(searcher, cfg.JobSearch.Results, cfg.JobSearch.Timeout, logger)))
	}

	var provider model.LLMProvider
	if cfg.AI.Configured() {
		httpClient := &http.Client{Timeout: cfg.AI.Timeout}
		provider = retry.NewRetryProvider(
			ai.NewHTTPProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient),
			policy,
			logger,
		)
		logger.Debug("ai configured", "model", cfg.AI.Model, "base_url", cfg.AI.BaseURL)
	} else {
		logger.Debug("no ai credential configured, using fallback responses")
	}

	return ai.NewAdvisor(provider, logger, opts...)
}

// generationDeadline returns the configured ai.deadline, or the time the
// policy needs to use every attempt when none is configured, along with that
// needed time.
func generationDeadline(cfg config.AIConfig, policy retry.Policy) (deadline, needed time.Duration) {
	needed = policy.Budget(cfg.Timeout)
	if cfg.Deadline > 0 {
		return cfg.Deadline, needed
	}
	return needed, needed
}

// setupSearcher returns nil when no job search source is configured.
func setupSearcher(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.JobSearcher {
	var searchers []model.JobSearcher
	if cfg.JobSearch.Adzuna.Configured() {
		searchers = append(searchers, adapter.NewAdzunaSearcher(
			cfg.JobSearch.Adzuna.AppID, cfg.JobSearch.Adzuna.AppKey, cfg.JobSearch.Adzuna.Country, httpClient))
	}
	if boards := buildBoards(cfg, httpClient, logger); len(boards) > 0 {
		searchers = append(searchers, adapter.NewBoardSearcher(boards, cfg.JobSearch.Locations, logger))
	}

	switch len(searchers) {
	case 0:
		return nil
	case 1:
		return searchers[0]
	default:
		return adapter.NewChainSearcher(logger, searchers...)
	}
}

func createBoard(b config.BoardConfig, httpClient *http.Client, logger *slog.Logger) (model.JobBoard, bool) {
	switch b.ATS {
	case "greenhouse":
		return adapter.NewGreenhouseAdapter(b.BoardToken, b.Name, httpClient), true
	case "lever":
		return adapter.NewLeverAdapter(b.BoardToken, b.Name, httpClient), true
	default:
		logger.Warn("unsupported ATS, skipping", "company", b.Name, "ats", b.ATS)
		return nil, false
	}
}

// buildBoards creates the enabled boards. Boards on the same ATS share one
// limiter.
func buildBoards(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.JobBoard {
	limiters := make(map[string]*ratelimit.BackendLimiter)

	var boards []model.JobBoard
	for _, b := range cfg.JobSearch.Boards {
		if !b.Enabled {
			continue
		}
		board, ok := createBoard(b, httpClient, logger)
		if !ok {
			continue
		}

		limiter, ok := limiters[b.ATS]
		if !ok {
			limiter = ratelimit.NewBackendLimiter(cfg.JobSearch.RateLimit.MinDelayFor(b.ATS))
			limiters[b.ATS] = limiter
		}
		boards = append(boards, ratelimit.NewRateLimitedBoard(board, limiter, b.ATS))
		logger.Debug("registered board", "name", b.Name, "ats", b.ATS)
	}
	return boards
}
