package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for careerpath.
type Config struct {
	AI        AIConfig
	JobSearch JobSearchConfig
	Server    ServerConfig
	History   HistoryConfig
}

// AIConfig points at the text-generation endpoint. An empty APIKey is a normal
// mode: every operation is answered from fallback data.
type AIConfig struct {
	BaseURL  string        // full URL of the generate endpoint
	Model    string        // model identifier sent with each request
	APIKey   string        // expanded from env var by Load
	Timeout  time.Duration // per-request HTTP timeout
	Deadline time.Duration // wall-clock bound for one generation including retries; zero derives it from the retry policy
}

// Configured reports whether a credential is present.
func (a AIConfig) Configured() bool {
	return a.APIKey != ""
}

// JobSearchConfig controls where real job listings come from.
type JobSearchConfig struct {
	Adzuna    AdzunaConfig
	Boards    []BoardConfig
	Locations []string      // restricts board results; empty means anywhere
	Results   int           // listings requested per search
	Timeout   time.Duration // bound for one augmentation
	RateLimit RateLimitConfig
}

// AdzunaConfig holds the Adzuna application credentials.
type AdzunaConfig struct {
	AppID   string `yaml:"app_id"`
	AppKey  string `yaml:"app_key"`
	Country string `yaml:"country"`
}

// Configured reports whether both Adzuna credentials are present.
func (a AdzunaConfig) Configured() bool {
	return a.AppID != "" && a.AppKey != ""
}

// BoardConfig describes a single company board to search.
type BoardConfig struct {
	Name       string `yaml:"name"`
	ATS        string `yaml:"ats"`
	BoardToken string `yaml:"board_token"`
	Enabled    bool   `yaml:"enabled"`
}

// RateLimitConfig controls ATS-level rate limiting for board fetches.
type RateLimitConfig struct {
	MinDelay     time.Duration            // minimum gap between requests to the same ATS
	ATSOverrides map[string]time.Duration // per-ATS overrides, keyed by ATS name
}

// MinDelayFor returns the configured delay for the given ATS, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(ats string) time.Duration {
	if d, ok := r.ATSOverrides[ats]; ok {
		return d
	}
	return r.MinDelay
}

// ServerConfig controls the HTTP API started by "careerpath serve".
type ServerConfig struct {
	Addr      string
	RateLimit ClientRateConfig
}

// ClientRateConfig is the per-client token bucket for the HTTP API.
type ClientRateConfig struct {
	RPS   float64
	Burst int
	TTL   time.Duration // idle clients are forgotten after this long
}

// HistoryConfig controls the SQLite generation history.
type HistoryConfig struct {
	Enabled   bool
	Path      string
	Retention time.Duration
}

// Environment variables that override file values.
const (
	EnvAIAPIKey     = "CAREERPATH_AI_API_KEY"
	EnvAIBaseURL    = "CAREERPATH_AI_BASE_URL"
	EnvAIModel      = "CAREERPATH_AI_MODEL"
	EnvAdzunaAppID  = "ADZUNA_APP_ID"
	EnvAdzunaAppKey = "ADZUNA_APP_KEY"
)

const (
	defaultModel        = "gpt-4o-mini"
	defaultAITimeout    = 60 * time.Second
	defaultResults      = 5
	defaultSearchTime   = 10 * time.Second
	defaultBoardDelay   = 2 * time.Second
	defaultAddr         = ":8080"
	defaultRPS          = 1
	defaultBurst        = 5
	defaultClientTTL    = 3 * time.Minute
	defaultHistoryPath  = "careerpath.db"
	defaultHistoryKeep  = 30 * 24 * time.Hour
	defaultAdzunaRegion = "us"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI        rawAIConfig        `yaml:"ai"`
	JobSearch rawJobSearchConfig `yaml:"job_search"`
	Server    rawServerConfig    `yaml:"server"`
	History   rawHistoryConfig   `yaml:"history"`
}

type rawAIConfig struct {
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Timeout  string `yaml:"timeout"`
	Deadline string `yaml:"deadline"`
}

type rawJobSearchConfig struct {
	Adzuna    AdzunaConfig       `yaml:"adzuna"`
	Boards    []BoardConfig      `yaml:"boards"`
	Locations []string           `yaml:"locations"`
	Results   int                `yaml:"results"`
	Timeout   string             `yaml:"timeout"`
	RateLimit rawRateLimitConfig `yaml:"rate_limit"`
}

type rawRateLimitConfig struct {
	MinDelay     string            `yaml:"min_delay"`
	ATSOverrides map[string]string `yaml:"ats_overrides"`
}

type rawServerConfig struct {
	Addr      string              `yaml:"addr"`
	RateLimit rawClientRateConfig `yaml:"rate_limit"`
}

type rawClientRateConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
	TTL   string  `yaml:"ttl"`
}

type rawHistoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

// Load reads and parses the YAML config file at path, applies defaults and
// environment overrides, validates it, and returns Config. An empty path
// skips the file and yields defaults plus environment.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		// Expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&raw)

	aiTimeout, err := parseDuration("ai.timeout", raw.AI.Timeout, defaultAITimeout)
	if err != nil {
		return nil, err
	}
	aiDeadline, err := parseDuration("ai.deadline", raw.AI.Deadline, 0)
	if err != nil {
		return nil, err
	}
	searchTimeout, err := parseDuration("job_search.timeout", raw.JobSearch.Timeout, defaultSearchTime)
	if err != nil {
		return nil, err
	}
	boardDelay, err := parseDuration("job_search.rate_limit.min_delay", raw.JobSearch.RateLimit.MinDelay, defaultBoardDelay)
	if err != nil {
		return nil, err
	}

	atsOverrides := make(map[string]time.Duration)
	for ats, v := range raw.JobSearch.RateLimit.ATSOverrides {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse job_search.rate_limit.ats_overrides[%q]: %w", ats, err)
		}
		atsOverrides[ats] = d
	}

	clientTTL, err := parseDuration("server.rate_limit.ttl", raw.Server.RateLimit.TTL, defaultClientTTL)
	if err != nil {
		return nil, err
	}
	retention, err := parseDuration("history.retention", raw.History.Retention, defaultHistoryKeep)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AI: AIConfig{
			BaseURL:  raw.AI.BaseURL,
			Model:    orDefault(raw.AI.Model, defaultModel),
			APIKey:   raw.AI.APIKey,
			Timeout:  aiTimeout,
			Deadline: aiDeadline,
		},
		JobSearch: JobSearchConfig{
			Adzuna: AdzunaConfig{
				AppID:   raw.JobSearch.Adzuna.AppID,
				AppKey:  raw.JobSearch.Adzuna.AppKey,
				Country: orDefault(raw.JobSearch.Adzuna.Country, defaultAdzunaRegion),
			},
			Boards:    raw.JobSearch.Boards,
			Locations: raw.JobSearch.Locations,
			Results:   raw.JobSearch.Results,
			Timeout:   searchTimeout,
			RateLimit: RateLimitConfig{
				MinDelay:     boardDelay,
				ATSOverrides: atsOverrides,
			},
		},
		Server: ServerConfig{
			Addr: orDefault(raw.Server.Addr, defaultAddr),
			RateLimit: ClientRateConfig{
				RPS:   raw.Server.RateLimit.RPS,
				Burst: raw.Server.RateLimit.Burst,
				TTL:   clientTTL,
			},
		},
		History: HistoryConfig{
			Enabled:   raw.History.Enabled,
			Path:      orDefault(raw.History.Path, defaultHistoryPath),
			Retention: retention,
		},
	}
	if cfg.JobSearch.Results == 0 {
		cfg.JobSearch.Results = defaultResults
	}
	if cfg.Server.RateLimit.RPS == 0 {
		cfg.Server.RateLimit.RPS = defaultRPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = defaultBurst
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv lets environment variables win over file values.
func applyEnv(raw *rawConfig) {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&raw.AI.APIKey, EnvAIAPIKey)
	override(&raw.AI.BaseURL, EnvAIBaseURL)
	override(&raw.AI.Model, EnvAIModel)
	override(&raw.JobSearch.Adzuna.AppID, EnvAdzunaAppID)
	override(&raw.JobSearch.Adzuna.AppKey, EnvAdzunaAppKey)
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func validate(cfg *Config) error {
	if cfg.AI.Configured() && cfg.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url is required when an api key is set")
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive")
	}
	if cfg.AI.Deadline < 0 {
		return fmt.Errorf("ai.deadline must not be negative")
	}

	for i, b := range cfg.JobSearch.Boards {
		if !b.Enabled {
			continue
		}
		switch b.ATS {
		case "greenhouse", "lever":
		default:
			return fmt.Errorf("job_search.boards[%d]: unsupported ats %q (want greenhouse or lever)", i, b.ATS)
		}
		if b.BoardToken == "" {
			return fmt.Errorf("job_search.boards[%d]: board_token is required", i)
		}
	}
	if cfg.JobSearch.Results < 0 || cfg.JobSearch.Results > 50 {
		return fmt.Errorf("job_search.results must be between 1 and 50, got %d", cfg.JobSearch.Results)
	}

	if cfg.Server.RateLimit.RPS < 0 || cfg.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("server.rate_limit values must not be negative")
	}

	if cfg.History.Enabled && cfg.History.Retention <= 0 {
		return fmt.Errorf("history.retention must be positive, got %v", cfg.History.Retention)
	}

	return nil
}
