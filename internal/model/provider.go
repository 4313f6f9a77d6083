package model

import (
	"context"
	"encoding/json"
	"time"
)

// Completion is a single text-generation call.
type Completion struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
	ExpectJSON  bool // only affects normalization of the reply
}

// LLMProvider sends a completion to a text-generation API and returns the raw reply.
type LLMProvider interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// JobQuery describes a job search.
type JobQuery struct {
	Title string
	Limit int
}

// JobSearcher looks up real job listings for a career title.
type JobSearcher interface {
	Search(ctx context.Context, q JobQuery) ([]JobListing, error)
}

// JobBoard is a single company job board that lists all of its open postings.
type JobBoard interface {
	Name() string
	FetchListings(ctx context.Context) ([]JobListing, error)
}

// Source records where a generation result came from.
type Source string

const (
	SourceModel            Source = "model"
	SourceFallback         Source = "fallback"
	SourceFallbackReactive Source = "fallback_reactive"
)

// GenerationRecord describes one finished generation.
type GenerationRecord struct {
	ID        string
	Operation Operation
	Source    Source
	Duration  time.Duration
	Payload   json.RawMessage
	CreatedAt time.Time
}

// GenerationRecorder receives a record after each generation.
type GenerationRecorder interface {
	Record(ctx context.Context, rec GenerationRecord) error
}
