package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/careerpath/internal/model"
)

// Advisor runs career generations against an LLM and never fails: when the
// model is unconfigured, unreachable or unparseable it answers with the
// matching Fallback* result.
type Advisor struct {
	provider  model.LLMProvider // nil when no credential is configured
	augmenter *JobAugmenter
	recorder  model.GenerationRecorder
	deadline  time.Duration
	logger    *slog.Logger
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithAugmenter enables job listing augmentation for learning resources.
func WithAugmenter(a *JobAugmenter) Option {
	return func(adv *Advisor) { adv.augmenter = a }
}

// WithRecorder reports every finished generation to r.
func WithRecorder(r model.GenerationRecorder) Option {
	return func(adv *Advisor) { adv.recorder = r }
}

// WithDeadline bounds the wall-clock time of one model call including retries.
// Exceeding it is handled like an exhausted retry budget. Without it only the
// caller's context bounds a call.
func WithDeadline(d time.Duration) Option {
	return func(adv *Advisor) { adv.deadline = d }
}

// NewAdvisor creates an Advisor. Pass a nil provider when no API credential is
// configured; every operation then returns fallback data without network I/O.
func NewAdvisor(provider model.LLMProvider, logger *slog.Logger, opts ...Option) *Advisor {
	a := &Advisor{
		provider: provider,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Configured reports whether a model provider is available.
func (a *Advisor) Configured() bool {
	return a.provider != nil
}

// GenerateInsights recommends careers for a profile.
func (a *Advisor) GenerateInsights(ctx context.Context, req model.InsightsRequest) []model.CareerRecommendation {
	return generate(ctx, a, req, decodeInsights, func() []model.CareerRecommendation {
		return FallbackInsights(req)
	})
}

// GenerateRoadmap builds a phased plan toward req.Title.
func (a *Advisor) GenerateRoadmap(ctx context.Context, req model.RoadmapRequest) model.RoadmapPlan {
	return generate(ctx, a, req, Decode[model.RoadmapPlan], func() model.RoadmapPlan {
		return FallbackRoadmap(req)
	})
}

// ExplainRecommendation explains why a recommended career fits the user.
func (a *Advisor) ExplainRecommendation(ctx context.Context, req model.ExplanationRequest) model.Explanation {
	return generate(ctx, a, req, Decode[model.Explanation], func() model.Explanation {
		return FallbackExplanation(req)
	})
}

// GenerateLearningResources suggests videos, jobs and news, then tries to
// replace the jobs with real listings.
func (a *Advisor) GenerateLearningResources(ctx context.Context, req model.ResourcesRequest) model.LearningResources {
	res := generate(ctx, a, req, Decode[model.LearningResources], func() model.LearningResources {
		return FallbackResources(req)
	})
	a.augmenter.Augment(ctx, req.Title, &res)
	return res
}

// AnalyzeCareerPath interprets questionnaire answers.
func (a *Advisor) AnalyzeCareerPath(ctx context.Context, req model.AnalysisRequest) model.CareerAnalysis {
	return generate(ctx, a, req, Decode[model.CareerAnalysis], func() model.CareerAnalysis {
		return FallbackAnalysis(req)
	})
}

// Chat answers a free-form message in plain text.
func (a *Advisor) Chat(ctx context.Context, req model.ChatRequest) string {
	return generate(ctx, a, req, decodeText, func() string {
		return FallbackChat(req)
	})
}

// generate runs one call through prompt -> send -> normalize, switching to
// fallback when there is no provider, the call fails, or the reply cannot be
// decoded.
func generate[T any](
	ctx context.Context,
	a *Advisor,
	req model.GenerationRequest,
	decode func(raw string) (T, *model.ParseFailure),
	fallback func() T,
) T {
	start := time.Now()
	callID := uuid.NewString()
	logger := a.logger.With("call_id", callID, "operation", req.Operation())

	result, source := call(ctx, a, logger, req, decode, fallback)
	ensureLists(&result)

	logger.Info("generation complete", "source", source, "duration", time.Since(start))
	a.record(ctx, logger, model.GenerationRecord{
		ID:        callID,
		Operation: req.Operation(),
		Source:    source,
		Duration:  time.Since(start),
		CreatedAt: start,
	}, result)
	return result
}

func call[T any](
	ctx context.Context,
	a *Advisor,
	logger *slog.Logger,
	req model.GenerationRequest,
	decode func(raw string) (T, *model.ParseFailure),
	fallback func() T,
) (T, model.Source) {
	if a.provider == nil {
		logger.Debug("ai not configured, using fallback")
		return fallback(), model.SourceFallback
	}

	callCtx := ctx
	if a.deadline > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.deadline)
		defer cancel()
	}

	completion, err := NewCompletion(req)
	if err != nil {
		logger.Error("cannot build prompt, using fallback", "error", err)
		return fallback(), model.SourceFallbackReactive
	}

	raw, err := a.provider.Complete(callCtx, completion)
	if err != nil {
		logger.Warn("llm call failed, using fallback", "error", err)
		return fallback(), model.SourceFallbackReactive
	}

	result, failure := decode(raw)
	if failure != nil {
		logger.Warn("unparseable llm response, using fallback",
			"raw_len", len(failure.Raw),
			"failure", describe(failure),
		)
		return fallback(), model.SourceFallbackReactive
	}
	return result, model.SourceModel
}

func (a *Advisor) record(ctx context.Context, logger *slog.Logger, rec model.GenerationRecord, result any) {
	if a.recorder == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		logger.Warn("encode generation record", "error", err)
		return
	}
	rec.Payload = payload
	if err := a.recorder.Record(ctx, rec); err != nil {
		logger.Warn("record generation", "error", err)
	}
}

// ensureLists fills nil list fields so model and fallback results encode the
// same shape.
func ensureLists(v any) {
	switch r := v.(type) {
	case *[]model.CareerRecommendation:
		if *r == nil {
			*r = []model.CareerRecommendation{}
		}
		for i := range *r {
			(*r)[i].EnsureLists()
		}
	case interface{ EnsureLists() }:
		r.EnsureLists()
	}
}

// decodeInsights accepts either {"recommendations": [...]} or a bare array.
func decodeInsights(raw string) ([]model.CareerRecommendation, *model.ParseFailure) {
	n := Normalize(raw)
	if !n.OK() {
		return nil, n.Failure
	}

	var wrapped struct {
		Recommendations []model.CareerRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(n.JSON, &wrapped); err == nil && wrapped.Recommendations != nil {
		return wrapped.Recommendations, nil
	}

	var recs []model.CareerRecommendation
	if err := json.Unmarshal(n.JSON, &recs); err != nil || recs == nil {
		return nil, &model.ParseFailure{Reason: ReasonUnparseable, Raw: raw}
	}
	return recs, nil
}

// decodeText is the chat decoder: the reply is used as-is.
func decodeText(raw string) (string, *model.ParseFailure) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &model.ParseFailure{Reason: ReasonEmpty, Raw: raw}
	}
	return text, nil
}
