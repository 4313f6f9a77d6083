package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/careerpath/internal/model"
	"github.com/amishk599/careerpath/internal/retry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProvider returns a fixed reply and counts calls.
type stubProvider struct {
	reply string
	err   error
	calls atomic.Int32
	last  model.Completion
}

func (s *stubProvider) Complete(_ context.Context, c model.Completion) (string, error) {
	s.calls.Add(1)
	s.last = c
	return s.reply, s.err
}

// blockingProvider waits until the context is done.
type blockingProvider struct{}

func (blockingProvider) Complete(ctx context.Context, _ model.Completion) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []model.GenerationRecord
}

func (m *memoryRecorder) Record(_ context.Context, rec model.GenerationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryRecorder) last(t *testing.T) model.GenerationRecord {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		t.Fatal("no generation recorded")
	}
	return m.records[len(m.records)-1]
}

type stubSearcher struct {
	jobs  []model.JobListing
	err   error
	calls int
	query model.JobQuery
}

func (s *stubSearcher) Search(_ context.Context, q model.JobQuery) ([]model.JobListing, error) {
	s.calls++
	s.query = q
	return s.jobs, s.err
}

func TestAdvisor_NoProviderReturnsFallback(t *testing.T) {
	rec := &memoryRecorder{}
	adv := NewAdvisor(nil, discardLogger(), WithRecorder(rec))
	ctx := context.Background()

	if adv.Configured() {
		t.Fatal("advisor without provider reports configured")
	}

	insightsReq := model.InsightsRequest{Skills: []string{"Go"}}
	if got := adv.GenerateInsights(ctx, insightsReq); !reflect.DeepEqual(got, FallbackInsights(insightsReq)) {
		t.Errorf("insights = %+v, want fallback", got)
	}
	roadmapReq := model.RoadmapRequest{Title: "SRE", TargetSkills: []string{"Linux"}}
	if got := adv.GenerateRoadmap(ctx, roadmapReq); !reflect.DeepEqual(got, FallbackRoadmap(roadmapReq)) {
		t.Errorf("roadmap = %+v, want fallback", got)
	}
	explainReq := model.ExplanationRequest{Title: "SRE", MatchScore: 50}
	if got := adv.ExplainRecommendation(ctx, explainReq); !reflect.DeepEqual(got, FallbackExplanation(explainReq)) {
		t.Errorf("explanation = %+v, want fallback", got)
	}
	resourcesReq := model.ResourcesRequest{Title: "SRE"}
	if got := adv.GenerateLearningResources(ctx, resourcesReq); !reflect.DeepEqual(got, FallbackResources(resourcesReq)) {
		t.Errorf("resources = %+v, want fallback", got)
	}
	analysisReq := model.AnalysisRequest{Answers: []model.Answer{{Question: "q", Answer: "a"}}}
	if got := adv.AnalyzeCareerPath(ctx, analysisReq); !reflect.DeepEqual(got, FallbackAnalysis(analysisReq)) {
		t.Errorf("analysis = %+v, want fallback", got)
	}
	if got := adv.Chat(ctx, model.ChatRequest{Message: "hi"}); got != FallbackChat(model.ChatRequest{}) {
		t.Errorf("chat = %q, want fallback", got)
	}

	if len(rec.records) != len(model.Operations) {
		t.Fatalf("recorded %d generations, want %d", len(rec.records), len(model.Operations))
	}
	for _, r := range rec.records {
		if r.Source != model.SourceFallback {
			t.Errorf("%s source = %q, want %q", r.Operation, r.Source, model.SourceFallback)
		}
		if r.ID == "" || len(r.Payload) == 0 {
			t.Errorf("%s record missing id or payload: %+v", r.Operation, r)
		}
	}
}

func TestAdvisor_ModelReplyParsed(t *testing.T) {
	provider := &stubProvider{reply: "```json\n" + `{"title":"Plan","timeframe":"3 months","summary":"s","phases":[{"phase":1,"title":"Start","duration":"1 month","difficulty":"Beginner","skills":["Go"],"resources":[],"milestones":[]}]}` + "\n```"}
	rec := &memoryRecorder{}
	adv := NewAdvisor(provider, discardLogger(), WithRecorder(rec))

	got := adv.GenerateRoadmap(context.Background(), model.RoadmapRequest{Title: "Go Developer"})

	if got.Title != "Plan" || len(got.Phases) != 1 || got.Phases[0].Skills[0] != "Go" {
		t.Errorf("roadmap = %+v", got)
	}
	if provider.calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls.Load())
	}
	if provider.last.MaxTokens != 3000 || !provider.last.ExpectJSON {
		t.Errorf("completion = %+v", provider.last)
	}
	if r := rec.last(t); r.Source != model.SourceModel || r.Operation != model.OpRoadmap {
		t.Errorf("record = %+v", r)
	}
}

func TestAdvisor_InsightsAcceptsBothShapes(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"wrapped", `{"recommendations":[{"title":"Nurse","matchScore":90}]}`},
		{"bare array", "```json\n[{\"title\":\"Nurse\",\"matchScore\":90}]\n```"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adv := NewAdvisor(&stubProvider{reply: tc.reply}, discardLogger())
			got := adv.GenerateInsights(context.Background(), model.InsightsRequest{})
			if len(got) != 1 || got[0].Title != "Nurse" || got[0].MatchScore != 90 {
				t.Errorf("insights = %+v", got)
			}
		})
	}
}

func TestAdvisor_ReactiveFallback(t *testing.T) {
	tests := []struct {
		name     string
		provider model.LLMProvider
	}{
		{"provider error", &stubProvider{err: &model.RetryExhaustedError{Attempts: 8, Err: errors.New("boom")}}},
		{"unparseable reply", &stubProvider{reply: "I cannot help with that."}},
		{"wrong shape", &stubProvider{reply: `{"phases":"soon"}`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &memoryRecorder{}
			adv := NewAdvisor(tc.provider, discardLogger(), WithRecorder(rec))
			req := model.RoadmapRequest{Title: "Analyst", TargetSkills: []string{"SQL"}}

			got := adv.GenerateRoadmap(context.Background(), req)

			if !reflect.DeepEqual(got, FallbackRoadmap(req)) {
				t.Errorf("roadmap = %+v, want fallback", got)
			}
			if r := rec.last(t); r.Source != model.SourceFallbackReactive {
				t.Errorf("source = %q, want %q", r.Source, model.SourceFallbackReactive)
			}
		})
	}
}

func TestAdvisor_NullReplyFallsBack(t *testing.T) {
	ctx := context.Background()
	rec := &memoryRecorder{}
	adv := NewAdvisor(&stubProvider{reply: "null"}, discardLogger(), WithRecorder(rec))

	insightsReq := model.InsightsRequest{Skills: []string{"Go"}}
	if got := adv.GenerateInsights(ctx, insightsReq); !reflect.DeepEqual(got, FallbackInsights(insightsReq)) {
		t.Errorf("insights = %+v, want fallback", got)
	}
	roadmapReq := model.RoadmapRequest{Title: "SRE"}
	if got := adv.GenerateRoadmap(ctx, roadmapReq); !reflect.DeepEqual(got, FallbackRoadmap(roadmapReq)) {
		t.Errorf("roadmap = %+v, want fallback", got)
	}
	resourcesReq := model.ResourcesRequest{Title: "SRE"}
	if got := adv.GenerateLearningResources(ctx, resourcesReq); !reflect.DeepEqual(got, FallbackResources(resourcesReq)) {
		t.Errorf("resources = %+v, want fallback", got)
	}

	for _, r := range rec.records {
		if r.Source != model.SourceFallbackReactive {
			t.Errorf("%s source = %q, want %q", r.Operation, r.Source, model.SourceFallbackReactive)
		}
	}
}

func TestAdvisor_InsightsNullWrapperFallsBack(t *testing.T) {
	adv := NewAdvisor(&stubProvider{reply: `{"recommendations":null}`}, discardLogger())
	req := model.InsightsRequest{Interests: []string{"health"}}

	if got := adv.GenerateInsights(context.Background(), req); !reflect.DeepEqual(got, FallbackInsights(req)) {
		t.Errorf("insights = %+v, want fallback", got)
	}
}

func TestAdvisor_PromptErrorFallsBackWithoutCalling(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	rec := &memoryRecorder{}
	adv := NewAdvisor(provider, discardLogger(), WithRecorder(rec))

	got := generate(context.Background(), adv, bareRequest{op: model.OpRoadmap}, decodeText, func() string {
		return "fallback"
	})
	if got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
	if n := provider.calls.Load(); n != 0 {
		t.Errorf("provider called %d times, want 0", n)
	}
	if r := rec.last(t); r.Source != model.SourceFallbackReactive {
		t.Errorf("source = %q, want %q", r.Source, model.SourceFallbackReactive)
	}
}

func TestAdvisor_PartialReplyEncodesEmptyLists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		reply string
		run   func(adv *Advisor) any
		want  []string
	}{
		{
			name:  "roadmap",
			reply: `{"title":"x"}`,
			run:   func(adv *Advisor) any { return adv.GenerateRoadmap(ctx, model.RoadmapRequest{Title: "x"}) },
			want:  []string{`"phases":[]`},
		},
		{
			name:  "roadmap phase",
			reply: `{"title":"x","phases":[{"phase":1,"title":"Start"}]}`,
			run:   func(adv *Advisor) any { return adv.GenerateRoadmap(ctx, model.RoadmapRequest{Title: "x"}) },
			want:  []string{`"skills":[]`, `"resources":[]`, `"milestones":[]`},
		},
		{
			name:  "resources",
			reply: `{"videos":[{"title":"Intro"}]}`,
			run:   func(adv *Advisor) any { return adv.GenerateLearningResources(ctx, model.ResourcesRequest{Title: "x"}) },
			want:  []string{`"jobs":[]`, `"news":[]`},
		},
		{
			name:  "explanation",
			reply: `{"summary":"fits"}`,
			run:   func(adv *Advisor) any { return adv.ExplainRecommendation(ctx, model.ExplanationRequest{Title: "x"}) },
			want:  []string{`"strengths":[]`, `"gaps":[]`, `"nextSteps":[]`},
		},
		{
			name:  "analysis",
			reply: `{"summary":"curious"}`,
			run:   func(adv *Advisor) any { return adv.AnalyzeCareerPath(ctx, model.AnalysisRequest{}) },
			want:  []string{`"personalityTraits":[]`, `"recommendedCareers":[]`, `"skillsToDevelop":[]`},
		},
		{
			name:  "insights",
			reply: `[{"title":"Nurse"}]`,
			run:   func(adv *Advisor) any { return adv.GenerateInsights(ctx, model.InsightsRequest{}) },
			want:  []string{`"requiredSkills":[]`, `"reasons":[]`},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &memoryRecorder{}
			adv := NewAdvisor(&stubProvider{reply: tc.reply}, discardLogger(), WithRecorder(rec))

			b, err := json.Marshal(tc.run(adv))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if strings.Contains(string(b), "null") {
				t.Errorf("result contains null: %s", b)
			}
			for _, w := range tc.want {
				if !strings.Contains(string(b), w) {
					t.Errorf("result missing %s: %s", w, b)
				}
			}
			if r := rec.last(t); r.Source != model.SourceModel {
				t.Errorf("source = %q, want %q", r.Source, model.SourceModel)
			}
		})
	}
}

func TestAdvisor_DeadlineFallsBack(t *testing.T) {
	adv := NewAdvisor(blockingProvider{}, discardLogger(), WithDeadline(20*time.Millisecond))
	req := model.ExplanationRequest{Title: "Chef", MatchScore: 77}

	got := adv.ExplainRecommendation(context.Background(), req)

	if !reflect.DeepEqual(got, FallbackExplanation(req)) {
		t.Errorf("explanation = %+v, want fallback", got)
	}
}

func TestAdvisor_DeadlineFromBudgetAllowsEveryAttempt(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:   7,
		BaseDelay:    time.Millisecond,
		DelayOffset:  time.Millisecond,
		RateLimitMin: time.Millisecond,
	}
	inner := &stubProvider{err: &model.HTTPError{StatusCode: http.StatusBadGateway}}
	provider := retry.NewRetryProvider(inner, policy, discardLogger())
	adv := NewAdvisor(provider, discardLogger(), WithDeadline(policy.Budget(20*time.Millisecond)))

	adv.GenerateRoadmap(context.Background(), model.RoadmapRequest{Title: "SRE"})

	if got := inner.calls.Load(); got != 8 {
		t.Errorf("provider calls = %d, want 8", got)
	}
}

func TestAdvisor_ChatTrimsReply(t *testing.T) {
	provider := &stubProvider{reply: "  Start with a networking course.\n"}
	adv := NewAdvisor(provider, discardLogger())

	got := adv.Chat(context.Background(), model.ChatRequest{Message: "How do I start?"})

	if got != "Start with a networking course." {
		t.Errorf("chat = %q", got)
	}
	if provider.last.ExpectJSON {
		t.Error("chat completion expects JSON")
	}
}

func TestAdvisor_ChatEmptyReplyFallsBack(t *testing.T) {
	adv := NewAdvisor(&stubProvider{reply: "   "}, discardLogger())
	if got := adv.Chat(context.Background(), model.ChatRequest{Message: "hi"}); got != FallbackChat(model.ChatRequest{}) {
		t.Errorf("chat = %q, want fallback", got)
	}
}

func TestAdvisor_ResourcesAugmented(t *testing.T) {
	listings := []model.JobListing{{Title: "Cloud Engineer", Company: "Acme", URL: "https://acme.example/jobs/1"}}
	searcher := &stubSearcher{jobs: listings}
	adv := NewAdvisor(nil, discardLogger(),
		WithAugmenter(NewJobAugmenter(searcher, 5, time.Second, discardLogger())))

	got := adv.GenerateLearningResources(context.Background(), model.ResourcesRequest{Title: "Cloud Engineer"})

	if !reflect.DeepEqual(got.Jobs, listings) {
		t.Errorf("jobs = %+v, want search results", got.Jobs)
	}
	if searcher.query.Title != "Cloud Engineer" || searcher.query.Limit != 5 {
		t.Errorf("query = %+v", searcher.query)
	}
	want := FallbackResources(model.ResourcesRequest{Title: "Cloud Engineer"})
	if !reflect.DeepEqual(got.Videos, want.Videos) || !reflect.DeepEqual(got.News, want.News) {
		t.Error("augmentation changed videos or news")
	}
}

func TestAdvisor_WithRetryAgainstServer(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	policy := retry.Policy{MaxRetries: 7, BaseDelay: time.Millisecond, RateLimitMin: time.Millisecond}
	provider := retry.NewRetryProvider(NewHTTPProvider(srv.URL, "key", "model", srv.Client()), policy, discardLogger())
	adv := NewAdvisor(provider, discardLogger())
	req := model.AnalysisRequest{Answers: []model.Answer{{Question: "q", Answer: "a"}}}

	got := adv.AnalyzeCareerPath(context.Background(), req)

	if !reflect.DeepEqual(got, FallbackAnalysis(req)) {
		t.Errorf("analysis = %+v, want fallback", got)
	}
	if hits.Load() != 8 {
		t.Errorf("server hits = %d, want 8", hits.Load())
	}
}
