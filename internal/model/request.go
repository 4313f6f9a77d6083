package model

// Operation identifies one kind of generation the advisor can perform.
type Operation string

const (
	OpInsights    Operation = "insights"
	OpRoadmap     Operation = "roadmap"
	OpExplanation Operation = "explanation"
	OpResources   Operation = "resources"
	OpAnalysis    Operation = "analysis"
	OpChat        Operation = "chat"
)

// Operations lists every operation in a stable order.
var Operations = []Operation{OpInsights, OpRoadmap, OpExplanation, OpResources, OpAnalysis, OpChat}

// GenerationRequest is implemented by every operation-specific request.
type GenerationRequest interface {
	Operation() Operation
}

// InsightsRequest carries the profile fields used to recommend careers.
type InsightsRequest struct {
	Name        string   `json:"name"`
	CurrentRole string   `json:"currentRole"`
	Education   string   `json:"education"`
	Experience  string   `json:"experience"`
	Goals       string   `json:"goals"`
	Skills      []string `json:"skills"`
	Interests   []string `json:"interests"`
}

// RoadmapRequest asks for a phased plan toward a target career.
type RoadmapRequest struct {
	Title         string   `json:"title"`
	CurrentSkills []string `json:"currentSkills"`
	TargetSkills  []string `json:"targetSkills"`
	Timeframe     string   `json:"timeframe"`
}

// ExplanationRequest asks why a recommendation fits the user.
type ExplanationRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	UserSkills    []string `json:"userSkills"`
	UserInterests []string `json:"userInterests"`
	MatchScore    int      `json:"matchScore"`
}

// ResourcesRequest asks for videos, jobs and news for a career at a given stage.
type ResourcesRequest struct {
	Title     string   `json:"title"`
	Stage     string   `json:"stage"`
	Interests []string `json:"interests"`
}

// Answer is one questionnaire question with the user's answer.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnalysisRequest carries raw questionnaire answers in the order they were asked.
type AnalysisRequest struct {
	Answers []Answer `json:"answers"`
}

// ChatRequest is a single free-form message to the advisor.
type ChatRequest struct {
	Message string `json:"message"`
}

func (InsightsRequest) Operation() Operation    { return OpInsights }
func (RoadmapRequest) Operation() Operation     { return OpRoadmap }
func (ExplanationRequest) Operation() Operation { return OpExplanation }
func (ResourcesRequest) Operation() Operation   { return OpResources }
func (AnalysisRequest) Operation() Operation    { return OpAnalysis }
func (ChatRequest) Operation() Operation        { return OpChat }
