package model

// Closed vocabularies the model is asked to choose from.
var (
	Difficulties   = []string{"Beginner", "Intermediate", "Advanced", "Expert"}
	GrowthOutlooks = []string{"High", "Medium", "Low"}
)

// CareerRecommendation is one suggested career for a profile.
type CareerRecommendation struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	MatchScore     int      `json:"matchScore"`
	RequiredSkills []string `json:"requiredSkills"`
	SalaryRange    string   `json:"salaryRange"`
	GrowthOutlook  string   `json:"growthOutlook"`
	Reasons        []string `json:"reasons"`
}

// RoadmapPlan is an ordered, phased learning plan.
type RoadmapPlan struct {
	Title     string         `json:"title"`
	Timeframe string         `json:"timeframe"`
	Summary   string         `json:"summary"`
	Phases    []RoadmapPhase `json:"phases"`
}

// RoadmapPhase is one step of a RoadmapPlan.
type RoadmapPhase struct {
	Phase      int      `json:"phase"`
	Title      string   `json:"title"`
	Duration   string   `json:"duration"`
	Difficulty string   `json:"difficulty"`
	Skills     []string `json:"skills"`
	Resources  []string `json:"resources"`
	Milestones []string `json:"milestones"`
}

// Explanation describes how well a recommendation fits the user.
type Explanation struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
	NextSteps  []string `json:"nextSteps"`
	MatchScore int      `json:"matchScore"`
}

// LearningResources groups videos, job listings and news for a career.
type LearningResources struct {
	Videos []Video      `json:"videos"`
	Jobs   []JobListing `json:"jobs"`
	News   []NewsItem   `json:"news"`
}

type Video struct {
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	URL      string `json:"url"`
	Duration string `json:"duration"`
}

// JobListing is a job posting, either suggested by the model or returned by a
// job search source.
type JobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type NewsItem struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// CareerAnalysis is the result of analyzing questionnaire answers.
type CareerAnalysis struct {
	Summary            string        `json:"summary"`
	PersonalityTraits  []string      `json:"personalityTraits"`
	Strengths          []string      `json:"strengths"`
	RecommendedCareers []CareerMatch `json:"recommendedCareers"`
	SkillsToDevelop    []string      `json:"skillsToDevelop"`
	NextSteps          []string      `json:"nextSteps"`
}

type CareerMatch struct {
	Title      string `json:"title"`
	MatchScore int    `json:"matchScore"`
	Reason     string `json:"reason"`
}

// EnsureLists replaces nil list fields with empty ones so a result always
// encodes its lists as arrays, never null.
func (r *CareerRecommendation) EnsureLists() {
	r.RequiredSkills = orEmpty(r.RequiredSkills)
	r.Reasons = orEmpty(r.Reasons)
}

func (p *RoadmapPlan) EnsureLists() {
	p.Phases = orEmpty(p.Phases)
	for i := range p.Phases {
		ph := &p.Phases[i]
		ph.Skills = orEmpty(ph.Skills)
		ph.Resources = orEmpty(ph.Resources)
		ph.Milestones = orEmpty(ph.Milestones)
	}
}

func (e *Explanation) EnsureLists() {
	e.Strengths = orEmpty(e.Strengths)
	e.Gaps = orEmpty(e.Gaps)
	e.NextSteps = orEmpty(e.NextSteps)
}

func (l *LearningResources) EnsureLists() {
	l.Videos = orEmpty(l.Videos)
	l.Jobs = orEmpty(l.Jobs)
	l.News = orEmpty(l.News)
}

func (a *CareerAnalysis) EnsureLists() {
	a.PersonalityTraits = orEmpty(a.PersonalityTraits)
	a.Strengths = orEmpty(a.Strengths)
	a.RecommendedCareers = orEmpty(a.RecommendedCareers)
	a.SkillsToDevelop = orEmpty(a.SkillsToDevelop)
	a.NextSteps = orEmpty(a.NextSteps)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
