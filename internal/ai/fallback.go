package ai

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/careerpath/internal/model"
)

// The Fallback* functions return canned results with the same shape as a
// model reply. They do no I/O and return equal values for equal requests.

// FallbackInsights returns three general-purpose career recommendations.
func FallbackInsights(req model.InsightsRequest) []model.CareerRecommendation {
	skills := firstN(req.Skills, 2)
	reason := "Builds on a broad, transferable skill set"
	if len(skills) > 0 {
		reason = "Builds on your experience with " + strings.Join(skills, " and ")
	}
	interest := "technology"
	if len(req.Interests) > 0 {
		interest = req.Interests[0]
	}

	return []model.CareerRecommendation{
		{
			Title:          "Software Developer",
			Description:    "Designs, builds and maintains applications and services.",
			MatchScore:     85,
			RequiredSkills: []string{"Programming", "Problem Solving", "Version Control", "Testing"},
			SalaryRange:    "$70,000 - $120,000",
			GrowthOutlook:  "High",
			Reasons:        []string{reason, "Strong demand across industries"},
		},
		{
			Title:          "Data Analyst",
			Description:    "Turns raw data into insights that guide business decisions.",
			MatchScore:     78,
			RequiredSkills: []string{"SQL", "Spreadsheets", "Statistics", "Data Visualization"},
			SalaryRange:    "$60,000 - $95,000",
			GrowthOutlook:  "High",
			Reasons:        []string{"Combines analytical thinking with an interest in " + interest, "Clear entry paths through certificates and projects"},
		},
		{
			Title:          "Project Coordinator",
			Description:    "Keeps teams, timelines and stakeholders aligned on delivery.",
			MatchScore:     70,
			RequiredSkills: []string{"Communication", "Planning", "Organization", "Stakeholder Management"},
			SalaryRange:    "$50,000 - $80,000",
			GrowthOutlook:  "Medium",
			Reasons:        []string{"Rewards organization and communication", "A common step toward project and product management"},
		},
	}
}

var phaseTemplates = []struct {
	title      string
	resources  []string
	milestones []string
}{
	{"Foundations", []string{"Introductory online course", "Official documentation"}, []string{"Complete an introductory course", "Set up a learning routine"}},
	{"Core Skills", []string{"Intermediate course or book", "Guided practice exercises"}, []string{"Build a small practice project", "Share progress publicly"}},
	{"Applied Projects", []string{"Open-source repositories", "Project-based tutorials"}, []string{"Ship a portfolio project", "Get feedback from a practitioner"}},
	{"Career Launch", []string{"Industry communities", "Interview preparation guides"}, []string{"Polish resume and portfolio", "Apply to targeted roles"}},
}

// FallbackRoadmap returns a four-phase plan that spreads the missing target
// skills across the phases.
func FallbackRoadmap(req model.RoadmapRequest) model.RoadmapPlan {
	missing := missingSkills(req.CurrentSkills, req.TargetSkills)
	buckets := make([][]string, len(phaseTemplates))
	for i, s := range missing {
		buckets[i%len(buckets)] = append(buckets[i%len(buckets)], s)
	}

	title := orDefault(req.Title, "your target role")
	timeframe := orDefault(req.Timeframe, "6 months")
	duration := phaseDuration(timeframe, len(phaseTemplates))

	phases := make([]model.RoadmapPhase, 0, len(phaseTemplates))
	for i, pt := range phaseTemplates {
		skills := buckets[i]
		if len(skills) == 0 {
			skills = []string{pt.title + " for " + title}
		}
		phases = append(phases, model.RoadmapPhase{
			Phase:      i + 1,
			Title:      pt.title,
			Duration:   duration,
			Difficulty: model.Difficulties[i],
			Skills:     skills,
			Resources:  append([]string(nil), pt.resources...),
			Milestones: append([]string(nil), pt.milestones...),
		})
	}

	return model.RoadmapPlan{
		Title:     "Roadmap to " + title,
		Timeframe: timeframe,
		Summary:   fmt.Sprintf("A %d-phase plan to become a %s within %s.", len(phases), title, timeframe),
		Phases:    phases,
	}
}

// FallbackExplanation explains a recommendation using only the request fields.
func FallbackExplanation(req model.ExplanationRequest) model.Explanation {
	title := orDefault(req.Title, "this career")
	strengths := []string{"Willingness to learn new skills"}
	if skills := firstN(req.UserSkills, 3); len(skills) > 0 {
		strengths = nil
		for _, s := range skills {
			strengths = append(strengths, "Existing experience with "+s)
		}
	}
	if len(req.UserInterests) > 0 {
		strengths = append(strengths, "Interest in "+req.UserInterests[0])
	}

	return model.Explanation{
		Summary:    fmt.Sprintf("%s is a %d%% match based on your skills and interests.", title, req.MatchScore),
		Strengths:  strengths,
		Gaps:       []string{"Hands-on experience specific to " + title, "Familiarity with industry tools and workflows"},
		NextSteps:  []string{"Research day-to-day responsibilities of a " + title, "Take an introductory course", "Talk to someone working as a " + title},
		MatchScore: req.MatchScore,
	}
}

// FallbackResources returns search links built from the career title.
func FallbackResources(req model.ResourcesRequest) model.LearningResources {
	title := orDefault(req.Title, "career development")
	stage := orDefault(req.Stage, "beginner")
	q := url.QueryEscape(title)
	qs := url.QueryEscape(title + " " + stage)

	return model.LearningResources{
		Videos: []model.Video{
			{Title: title + " for " + stage + "s", Channel: "YouTube", URL: "https://www.youtube.com/results?search_query=" + qs, Duration: "varies"},
			{Title: "A day in the life of a " + title, Channel: "YouTube", URL: "https://www.youtube.com/results?search_query=" + url.QueryEscape("day in the life "+title), Duration: "varies"},
			{Title: "How to become a " + title, Channel: "YouTube", URL: "https://www.youtube.com/results?search_query=" + url.QueryEscape("how to become "+title), Duration: "varies"},
		},
		Jobs: []model.JobListing{
			{Title: title, Company: "Various companies", Location: "Remote / Multiple locations", Description: "Browse current " + title + " openings on LinkedIn.", URL: "https://www.linkedin.com/jobs/search/?keywords=" + q},
			{Title: title, Company: "Various companies", Location: "Multiple locations", Description: "Browse current " + title + " openings on Indeed.", URL: "https://www.indeed.com/jobs?q=" + q},
			{Title: "Junior " + title, Company: "Various companies", Location: "Multiple locations", Description: "Entry-level " + title + " roles on Glassdoor.", URL: "https://www.glassdoor.com/Job/jobs.htm?sc.keyword=" + q},
		},
		News: []model.NewsItem{
			{Title: "Latest news about " + title + " careers", Source: "Google News", URL: "https://news.google.com/search?q=" + q, Summary: "Recent articles and industry updates."},
			{Title: title + " industry trends", Source: "Google News", URL: "https://news.google.com/search?q=" + url.QueryEscape(title+" trends"), Summary: "Trends shaping demand for " + title + " roles."},
		},
	}
}

// FallbackAnalysis returns a generic analysis that acknowledges how many
// answers were given.
func FallbackAnalysis(req model.AnalysisRequest) model.CareerAnalysis {
	return model.CareerAnalysis{
		Summary:           fmt.Sprintf("Based on your %d answers, you show a balance of analytical and interpersonal strengths.", len(req.Answers)),
		PersonalityTraits: []string{"Curious", "Detail-oriented", "Collaborative"},
		Strengths:         []string{"Problem solving", "Communication", "Adaptability"},
		RecommendedCareers: []model.CareerMatch{
			{Title: "Software Developer", MatchScore: 82, Reason: "Rewards curiosity and structured problem solving."},
			{Title: "Data Analyst", MatchScore: 78, Reason: "Fits a detail-oriented, analytical working style."},
			{Title: "UX Designer", MatchScore: 72, Reason: "Combines creativity with empathy for users."},
		},
		SkillsToDevelop: []string{"Programming fundamentals", "Data literacy", "Presentation skills"},
		NextSteps:       []string{"Explore the recommended careers in depth", "Try a short introductory course", "Build a small project to test your interest"},
	}
}

// FallbackChat is the reply used when the assistant cannot reach the model.
func FallbackChat(req model.ChatRequest) string {
	return "I'm having trouble reaching the career assistant right now. In the meantime, try exploring " +
		"your career recommendations, generating a roadmap for a role you like, or browsing learning " +
		"resources. Please ask again in a few minutes."
}

// Fallback dispatches to the fallback function for req's operation.
func Fallback(req model.GenerationRequest) any {
	switch r := req.(type) {
	case model.InsightsRequest:
		return FallbackInsights(r)
	case model.RoadmapRequest:
		return FallbackRoadmap(r)
	case model.ExplanationRequest:
		return FallbackExplanation(r)
	case model.ResourcesRequest:
		return FallbackResources(r)
	case model.AnalysisRequest:
		return FallbackAnalysis(r)
	case model.ChatRequest:
		return FallbackChat(r)
	default:
		return nil
	}
}

// missingSkills returns target skills not already in current, in target order,
// compared case-insensitively.
func missingSkills(current, target []string) []string {
	have := make(map[string]bool, len(current))
	for _, s := range current {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	var out []string
	for _, s := range target {
		if !have[strings.ToLower(strings.TrimSpace(s))] {
			out = append(out, s)
		}
	}
	return out
}

var timeframeRegex = regexp.MustCompile(`(?i)(\d+)\s*(day|week|month|year)`)

// phaseDuration splits a timeframe like "6 months" evenly across n phases.
func phaseDuration(timeframe string, n int) string {
	m := timeframeRegex.FindStringSubmatch(timeframe)
	if m == nil {
		return "4-6 weeks"
	}
	amount, _ := strconv.Atoi(m[1])
	unit := strings.ToLower(m[2])

	// Convert to weeks so short timeframes still split into whole units.
	weeks := amount
	switch unit {
	case "day":
		weeks = max(1, amount/7)
	case "month":
		weeks = amount * 4
	case "year":
		weeks = amount * 52
	}
	per := max(1, weeks/n)
	if per >= 8 && per%4 == 0 {
		return fmt.Sprintf("%d months", per/4)
	}
	if per == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", per)
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
