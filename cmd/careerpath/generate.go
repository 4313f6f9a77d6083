package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/careerpath/internal/ai"
	"github.com/amishk599/careerpath/internal/model"
	"github.com/amishk599/careerpath/internal/tui"
)

var (
	insightsInput string
	insightsReq   model.InsightsRequest

	roadmapInput string
	roadmapReq   model.RoadmapRequest

	explainInput string
	explainReq   model.ExplanationRequest

	resourcesInput string
	resourcesReq   model.ResourcesRequest

	analyzeInput   string
	analyzeAnswers []string
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Recommend careers for a profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := insightsReq
		if err := readInput(insightsInput, cmd.InOrStdin(), &req); err != nil {
			return err
		}
		mergeInsightsFlags(cmd, &req)
		return runGeneration(cmd, "Finding careers that fit", func(ctx context.Context, adv *ai.Advisor) any {
			return map[string]any{"recommendations": adv.GenerateInsights(ctx, req)}
		})
	},
}

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Build a phased learning roadmap toward a career",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.RoadmapRequest{}
		if err := readInput(roadmapInput, cmd.InOrStdin(), &req); err != nil {
			return err
		}
		overrideString(cmd, "title", &req.Title, roadmapReq.Title)
		overrideString(cmd, "timeframe", &req.Timeframe, roadmapReq.Timeframe)
		overrideSlice(cmd, "current", &req.CurrentSkills, roadmapReq.CurrentSkills)
		overrideSlice(cmd, "target", &req.TargetSkills, roadmapReq.TargetSkills)
		if strings.TrimSpace(req.Title) == "" {
			return fmt.Errorf("a career title is required (--title or \"title\" in --input)")
		}
		return runGeneration(cmd, "Building roadmap", func(ctx context.Context, adv *ai.Advisor) any {
			return adv.GenerateRoadmap(ctx, req)
		})
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain why a recommended career fits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.ExplanationRequest{}
		if err := readInput(explainInput, cmd.InOrStdin(), &req); err != nil {
			return err
		}
		overrideString(cmd, "title", &req.Title, explainReq.Title)
		overrideString(cmd, "description", &req.Description, explainReq.Description)
		overrideSlice(cmd, "skills", &req.UserSkills, explainReq.UserSkills)
		overrideSlice(cmd, "interests", &req.UserInterests, explainReq.UserInterests)
		if cmd.Flags().Changed("score") {
			req.MatchScore = explainReq.MatchScore
		}
		if strings.TrimSpace(req.Title) == "" {
			return fmt.Errorf("a career title is required (--title or \"title\" in --input)")
		}
		if req.MatchScore < 0 || req.MatchScore > 100 {
			return fmt.Errorf("--score must be between 0 and 100, got %d", req.MatchScore)
		}
		return runGeneration(cmd, "Explaining match", func(ctx context.Context, adv *ai.Advisor) any {
			return adv.ExplainRecommendation(ctx, req)
		})
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Suggest videos, job listings and news for a career",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.ResourcesRequest{}
		if err := readInput(resourcesInput, cmd.InOrStdin(), &req); err != nil {
			return err
		}
		overrideString(cmd, "title", &req.Title, resourcesReq.Title)
		overrideString(cmd, "stage", &req.Stage, resourcesReq.Stage)
		overrideSlice(cmd, "interests", &req.Interests, resourcesReq.Interests)
		if strings.TrimSpace(req.Title) == "" {
			return fmt.Errorf("a career title is required (--title or \"title\" in --input)")
		}
		return runGeneration(cmd, "Gathering resources", func(ctx context.Context, adv *ai.Advisor) any {
			return adv.GenerateLearningResources(ctx, req)
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze questionnaire answers",
	Long: "Analyze questionnaire answers given as repeated --answer \"question=answer\" flags\n" +
		"or as {\"answers\": [{\"question\": ..., \"answer\": ...}]} in --input.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.AnalysisRequest{}
		if err := readInput(analyzeInput, cmd.InOrStdin(), &req); err != nil {
			return err
		}
		answers, err := parseAnswers(analyzeAnswers)
		if err != nil {
			return err
		}
		req.Answers = append(req.Answers, answers...)
		if len(req.Answers) == 0 {
			return fmt.Errorf("at least one answer is required")
		}
		return runGeneration(cmd, "Analyzing answers", func(ctx context.Context, adv *ai.Advisor) any {
			return adv.AnalyzeCareerPath(ctx, req)
		})
	},
}

func init() {
	f := insightsCmd.Flags()
	f.StringVarP(&insightsInput, "input", "i", "", "JSON request file (\"-\" for stdin)")
	f.StringVar(&insightsReq.Name, "name", "", "your name")
	f.StringVar(&insightsReq.CurrentRole, "role", "", "current role")
	f.StringVar(&insightsReq.Education, "education", "", "education background")
	f.StringVar(&insightsReq.Experience, "experience", "", "work experience")
	f.StringVar(&insightsReq.Goals, "goals", "", "career goals")
	f.StringSliceVar(&insightsReq.Skills, "skills", nil, "skills (comma separated)")
	f.StringSliceVar(&insightsReq.Interests, "interests", nil, "interests (comma separated)")

	f = roadmapCmd.Flags()
	f.StringVarP(&roadmapInput, "input", "i", "", "JSON request file (\"-\" for stdin)")
	f.StringVar(&roadmapReq.Title, "title", "", "target career title")
	f.StringVar(&roadmapReq.Timeframe, "timeframe", "", "time available, e.g. \"6 months\"")
	f.StringSliceVar(&roadmapReq.CurrentSkills, "current", nil, "skills you already have")
	f.StringSliceVar(&roadmapReq.TargetSkills, "target", nil, "skills to acquire")

	f = explainCmd.Flags()
	f.StringVarP(&explainInput, "input", "i", "", "JSON request file (\"-\" for stdin)")
	f.StringVar(&explainReq.Title, "title", "", "recommended career title")
	f.StringVar(&explainReq.Description, "description", "", "career description")
	f.StringSliceVar(&explainReq.UserSkills, "skills", nil, "your skills")
	f.StringSliceVar(&explainReq.UserInterests, "interests", nil, "your interests")
	f.IntVar(&explainReq.MatchScore, "score", 0, "match score (0-100)")

	f = resourcesCmd.Flags()
	f.StringVarP(&resourcesInput, "input", "i", "", "JSON request file (\"-\" for stdin)")
	f.StringVar(&resourcesReq.Title, "title", "", "career title")
	f.StringVar(&resourcesReq.Stage, "stage", "", "career stage, e.g. beginner")
	f.StringSliceVar(&resourcesReq.Interests, "interests", nil, "topics of interest")

	f = analyzeCmd.Flags()
	f.StringVarP(&analyzeInput, "input", "i", "", "JSON request file (\"-\" for stdin)")
	f.StringArrayVarP(&analyzeAnswers, "answer", "a", nil, "answer as \"question=answer\" (repeatable)")

	rootCmd.AddCommand(insightsCmd, roadmapCmd, explainCmd, resourcesCmd, analyzeCmd)
}

// runGeneration builds the advisor, runs fn (behind a spinner on interactive
// terminals) and prints its result as indented JSON.
func runGeneration(cmd *cobra.Command, label string, fn func(ctx context.Context, adv *ai.Advisor) any) error {
	a, err := newApp(setupLogger(debug))
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := withSpinner(cmd.Context(), label, func(ctx context.Context) any {
		return fn(ctx, a.advisor)
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

// withSpinner shows a spinner on stderr while fn runs, but only when stderr is
// a terminal and debug logs are not being written there.
func withSpinner[T any](ctx context.Context, label string, fn func(ctx context.Context) T) (T, error) {
	if debug || !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn(ctx), nil
	}
	return tui.RunLoader(ctx, os.Stderr, label, fn)
}

// readInput decodes a JSON request from path into dst. An empty path is a
// no-op and "-" reads stdin.
func readInput(path string, stdin io.Reader, dst any) error {
	if path == "" {
		return nil
	}
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("parse input %s: %w", path, err)
	}
	return nil
}

func mergeInsightsFlags(cmd *cobra.Command, req *model.InsightsRequest) {
	overrideString(cmd, "name", &req.Name, insightsReq.Name)
	overrideString(cmd, "role", &req.CurrentRole, insightsReq.CurrentRole)
	overrideString(cmd, "education", &req.Education, insightsReq.Education)
	overrideString(cmd, "experience", &req.Experience, insightsReq.Experience)
	overrideString(cmd, "goals", &req.Goals, insightsReq.Goals)
	overrideSlice(cmd, "skills", &req.Skills, insightsReq.Skills)
	overrideSlice(cmd, "interests", &req.Interests, insightsReq.Interests)
}

// overrideString sets *dst to v when the named flag was given explicitly.
func overrideString(cmd *cobra.Command, flag string, dst *string, v string) {
	if cmd.Flags().Changed(flag) {
		*dst = v
	}
}

func overrideSlice(cmd *cobra.Command, flag string, dst *[]string, v []string) {
	if cmd.Flags().Changed(flag) {
		*dst = v
	}
}

// parseAnswers turns "question=answer" pairs into answers, keeping order.
func parseAnswers(pairs []string) ([]model.Answer, error) {
	answers := make([]model.Answer, 0, len(pairs))
	for _, p := range pairs {
		q, a, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("invalid --answer %q: want \"question=answer\"", p)
		}
		answers = append(answers, model.Answer{Question: strings.TrimSpace(q), Answer: strings.TrimSpace(a)})
	}
	return answers, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
