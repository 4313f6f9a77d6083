package ai

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/amishk599/careerpath/internal/model"
)

//go:embed prompts/*.tmpl
var promptFiles embed.FS

var promptFuncs = template.FuncMap{
	"list": func(items []string) string {
		if len(items) == 0 {
			return "none specified"
		}
		return strings.Join(items, ", ")
	},
	"value": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "not specified"
		}
		return s
	},
	"choices": func(items []string) string {
		return `"` + strings.Join(items, `" | "`) + `"`
	},
	"add1": func(i int) int { return i + 1 },
}

// promptTemplates holds one template per operation, parsed once at package init.
var promptTemplates = template.Must(template.New("prompts").Funcs(promptFuncs).ParseFS(promptFiles, "prompts/*.tmpl"))

// OperationParams are the transport settings used for each operation.
var OperationParams = map[model.Operation]struct {
	Temperature float64
	MaxTokens   int
}{
	model.OpInsights:    {0.7, 2000},
	model.OpRoadmap:     {0.7, 3000},
	model.OpExplanation: {0.5, 1200},
	model.OpResources:   {0.6, 2000},
	model.OpAnalysis:    {0.7, 2500},
	model.OpChat:        {0.8, 800},
}

// promptData is what every template receives.
type promptData struct {
	Req            model.GenerationRequest
	Difficulties   []string
	GrowthOutlooks []string
}

// BuildPrompt renders req into the instruction sent to the model. The same
// request always produces the same string.
func BuildPrompt(req model.GenerationRequest) (string, error) {
	var buf bytes.Buffer
	err := promptTemplates.ExecuteTemplate(&buf, string(req.Operation())+".tmpl", promptData{
		Req:            req,
		Difficulties:   model.Difficulties,
		GrowthOutlooks: model.GrowthOutlooks,
	})
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", req.Operation(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// NewCompletion builds the transport call for req.
func NewCompletion(req model.GenerationRequest) (model.Completion, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return model.Completion{}, err
	}
	params := OperationParams[req.Operation()]
	return model.Completion{
		Prompt:      prompt,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		ExpectJSON:  req.Operation() != model.OpChat,
	}, nil
}
