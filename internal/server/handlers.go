package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/careerpath/internal/model"
)

const (
	maxBodyBytes   = 1 << 20
	maxChatMessage = 4000
)

// decodeBody reads a JSON request body into dst. Unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req model.InsightsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if len(req.Skills) == 0 && len(req.Interests) == 0 && blank(req.CurrentRole) && blank(req.Goals) {
		writeBadRequest(w, r, "profile needs at least one of skills, interests, currentRole or goals")
		return
	}
	recs := s.advisor.GenerateInsights(r.Context(), req)
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	var req model.RoadmapRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if blank(req.Title) {
		writeBadRequest(w, r, "title is required")
		return
	}
	writeJSON(w, http.StatusOK, s.advisor.GenerateRoadmap(r.Context(), req))
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req model.ExplanationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if blank(req.Title) {
		writeBadRequest(w, r, "title is required")
		return
	}
	if req.MatchScore < 0 || req.MatchScore > 100 {
		writeBadRequest(w, r, "matchScore must be between 0 and 100")
		return
	}
	writeJSON(w, http.StatusOK, s.advisor.ExplainRecommendation(r.Context(), req))
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	var req model.ResourcesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if blank(req.Title) {
		writeBadRequest(w, r, "title is required")
		return
	}
	writeJSON(w, http.StatusOK, s.advisor.GenerateLearningResources(r.Context(), req))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if len(req.Answers) == 0 {
		writeBadRequest(w, r, "at least one answer is required")
		return
	}
	writeJSON(w, http.StatusOK, s.advisor.AnalyzeCareerPath(r.Context(), req))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, r, err.Error())
		return
	}
	if blank(req.Message) {
		writeBadRequest(w, r, "message is required")
		return
	}
	if len(req.Message) > maxChatMessage {
		writeBadRequest(w, r, fmt.Sprintf("message exceeds %d characters", maxChatMessage))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": s.advisor.Chat(r.Context(), req)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"aiConfigured": s.advisor.Configured(),
	})
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
