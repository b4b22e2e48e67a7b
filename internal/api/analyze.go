package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nyashahama/culture-guard/internal/culture"
)

const (
	headerAnalysisID     = "X-Analysis-ID"
	headerAnalysisSource = "X-Analysis-Source"
)

// ─── POST /analyze ────────────────────────────────────────────────────────────

type analyzeRequest struct {
	Text    string `json:"text"`
	Country string `json:"country"`
}

func (req analyzeRequest) validate() string {
	switch {
	case strings.TrimSpace(req.Text) == "":
		return "text is required"
	case req.Country == "":
		return "country is required"
	case !culture.IsValidTarget(req.Country):
		return "unsupported country: " + req.Country
	}
	return ""
}

// handleAnalyze runs the analyzer for one message. Every valid request gets a
// 200 with a non-empty array: provider failures degrade to the heuristic
// engine inside the analyzer and never surface here.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.New()
	results, source := s.analyzer.Analyze(r.Context(), req.Text, req.Country)

	risky := 0
	for _, res := range results {
		if res.IsRisky() {
			risky++
		}
	}
	s.logger.Info("analysis complete",
		"analysis_id", id,
		"country", req.Country,
		"source", source,
		"results", len(results),
		"risky", risky,
		logField(r),
	)

	w.Header().Set(headerAnalysisID, id.String())
	w.Header().Set(headerAnalysisSource, string(source))
	respond(w, http.StatusOK, results)
}

// ─── GET /countries ───────────────────────────────────────────────────────────

type countriesResponse struct {
	Countries []string `json:"countries"`
}

// handleListCountries returns the dropdown options: the AllCountries sentinel
// followed by every supported country in display order.
func (s *Server) handleListCountries(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, countriesResponse{
		Countries: append([]string{culture.AllCountries}, culture.Countries()...),
	})
}
