package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/model"
)

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var q model.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if q.Empty() {
		writeError(w, http.StatusBadRequest,
			"At least one of name, website, phone, or facebook must be provided")
		return
	}

	match, err := s.matcher.Match(r.Context(), q)
	if err != nil {
		zap.L().Error("server: match failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}
	if match == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"status":  "not_found",
			"message": "No matching company profile found",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"match":  match,
	})
}

// bulkResult pairs one input query with its match, if any.
type bulkResult struct {
	Input model.Query        `json:"input"`
	Match *model.MatchResult `json:"match"`
}

func (s *Server) handleBulkMatch(w http.ResponseWriter, r *http.Request) {
	var queries []model.Query
	if err := json.NewDecoder(r.Body).Decode(&queries); err != nil {
		writeError(w, http.StatusBadRequest, "Input must be a list of company data objects")
		return
	}

	results := make([]bulkResult, 0, len(queries))
	matched := 0
	for _, q := range queries {
		var match *model.MatchResult
		if !q.Empty() {
			var err error
			match, err = s.matcher.Match(r.Context(), q)
			if err != nil {
				zap.L().Error("server: bulk match failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "match failed")
				return
			}
		}
		if match != nil {
			matched++
		}
		results = append(results, bulkResult{Input: q, Match: match})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"match_count": matched,
		"total_count": len(results),
		"results":     results,
	})
}

func (s *Server) handleProcessCSV(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !isCSVFilename(header.Filename) {
		writeError(w, http.StatusBadRequest, "File must be a CSV")
		return
	}

	results, matched, err := s.processCSV(r.Context(), file)
	if err != nil {
		zap.L().Error("server: process csv failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("Error processing CSV: %s", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"match_rate":    fmt.Sprintf("%.2f%%", float64(matched)/float64(len(results))*100),
		"matched_count": matched,
		"total_count":   len(results),
		"results":       results,
	})
}
