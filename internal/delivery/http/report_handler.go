package http

import (
	"encoding/json"
	"net/http"

	"upbit-gem-screener/internal/domain"
)

type ReportHandler struct {
	repo domain.ReportRepository
}

func NewReportHandler(repo domain.ReportRepository) *ReportHandler {
	return &ReportHandler{repo: repo}
}

// HandleReport serves the latest full screening report.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, h.repo.GetReport())
}

// HandleCandidates serves only the ranked candidate list.
func (h *ReportHandler) HandleCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := h.repo.GetReport()
	candidates := report.Candidates
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	writeJSON(w, candidates)
}

// HandleCriteria serves the criteria the latest report was screened
// with, falling back to the defaults before the first cycle finishes.
func (h *ReportHandler) HandleCriteria(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := h.repo.GetReport()
	if report.Timestamp.IsZero() {
		writeJSON(w, domain.DefaultCriteria())
		return
	}
	writeJSON(w, report.Criteria)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
