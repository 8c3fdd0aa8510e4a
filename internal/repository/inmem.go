package repository

import (
	"sync"

	"upbit-gem-screener/internal/domain"
)

// InMemoryReportRepository holds the latest screening report. Each run
// replaces the previous snapshot wholesale; reports are read-only once
// saved.
type InMemoryReportRepository struct {
	report domain.Report
	mu     sync.RWMutex
}

func NewInMemoryReportRepository() *InMemoryReportRepository {
	return &InMemoryReportRepository{}
}

func (r *InMemoryReportRepository) SaveReport(report domain.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
}

func (r *InMemoryReportRepository) GetReport() domain.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Shallow-copy the candidate slice so callers cannot reorder the
	// stored report; Candidate itself is a value type.
	out := r.report
	out.Candidates = make([]domain.Candidate, len(r.report.Candidates))
	copy(out.Candidates, r.report.Candidates)
	return out
}
