package application

import (
	"time"

	"github.com/guardrails/guardrails/internal/domain"
)

// HistoryService records analysis runs, stamped with the current commit
// when the project is a git repository.
type HistoryService struct {
	store domain.HistoryStore
	git   domain.GitInfo
}

func NewHistoryService(store domain.HistoryStore, git domain.GitInfo) *HistoryService {
	return &HistoryService{store: store, git: git}
}

// Record persists one run record.
func (s *HistoryService) Record(projectRoot string, report *domain.AnalysisReport) error {
	record := domain.RunRecord{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Type:      report.Type,
		Issues:    report.IssueCount(),
		Success:   report.Success,
	}
	if hash, ok := s.git.HeadCommit(projectRoot); ok {
		record.CommitHash = hash
	}
	return s.store.Append(projectRoot, record)
}

// Recent returns the latest records, newest last.
func (s *HistoryService) Recent(projectRoot string, limit int) ([]domain.RunRecord, error) {
	return s.store.List(projectRoot, limit)
}
