// Package history persists analysis run records under .guardrails/.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/guardrails/guardrails/internal/domain"
)

// Store is a file-based implementation of domain.HistoryStore.
type Store struct{}

func New() *Store {
	return &Store{}
}

// Append adds a record to the project's history file, creating it as
// needed.
func (s *Store) Append(projectPath string, record domain.RunRecord) error {
	records, err := s.load(projectPath)
	if err != nil {
		return err
	}
	records = append(records, record)

	dir := filepath.Join(projectPath, ".guardrails")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(historyPath(projectPath), data, 0644)
}

// List returns the most recent records, newest last. limit <= 0 returns
// everything.
func (s *Store) List(projectPath string, limit int) ([]domain.RunRecord, error) {
	records, err := s.load(projectPath)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

func (s *Store) load(projectPath string) ([]domain.RunRecord, error) {
	data, err := os.ReadFile(historyPath(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func historyPath(projectPath string) string {
	return filepath.Join(projectPath, ".guardrails", "history.json")
}
