package storage

import (
	"time"

	"github.com/codewithboateng/speclint/internal/model"
)

// RunRow is a lightweight listing row for /runs.
type RunRow struct {
	ID        string       `json:"id"`
	StartedAt time.Time    `json:"started_at"`
	Source    string       `json:"source,omitempty"`
	Version   string       `json:"version,omitempty"`
	Counts    model.Counts `json:"counts"`
	Findings  int          `json:"findings"`
}
