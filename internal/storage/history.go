package storage

import (
	"time"

	"kvload/internal/runner"
	"kvload/internal/stats"
)

// HistoryItem is one finished run as persisted in the history database.
type HistoryItem struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Config    runner.Config `json:"config"`
	Report    stats.Report  `json:"report"`
}

func NewHistoryItem(cfg runner.Config, r *stats.Report, at time.Time) HistoryItem {
	return HistoryItem{
		ID:        r.RunID,
		Timestamp: at,
		Config:    cfg,
		Report:    *r,
	}
}
