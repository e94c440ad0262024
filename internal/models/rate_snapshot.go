package models

import (
	"time"
)

// RateSnapshot persists one full exchange-rate snapshot. The rates map is
// stored as JSONB; a snapshot row is append-only and never updated.
type RateSnapshot struct {
	SnapshotID   string            `json:"snapshotID" db:"snapshot_id"`
	BaseCurrency string            `json:"baseCurrency" db:"base_currency"`
	Rates        map[string]string `json:"rates" db:"rates"` // code -> decimal string
	LastUpdated  time.Time         `json:"lastUpdated" db:"last_updated"`
	Source       string            `json:"source" db:"source"`
}
