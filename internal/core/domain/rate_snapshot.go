package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource indicates where a rate snapshot came from.
type RateSource string

const (
	RateSourceLive     RateSource = "live"
	RateSourceFallback RateSource = "fallback"
)

// RateSnapshot is a fully-populated, immutable set of exchange rates expressed
// against the base currency, valid as of LastUpdated. A snapshot is replaced
// wholesale on refresh; it is never mutated in place.
type RateSnapshot struct {
	SnapshotID   string                     `json:"snapshotID"` // Primary Key (e.g., UUID)
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"` // code -> units of code per 1 base unit
	LastUpdated  time.Time                  `json:"lastUpdated"`
	Source       RateSource                 `json:"source"`
}

// Rate returns the rate for the given code. The base currency is always 1.
func (s *RateSnapshot) Rate(code string) (decimal.Decimal, bool) {
	if code == s.BaseCurrency {
		return decimal.NewFromInt(1), true
	}
	r, ok := s.Rates[code]
	return r, ok
}

// Age reports how long ago the snapshot was taken.
func (s *RateSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.LastUpdated)
}
