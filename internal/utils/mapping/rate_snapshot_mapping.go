package mapping

import (
	"fmt"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelRateSnapshot converts a domain RateSnapshot to its persisted form,
// rendering rates as decimal strings for JSONB storage.
func ToModelRateSnapshot(d domain.RateSnapshot) models.RateSnapshot {
	rates := make(map[string]string, len(d.Rates))
	for code, rate := range d.Rates {
		rates[code] = rate.String()
	}
	return models.RateSnapshot{
		SnapshotID:   d.SnapshotID,
		BaseCurrency: d.BaseCurrency,
		Rates:        rates,
		LastUpdated:  d.LastUpdated,
		Source:       string(d.Source),
	}
}

// ToDomainRateSnapshot converts a persisted snapshot back to the domain form.
// A rate string that fails to parse marks the whole snapshot unusable.
func ToDomainRateSnapshot(m models.RateSnapshot) (domain.RateSnapshot, error) {
	rates := make(map[string]decimal.Decimal, len(m.Rates))
	for code, raw := range m.Rates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.RateSnapshot{}, fmt.Errorf("invalid stored rate %q for %s: %w", raw, code, err)
		}
		rates[code] = rate
	}
	return domain.RateSnapshot{
		SnapshotID:   m.SnapshotID,
		BaseCurrency: m.BaseCurrency,
		Rates:        rates,
		LastUpdated:  m.LastUpdated,
		Source:       domain.RateSource(m.Source),
	}, nil
}
