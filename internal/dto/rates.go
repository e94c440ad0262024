package dto

import (
	"time"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSnapshotResponse is the wire form of a rate snapshot.
type RateSnapshotResponse struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	LastUpdated  time.Time                  `json:"lastUpdated"`
	Source       string                     `json:"source"`
}

// ToRateSnapshotResponse converts a domain.RateSnapshot to its wire form.
func ToRateSnapshotResponse(s *domain.RateSnapshot) RateSnapshotResponse {
	return RateSnapshotResponse{
		BaseCurrency: s.BaseCurrency,
		Rates:        s.Rates,
		LastUpdated:  s.LastUpdated,
		Source:       string(s.Source),
	}
}

// ToListRateSnapshotResponse converts a slice of snapshots to wire form.
func ToListRateSnapshotResponse(snapshots []domain.RateSnapshot) []RateSnapshotResponse {
	res := make([]RateSnapshotResponse, len(snapshots))
	for i := range snapshots {
		res[i] = ToRateSnapshotResponse(&snapshots[i])
	}
	return res
}

// ConvertQuery defines the query parameters for a currency conversion. Amount
// is bound as a string and parsed by the handler; gin's form binding cannot
// populate decimal.Decimal directly.
type ConvertQuery struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required,uppercase,len=3"`
	To     string `form:"to" binding:"required,uppercase,len=3"`
}

// ConvertResponse is the result of a conversion, with a formatted display string.
type ConvertResponse struct {
	Amount          decimal.Decimal `json:"amount"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Formatted       string          `json:"formatted"`
}

// DetectedCurrencyResponse is the geo-IP currency detection result.
type DetectedCurrencyResponse struct {
	Country          string `json:"country"`
	CountryCode      string `json:"countryCode"`
	Timezone         string `json:"timezone"`
	DetectedCurrency string `json:"detectedCurrency"`
}

// SuggestedAmountsResponse carries the currency-specific quick-invest amounts.
type SuggestedAmountsResponse struct {
	Currency string  `json:"currency"`
	Amounts  []int64 `json:"amounts"`
}
