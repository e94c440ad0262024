package services

import (
	"context"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/shopspring/decimal"
)

// RateReaderSvc exposes the current snapshot and conversions built on it.
type RateReaderSvc interface {
	// CurrentSnapshot returns the active rate snapshot, refreshing synchronously
	// first when the cached snapshot is past the staleness limit.
	CurrentSnapshot(ctx context.Context) (*domain.RateSnapshot, error)

	// Convert converts amount between two supported currency codes via the base
	// currency, rounded to the target currency's minor-unit precision.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, error)

	// SnapshotHistory lists recent persisted snapshots, newest first.
	SnapshotHistory(ctx context.Context, limit int) ([]domain.RateSnapshot, error)

	// SuggestedAmounts returns the currency-specific quick-invest amounts.
	SuggestedAmounts(currencyCode string) []int64
}

// RateRefresherSvc triggers snapshot replacement.
type RateRefresherSvc interface {
	// RefreshNow fetches a full snapshot from the feed and swaps it in. On
	// failure the previous snapshot is retained (or the static fallback is
	// installed on first boot) and the error is returned.
	RefreshNow(ctx context.Context) (*domain.RateSnapshot, error)
}

// CurrencyDetectorSvc resolves a caller's currency from their IP address.
type CurrencyDetectorSvc interface {
	// DetectCurrency maps the IP's country to a supported currency, falling
	// back to the configured default. It never returns a hard failure for
	// lookup errors.
	DetectCurrency(ctx context.Context, ipAddress string) (*dto.DetectedCurrencyResponse, error)
}

// RatesSvcFacade combines all rate-related service interfaces
type RatesSvcFacade interface {
	RateReaderSvc
	RateRefresherSvc
	CurrencyDetectorSvc
}
