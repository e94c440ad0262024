package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	portsclients "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/clients"
	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/google/uuid"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
	"github.com/raosunjoy/nexvestxr-backend/internal/platform/config"
	"github.com/shopspring/decimal"
)

const (
	refreshAttempts     = 3
	refreshRetryBackoff = 500 * time.Millisecond
	defaultPrecision    = 2
)

// fallbackRates are the static AED-based rates installed when the feed is
// unreachable and no live snapshot exists yet.
var fallbackRates = map[string]string{
	"USD": "0.272",
	"EUR": "0.231",
	"GBP": "0.198",
	"SGD": "0.367",
	"INR": "22.6",
	"SAR": "1.02",
	"QAR": "0.991",
	"KWD": "0.082",
}

// countryToCurrency maps ISO country codes to platform currencies.
// Countries outside this table fall back to the configured default.
var countryToCurrency = map[string]string{
	"AE": "AED",
	"SA": "SAR",
	"QA": "QAR",
	"KW": "KWD",
	"OM": "OMR",
	"BH": "BHD",
	"US": "USD",
	"GB": "GBP",
	"DE": "EUR",
	"FR": "EUR",
	"ES": "EUR",
	"IT": "EUR",
	"NL": "EUR",
	"SG": "SGD",
	"IN": "INR",
}

// suggestedAmounts are the quick-invest amounts surfaced per currency.
var suggestedAmounts = map[string][]int64{
	"AED": {100, 500, 1000, 5000, 10000, 25000},
	"USD": {25, 100, 250, 1000, 2500, 7500},
	"EUR": {25, 100, 200, 1000, 2000, 6000},
	"GBP": {20, 80, 200, 800, 2000, 5000},
	"SGD": {35, 150, 350, 1500, 3500, 10000},
	"INR": {2000, 8000, 20000, 80000, 200000, 600000},
	"SAR": {100, 400, 1000, 4000, 10000, 25000},
	"QAR": {100, 400, 1000, 4000, 10000, 25000},
	"KWD": {25, 100, 250, 1000, 2500, 7500},
}

type ratesService struct {
	baseCurrency    string
	supported       map[string]struct{}
	zeroDecimal     map[string]struct{}
	defaultCurrency string
	stalenessLimit  time.Duration

	feed         portsclients.RateFeedClient
	geoIP        portsclients.GeoIPClient
	snapshotRepo portsrepo.RateSnapshotRepositoryFacade

	// current holds the active snapshot. Refresh builds a complete replacement
	// and swaps the pointer; readers never see a partially-updated table.
	current   atomic.Pointer[domain.RateSnapshot]
	refreshMu sync.Mutex
}

// NewRatesService creates the rates service. It seeds the in-memory snapshot
// from the most recent persisted one when available, otherwise from the static
// fallback table, so conversions work before the first feed refresh completes.
func NewRatesService(cfg *config.Config, feed portsclients.RateFeedClient, geoIP portsclients.GeoIPClient, snapshotRepo portsrepo.RateSnapshotRepositoryFacade) portssvc.RatesSvcFacade {
	supported := make(map[string]struct{}, len(cfg.SupportedCurrencies))
	for _, code := range cfg.SupportedCurrencies {
		supported[code] = struct{}{}
	}
	zeroDecimal := make(map[string]struct{}, len(cfg.ZeroDecimalCurrencies))
	for _, code := range cfg.ZeroDecimalCurrencies {
		zeroDecimal[code] = struct{}{}
	}

	s := &ratesService{
		baseCurrency:    cfg.BaseCurrency,
		supported:       supported,
		zeroDecimal:     zeroDecimal,
		defaultCurrency: cfg.DefaultCurrency,
		stalenessLimit:  cfg.RateStalenessLimit,
		feed:            feed,
		geoIP:           geoIP,
		snapshotRepo:    snapshotRepo,
	}

	if snapshotRepo != nil {
		if persisted, err := snapshotRepo.FindLatestSnapshot(context.Background(), cfg.BaseCurrency); err == nil {
			s.current.Store(persisted)
		}
	}
	if s.current.Load() == nil {
		s.current.Store(s.fallbackSnapshot(time.Now()))
	}

	return s
}

var _ portssvc.RatesSvcFacade = (*ratesService)(nil)

// fallbackSnapshot builds a snapshot from the static rate table.
func (s *ratesService) fallbackSnapshot(now time.Time) *domain.RateSnapshot {
	rates := make(map[string]decimal.Decimal, len(fallbackRates))
	for code, v := range fallbackRates {
		if _, ok := s.supported[code]; !ok {
			continue
		}
		rates[code] = decimal.RequireFromString(v)
	}
	return &domain.RateSnapshot{
		SnapshotID:   uuid.NewString(),
		BaseCurrency: s.baseCurrency,
		Rates:        rates,
		LastUpdated:  now,
		Source:       domain.RateSourceFallback,
	}
}

// RefreshNow fetches a full snapshot from the feed and swaps it in. Each
// supported currency must be present with a positive rate; a partial feed
// response is rejected wholesale. On failure the previous snapshot stays
// active (or the fallback is installed when none exists) and the error is
// returned.
func (s *ratesService) RefreshNow(ctx context.Context) (*domain.RateSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	var rates map[string]decimal.Decimal
	var err error
	for attempt := 1; attempt <= refreshAttempts; attempt++ {
		rates, err = s.feed.FetchRates(ctx)
		if err == nil {
			err = s.validateCoverage(rates)
		}
		if err == nil {
			break
		}
		logger.Warn("Rate feed fetch failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt < refreshAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * refreshRetryBackoff):
			}
		}
	}

	if err != nil {
		if s.current.Load() == nil {
			s.current.Store(s.fallbackSnapshot(time.Now()))
			logger.Warn("Installed fallback rate table, feed unreachable on first refresh")
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRateFeedUnavailable, err.Error())
	}

	snapshot := &domain.RateSnapshot{
		SnapshotID:   uuid.NewString(),
		BaseCurrency: s.baseCurrency,
		Rates:        rates,
		LastUpdated:  time.Now(),
		Source:       domain.RateSourceLive,
	}
	s.current.Store(snapshot)

	if s.snapshotRepo != nil {
		if saveErr := s.snapshotRepo.SaveSnapshot(ctx, *snapshot); saveErr != nil {
			// Persistence is best effort; the in-memory snapshot is already live.
			logger.Error("Failed to persist rate snapshot", slog.String("error", saveErr.Error()))
		}
	}

	logger.Info("Rate snapshot refreshed",
		slog.String("snapshot_id", snapshot.SnapshotID),
		slog.Int("rate_count", len(snapshot.Rates)),
	)
	return snapshot, nil
}

// validateCoverage ensures the feed returned a positive rate for every
// supported non-base currency.
func (s *ratesService) validateCoverage(rates map[string]decimal.Decimal) error {
	for code := range s.supported {
		if code == s.baseCurrency {
			continue
		}
		rate, ok := rates[code]
		if !ok {
			return fmt.Errorf("feed response missing rate for %s", code)
		}
		if !rate.IsPositive() {
			return fmt.Errorf("feed returned non-positive rate for %s: %s", code, rate)
		}
	}
	return nil
}

// CurrentSnapshot returns the active snapshot, refreshing synchronously first
// when it has passed the staleness limit. If that refresh fails the stale
// snapshot is returned rather than no answer at all.
func (s *ratesService) CurrentSnapshot(ctx context.Context) (*domain.RateSnapshot, error) {
	snapshot := s.current.Load()
	if snapshot != nil && snapshot.Age(time.Now()) <= s.stalenessLimit {
		return snapshot, nil
	}

	refreshed, err := s.RefreshNow(ctx)
	if err != nil {
		stale := s.current.Load()
		if stale == nil {
			return nil, err
		}
		middleware.GetLoggerFromCtx(ctx).Warn("Serving stale rate snapshot, refresh failed",
			slog.Duration("age", stale.Age(time.Now())),
		)
		return stale, nil
	}
	return refreshed, nil
}

// Convert converts amount between two supported currencies through the base
// currency, rounded to the target currency's minor-unit precision. Converting
// a currency to itself returns the amount unchanged.
func (s *ratesService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, error) {
	if _, ok := s.supported[fromCode]; !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, fromCode)
	}
	if _, ok := s.supported[toCode]; !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, toCode)
	}
	if fromCode == toCode {
		return amount, nil
	}

	snapshot, err := s.CurrentSnapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	fromRate, ok := snapshot.Rate(fromCode)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, fromCode)
	}
	toRate, ok := snapshot.Rate(toCode)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, toCode)
	}

	// Two hops through the base currency: amount / rate[from] -> base, then
	// base * rate[to] -> target.
	baseAmount := amount.Div(fromRate)
	converted := baseAmount.Mul(toRate)

	return converted.Round(s.precisionFor(toCode)), nil
}

func (s *ratesService) precisionFor(code string) int32 {
	if _, ok := s.zeroDecimal[code]; ok {
		return 0
	}
	return defaultPrecision
}

// SnapshotHistory lists recent persisted snapshots, newest first.
func (s *ratesService) SnapshotHistory(ctx context.Context, limit int) ([]domain.RateSnapshot, error) {
	snapshots, err := s.snapshotRepo.ListSnapshots(ctx, s.baseCurrency, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot history: %w", err)
	}
	if snapshots == nil {
		return []domain.RateSnapshot{}, nil
	}
	return snapshots, nil
}

// SuggestedAmounts returns the quick-invest amounts for a currency, falling
// back to the base currency's table for unknown codes.
func (s *ratesService) SuggestedAmounts(currencyCode string) []int64 {
	if amounts, ok := suggestedAmounts[currencyCode]; ok {
		return amounts
	}
	return suggestedAmounts[s.baseCurrency]
}

// DetectCurrency maps the caller's IP to a supported currency. Lookup failures
// and unmapped countries degrade to the configured default, never to an error.
func (s *ratesService) DetectCurrency(ctx context.Context, ipAddress string) (*dto.DetectedCurrencyResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	location, err := s.geoIP.Lookup(ctx, ipAddress)
	if err != nil {
		logger.Warn("Geo-IP lookup failed, using default currency",
			slog.String("error", err.Error()),
		)
		return &dto.DetectedCurrencyResponse{
			Country:          "Unknown",
			CountryCode:      "XX",
			Timezone:         "UTC",
			DetectedCurrency: s.defaultCurrency,
		}, nil
	}

	detected, ok := countryToCurrency[location.CountryCode]
	if !ok {
		detected = s.defaultCurrency
	}
	if _, supported := s.supported[detected]; !supported {
		detected = s.defaultCurrency
	}

	return &dto.DetectedCurrencyResponse{
		Country:          location.Country,
		CountryCode:      location.CountryCode,
		Timezone:         location.Timezone,
		DetectedCurrency: detected,
	}, nil
}
