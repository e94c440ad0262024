package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	portsclients "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/clients"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateFeedClient ---
type MockRateFeedClient struct {
	mock.Mock
}

var _ portsclients.RateFeedClient = (*MockRateFeedClient)(nil)

func (m *MockRateFeedClient) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Mock GeoIPClient ---
type MockGeoIPClient struct {
	mock.Mock
}

var _ portsclients.GeoIPClient = (*MockGeoIPClient)(nil)

func (m *MockGeoIPClient) Lookup(ctx context.Context, ipAddress string) (*portsclients.GeoLocation, error) {
	args := m.Called(ctx, ipAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsclients.GeoLocation), args.Error(1)
}

// --- Mock RateSnapshotRepository ---
type MockRateSnapshotRepository struct {
	mock.Mock
}

func (m *MockRateSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockRateSnapshotRepository) FindLatestSnapshot(ctx context.Context, baseCurrency string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, baseCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRateSnapshotRepository) ListSnapshots(ctx context.Context, baseCurrency string, limit int) ([]domain.RateSnapshot, error) {
	args := m.Called(ctx, baseCurrency, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateSnapshot), args.Error(1)
}

// newTestConfig returns a config matching the default platform setup. Shared
// by the service test suites in this package.
func newTestConfig() *config.Config {
	return &config.Config{
		BaseCurrency:           "AED",
		SupportedCurrencies:    []string{"AED", "USD", "EUR", "GBP", "SGD", "INR", "SAR", "QAR", "KWD"},
		ZeroDecimalCurrencies:  []string{"INR"},
		DefaultCurrency:        "USD",
		RateStalenessLimit:     time.Hour,
		PropxValueThresholdAED: 5_000_000,
		PremiumZones: []string{
			"Downtown Dubai", "Dubai Marina", "Business Bay", "DIFC", "Palm Jumeirah",
		},
	}
}

// fullFeedRates covers every supported non-base currency.
func fullFeedRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("0.272"),
		"EUR": decimal.RequireFromString("0.231"),
		"GBP": decimal.RequireFromString("0.198"),
		"SGD": decimal.RequireFromString("0.367"),
		"INR": decimal.RequireFromString("22.6"),
		"SAR": decimal.RequireFromString("1.02"),
		"QAR": decimal.RequireFromString("0.991"),
		"KWD": decimal.RequireFromString("0.082"),
	}
}

// --- Test Suite ---
type RatesServiceTestSuite struct {
	suite.Suite
	mockFeed     *MockRateFeedClient
	mockGeoIP    *MockGeoIPClient
	mockSnapRepo *MockRateSnapshotRepository
	cfg          *config.Config
	service      portssvc.RatesSvcFacade
}

func (suite *RatesServiceTestSuite) SetupTest() {
	suite.mockFeed = new(MockRateFeedClient)
	suite.mockGeoIP = new(MockGeoIPClient)
	suite.mockSnapRepo = new(MockRateSnapshotRepository)
	suite.cfg = newTestConfig()

	// No persisted snapshot: the service seeds from the fallback table.
	suite.mockSnapRepo.On("FindLatestSnapshot", mock.Anything, "AED").Return(nil, apperrors.ErrNotFound).Once()
	suite.service = services.NewRatesService(suite.cfg, suite.mockFeed, suite.mockGeoIP, suite.mockSnapRepo)
}

func (suite *RatesServiceTestSuite) TestRefreshNow_Success() {
	ctx := context.Background()

	suite.mockFeed.On("FetchRates", ctx).Return(fullFeedRates(), nil).Once()
	suite.mockSnapRepo.On("SaveSnapshot", ctx, mock.AnythingOfType("domain.RateSnapshot")).Return(nil).Once()

	snapshot, err := suite.service.RefreshNow(ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(snapshot)
	suite.Equal("AED", snapshot.BaseCurrency)
	suite.Equal(domain.RateSourceLive, snapshot.Source)
	suite.NotEmpty(snapshot.SnapshotID)
	suite.Len(snapshot.Rates, 8)

	suite.mockFeed.AssertExpectations(suite.T())
	suite.mockSnapRepo.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestRefreshNow_FeedFailureKeepsPreviousSnapshot() {
	ctx := context.Background()
	feedErr := errors.New("connection refused")

	suite.mockFeed.On("FetchRates", ctx).Return(nil, feedErr).Times(3)

	_, err := suite.service.RefreshNow(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateFeedUnavailable)

	// The fallback snapshot seeded at construction is still served.
	current, err := suite.service.CurrentSnapshot(ctx)
	suite.Require().NoError(err)
	suite.Equal(domain.RateSourceFallback, current.Source)

	suite.mockFeed.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestRefreshNow_RejectsPartialCoverage() {
	ctx := context.Background()

	partial := fullFeedRates()
	delete(partial, "INR")
	suite.mockFeed.On("FetchRates", ctx).Return(partial, nil).Times(3)

	_, err := suite.service.RefreshNow(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateFeedUnavailable)
	suite.mockFeed.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestRefreshNow_RejectsNonPositiveRate() {
	ctx := context.Background()

	bad := fullFeedRates()
	bad["GBP"] = decimal.Zero
	suite.mockFeed.On("FetchRates", ctx).Return(bad, nil).Times(3)

	_, err := suite.service.RefreshNow(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateFeedUnavailable)
}

func (suite *RatesServiceTestSuite) TestConvert_SameCurrencyIdentity() {
	ctx := context.Background()
	amount := decimal.RequireFromString("123.45")

	converted, err := suite.service.Convert(ctx, amount, "USD", "USD")

	suite.Require().NoError(err)
	suite.True(amount.Equal(converted))
	// No feed call for an identity conversion.
	suite.mockFeed.AssertNotCalled(suite.T(), "FetchRates", mock.Anything)
}

func (suite *RatesServiceTestSuite) TestConvert_TwoHopThroughBase() {
	ctx := context.Background()

	// 100 USD -> AED at the fallback rate 0.272: 100 / 0.272 = 367.65 rounded.
	converted, err := suite.service.Convert(ctx, decimal.NewFromInt(100), "USD", "AED")
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("367.65").Equal(converted), "got %s", converted)
}

func (suite *RatesServiceTestSuite) TestConvert_ZeroDecimalTargetRoundsToWholeUnits() {
	ctx := context.Background()

	// 100 USD -> INR: 100 / 0.272 * 22.6 = 8308.82..., INR has no minor units.
	converted, err := suite.service.Convert(ctx, decimal.NewFromInt(100), "USD", "INR")
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(8309).Equal(converted), "got %s", converted)
}

func (suite *RatesServiceTestSuite) TestConvert_RoundTripStaysWithinTolerance() {
	ctx := context.Background()
	currencies := newTestConfig().SupportedCurrencies
	amounts := []string{"1000", "250000", "999999.99"}
	// Half a percent absorbs the double rounding of the two hops, including
	// the zero-decimal INR leg.
	tolerance := decimal.RequireFromString("0.005")

	for _, from := range currencies {
		for _, to := range currencies {
			for _, raw := range amounts {
				amount := decimal.RequireFromString(raw)

				hop, err := suite.service.Convert(ctx, amount, from, to)
				suite.Require().NoError(err)
				back, err := suite.service.Convert(ctx, hop, to, from)
				suite.Require().NoError(err)

				drift := back.Sub(amount).Abs().Div(amount)
				suite.True(drift.LessThanOrEqual(tolerance),
					"%s %s -> %s came back as %s (drift %s)", raw, from, to, back, drift)
			}
		}
	}
}

func (suite *RatesServiceTestSuite) TestConvert_UnsupportedCurrency() {
	ctx := context.Background()

	_, err := suite.service.Convert(ctx, decimal.NewFromInt(10), "XYZ", "AED")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)

	_, err = suite.service.Convert(ctx, decimal.NewFromInt(10), "AED", "XYZ")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
}

func (suite *RatesServiceTestSuite) TestCurrentSnapshot_ServesStaleOnRefreshFailure() {
	ctx := context.Background()

	// Zero staleness limit forces a refresh on every read.
	cfg := newTestConfig()
	cfg.RateStalenessLimit = 0

	mockFeed := new(MockRateFeedClient)
	mockSnapRepo := new(MockRateSnapshotRepository)
	mockSnapRepo.On("FindLatestSnapshot", mock.Anything, "AED").Return(nil, apperrors.ErrNotFound).Once()
	mockFeed.On("FetchRates", ctx).Return(nil, errors.New("feed down")).Times(3)

	svc := services.NewRatesService(cfg, mockFeed, suite.mockGeoIP, mockSnapRepo)

	snapshot, err := svc.CurrentSnapshot(ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(snapshot)
	suite.Equal(domain.RateSourceFallback, snapshot.Source)
	mockFeed.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestSuggestedAmounts() {
	amounts := suite.service.SuggestedAmounts("KWD")
	suite.Equal([]int64{25, 100, 250, 1000, 2500, 7500}, amounts)

	// Unknown codes fall back to the base currency table.
	fallback := suite.service.SuggestedAmounts("XYZ")
	suite.Equal([]int64{100, 500, 1000, 5000, 10000, 25000}, fallback)
}

func (suite *RatesServiceTestSuite) TestDetectCurrency_MapsCountryToCurrency() {
	ctx := context.Background()
	suite.mockGeoIP.On("Lookup", ctx, "1.2.3.4").Return(&portsclients.GeoLocation{
		Country:     "India",
		CountryCode: "IN",
		Timezone:    "Asia/Kolkata",
	}, nil).Once()

	detected, err := suite.service.DetectCurrency(ctx, "1.2.3.4")

	suite.Require().NoError(err)
	suite.Equal("INR", detected.DetectedCurrency)
	suite.Equal("IN", detected.CountryCode)
	suite.Equal("Asia/Kolkata", detected.Timezone)
	suite.mockGeoIP.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestDetectCurrency_LookupFailureDefaults() {
	ctx := context.Background()
	suite.mockGeoIP.On("Lookup", ctx, "10.0.0.1").Return(nil, errors.New("timeout")).Once()

	detected, err := suite.service.DetectCurrency(ctx, "10.0.0.1")

	suite.Require().NoError(err)
	suite.Equal("Unknown", detected.Country)
	suite.Equal("XX", detected.CountryCode)
	suite.Equal("UTC", detected.Timezone)
	suite.Equal("USD", detected.DetectedCurrency)
}

func (suite *RatesServiceTestSuite) TestDetectCurrency_UnmappedCountryDefaults() {
	ctx := context.Background()
	suite.mockGeoIP.On("Lookup", ctx, "5.6.7.8").Return(&portsclients.GeoLocation{
		Country:     "Brazil",
		CountryCode: "BR",
		Timezone:    "America/Sao_Paulo",
	}, nil).Once()

	detected, err := suite.service.DetectCurrency(ctx, "5.6.7.8")

	suite.Require().NoError(err)
	suite.Equal("USD", detected.DetectedCurrency)
	suite.Equal("BR", detected.CountryCode)
}

func (suite *RatesServiceTestSuite) TestSnapshotHistory() {
	ctx := context.Background()
	history := []domain.RateSnapshot{
		{SnapshotID: "s2", BaseCurrency: "AED", Source: domain.RateSourceLive},
		{SnapshotID: "s1", BaseCurrency: "AED", Source: domain.RateSourceLive},
	}
	suite.mockSnapRepo.On("ListSnapshots", ctx, "AED", 20).Return(history, nil).Once()

	got, err := suite.service.SnapshotHistory(ctx, 20)

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.Equal("s2", got[0].SnapshotID)
	suite.mockSnapRepo.AssertExpectations(suite.T())
}

func TestRatesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatesServiceTestSuite))
}
