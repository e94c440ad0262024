package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InvestmentRepository ---
type MockInvestmentRepository struct {
	mock.Mock
}

var _ portsrepo.InvestmentRepositoryFacade = (*MockInvestmentRepository)(nil)

func (m *MockInvestmentRepository) SaveInvestment(ctx context.Context, investment domain.Investment) error {
	args := m.Called(ctx, investment)
	return args.Error(0)
}

func (m *MockInvestmentRepository) FindInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	args := m.Called(ctx, investmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) FindInvestmentByIdempotencyKey(ctx context.Context, key string) (*domain.Investment, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListInvestmentsByUser(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Investment, string, error) {
	args := m.Called(ctx, userID, limit, pageToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.Investment), args.String(1), args.Error(2)
}

// countingInvestmentRepository enforces the capacity check the way the SQL
// conditional update does, against a shared counter, so concurrent recordings
// can genuinely race.
type countingInvestmentRepository struct {
	mu          sync.Mutex
	totalTokens int64
	tokensSold  int64
	saved       []domain.Investment
}

var _ portsrepo.InvestmentRepositoryFacade = (*countingInvestmentRepository)(nil)

func (r *countingInvestmentRepository) SaveInvestment(ctx context.Context, investment domain.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tokensSold+investment.TokenQuantity > r.totalTokens {
		return apperrors.ErrOversold
	}
	r.tokensSold += investment.TokenQuantity
	r.saved = append(r.saved, investment)
	return nil
}

func (r *countingInvestmentRepository) FindInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	return nil, apperrors.ErrNotFound
}

func (r *countingInvestmentRepository) FindInvestmentByIdempotencyKey(ctx context.Context, key string) (*domain.Investment, error) {
	return nil, apperrors.ErrNotFound
}

func (r *countingInvestmentRepository) ListInvestmentsByUser(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Investment, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Investment(nil), r.saved...), "", nil
}

// --- Mock UserReaderSvc ---
type MockUserReaderService struct {
	mock.Mock
}

var _ portssvc.UserReaderSvc = (*MockUserReaderService)(nil)

func (m *MockUserReaderService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReaderService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReaderService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Mock CurrencyReaderSvc ---
type MockCurrencyReaderService struct {
	mock.Mock
}

var _ portssvc.CurrencyReaderSvc = (*MockCurrencyReaderService)(nil)

func (m *MockCurrencyReaderService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderService) IsSupported(currencyCode string) bool {
	args := m.Called(currencyCode)
	return args.Bool(0)
}

// --- Mock RateReaderSvc ---
type MockRateReaderService struct {
	mock.Mock
}

var _ portssvc.RateReaderSvc = (*MockRateReaderService)(nil)

func (m *MockRateReaderService) CurrentSnapshot(ctx context.Context) (*domain.RateSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRateReaderService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCode, toCode)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateReaderService) SnapshotHistory(ctx context.Context, limit int) ([]domain.RateSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateSnapshot), args.Error(1)
}

func (m *MockRateReaderService) SuggestedAmounts(currencyCode string) []int64 {
	args := m.Called(currencyCode)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]int64)
}

// --- Test Suite ---
type InvestmentServiceTestSuite struct {
	suite.Suite
	mockInvestmentRepo *MockInvestmentRepository
	mockPropertyRepo   *MockPropertyRepository
	mockUserSvc        *MockUserReaderService
	mockCurrencySvc    *MockCurrencyReaderService
	mockRatesSvc       *MockRateReaderService
	service            portssvc.InvestmentSvcFacade

	investorID string
	property   domain.Property
	snapshot   domain.RateSnapshot
}

func (suite *InvestmentServiceTestSuite) SetupTest() {
	suite.mockInvestmentRepo = new(MockInvestmentRepository)
	suite.mockPropertyRepo = new(MockPropertyRepository)
	suite.mockUserSvc = new(MockUserReaderService)
	suite.mockCurrencySvc = new(MockCurrencyReaderService)
	suite.mockRatesSvc = new(MockRateReaderService)
	suite.service = services.NewInvestmentService(
		suite.mockInvestmentRepo,
		suite.mockPropertyRepo,
		suite.mockUserSvc,
		suite.mockCurrencySvc,
		suite.mockRatesSvc,
		"AED",
	)

	suite.investorID = uuid.NewString()
	suite.property = domain.Property{
		PropertyID:    uuid.NewString(),
		Name:          "Marina Heights Tower",
		TokenType:     domain.TokenTypePooled,
		TotalTokens:   10_000,
		TokensSold:    100,
		TokenPriceAED: decimal.NewFromInt(100),
		Status:        domain.PropertyActive,
	}
	suite.snapshot = domain.RateSnapshot{
		SnapshotID:   uuid.NewString(),
		BaseCurrency: "AED",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("0.25"), // 1 USD = 4 AED for easy arithmetic
		},
		LastUpdated: time.Now(),
		Source:      domain.RateSourceLive,
	}
}

func (suite *InvestmentServiceTestSuite) approvedInvestor() *domain.User {
	return &domain.User{
		UserID:    suite.investorID,
		Username:  "investor@example.com",
		KYCStatus: domain.KYCApproved,
	}
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_Success() {
	ctx := context.Background()
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: uuid.NewString(),
	}

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.investorID).Return(suite.approvedInvestor(), nil).Once()
	suite.mockPropertyRepo.On("FindPropertyByID", ctx, suite.property.PropertyID).Return(&suite.property, nil).Once()
	suite.mockRatesSvc.On("CurrentSnapshot", ctx).Return(&suite.snapshot, nil).Once()

	suite.mockInvestmentRepo.On("SaveInvestment", ctx, mock.MatchedBy(func(inv domain.Investment) bool {
		// 1000 USD at 4 AED/USD buys 40 tokens priced 100 AED each.
		return inv.UserID == suite.investorID &&
			inv.PropertyID == suite.property.PropertyID &&
			inv.BaseAmount.Equal(decimal.NewFromInt(4000)) &&
			inv.RateAtPurchase.Equal(decimal.NewFromInt(4)) &&
			inv.TokenQuantity == 40 &&
			inv.IdempotencyKey == req.IdempotencyKey
	})).Return(nil).Once()

	investment, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(investment)
	suite.Equal("USD", investment.OriginalCurrency)
	suite.True(investment.OriginalAmount.Equal(decimal.NewFromInt(1000)))
	// The original amount times the captured rate reproduces the base amount.
	suite.True(investment.OriginalAmount.Mul(investment.RateAtPurchase).Equal(investment.BaseAmount))

	suite.mockInvestmentRepo.AssertExpectations(suite.T())
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_BaseCurrencyNoConversion() {
	ctx := context.Background()
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(500),
		Currency:       "AED",
		IdempotencyKey: uuid.NewString(),
	}

	suite.mockCurrencySvc.On("IsSupported", "AED").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.investorID).Return(suite.approvedInvestor(), nil).Once()
	suite.mockPropertyRepo.On("FindPropertyByID", ctx, suite.property.PropertyID).Return(&suite.property, nil).Once()
	suite.mockRatesSvc.On("CurrentSnapshot", ctx).Return(&suite.snapshot, nil).Once()
	suite.mockInvestmentRepo.On("SaveInvestment", ctx, mock.AnythingOfType("domain.Investment")).Return(nil).Once()

	investment, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().NoError(err)
	suite.True(investment.RateAtPurchase.Equal(decimal.NewFromInt(1)))
	suite.True(investment.BaseAmount.Equal(decimal.NewFromInt(500)))
	suite.Equal(int64(5), investment.TokenQuantity)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_IdempotentReplay() {
	ctx := context.Background()
	key := uuid.NewString()
	existing := &domain.Investment{
		InvestmentID:   uuid.NewString(),
		UserID:         suite.investorID,
		PropertyID:     suite.property.PropertyID,
		IdempotencyKey: key,
	}
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: key,
	}

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, key).Return(existing, nil).Once()

	investment, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().NoError(err)
	suite.Equal(existing.InvestmentID, investment.InvestmentID)
	// Replay never reaches the write path.
	suite.mockInvestmentRepo.AssertNotCalled(suite.T(), "SaveInvestment", mock.Anything, mock.Anything)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_IdempotencyKeyOfAnotherUser() {
	ctx := context.Background()
	key := uuid.NewString()
	existing := &domain.Investment{
		InvestmentID:   uuid.NewString(),
		UserID:         uuid.NewString(), // someone else
		IdempotencyKey: key,
	}
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: key,
	}

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, key).Return(existing, nil).Once()

	_, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_KYCNotApproved() {
	ctx := context.Background()
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: uuid.NewString(),
	}
	pendingUser := suite.approvedInvestor()
	pendingUser.KYCStatus = domain.KYCPending

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.investorID).Return(pendingUser, nil).Once()

	_, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockInvestmentRepo.AssertNotCalled(suite.T(), "SaveInvestment", mock.Anything, mock.Anything)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_Oversold() {
	ctx := context.Background()
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: uuid.NewString(),
	}

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.investorID).Return(suite.approvedInvestor(), nil).Once()
	suite.mockPropertyRepo.On("FindPropertyByID", ctx, suite.property.PropertyID).Return(&suite.property, nil).Once()
	suite.mockRatesSvc.On("CurrentSnapshot", ctx).Return(&suite.snapshot, nil).Once()
	suite.mockInvestmentRepo.On("SaveInvestment", ctx, mock.AnythingOfType("domain.Investment")).Return(apperrors.ErrOversold).Once()

	_, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOversold)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_DuplicateRaceReturnsWinner() {
	ctx := context.Background()
	key := uuid.NewString()
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: key,
	}
	winner := &domain.Investment{
		InvestmentID:   uuid.NewString(),
		UserID:         suite.investorID,
		IdempotencyKey: key,
	}

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	// First check sees nothing; a concurrent request commits between the check
	// and our insert, so the save fails on the unique key.
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, key).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.investorID).Return(suite.approvedInvestor(), nil).Once()
	suite.mockPropertyRepo.On("FindPropertyByID", ctx, suite.property.PropertyID).Return(&suite.property, nil).Once()
	suite.mockRatesSvc.On("CurrentSnapshot", ctx).Return(&suite.snapshot, nil).Once()
	suite.mockInvestmentRepo.On("SaveInvestment", ctx, mock.AnythingOfType("domain.Investment")).Return(apperrors.ErrDuplicate).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, key).Return(winner, nil).Once()

	investment, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().NoError(err)
	suite.Equal(winner.InvestmentID, investment.InvestmentID)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_AmountBelowOneToken() {
	ctx := context.Background()
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.NewFromInt(10), // 40 AED, below the 100 AED token price
		Currency:       "USD",
		IdempotencyKey: uuid.NewString(),
	}

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.investorID).Return(suite.approvedInvestor(), nil).Once()
	suite.mockPropertyRepo.On("FindPropertyByID", ctx, suite.property.PropertyID).Return(&suite.property, nil).Once()
	suite.mockRatesSvc.On("CurrentSnapshot", ctx).Return(&suite.snapshot, nil).Once()

	_, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidInvestment)
	suite.mockInvestmentRepo.AssertNotCalled(suite.T(), "SaveInvestment", mock.Anything, mock.Anything)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordInvestmentRequest{
		PropertyID:     suite.property.PropertyID,
		Amount:         decimal.Zero,
		Currency:       "USD",
		IdempotencyKey: uuid.NewString(),
	}

	_, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidInvestment)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_InactiveProperty() {
	ctx := context.Background()
	suspended := suite.property
	suspended.Status = domain.PropertySuspended
	req := dto.RecordInvestmentRequest{
		PropertyID:     suspended.PropertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: uuid.NewString(),
	}

	suite.mockCurrencySvc.On("IsSupported", "USD").Return(true).Once()
	suite.mockInvestmentRepo.On("FindInvestmentByIdempotencyKey", ctx, req.IdempotencyKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.investorID).Return(suite.approvedInvestor(), nil).Once()
	suite.mockPropertyRepo.On("FindPropertyByID", ctx, suspended.PropertyID).Return(&suspended, nil).Once()

	_, err := suite.service.RecordInvestment(ctx, req, suite.investorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidInvestment)
}

func (suite *InvestmentServiceTestSuite) TestRecordInvestment_ConcurrentBuyersNeverOversell() {
	ctx := context.Background()
	property := suite.property
	property.TotalTokens = 150
	property.TokensSold = 100 // 50 tokens remain

	repo := &countingInvestmentRepository{
		totalTokens: property.TotalTokens,
		tokensSold:  property.TokensSold,
	}
	svc := services.NewInvestmentService(
		repo,
		suite.mockPropertyRepo,
		suite.mockUserSvc,
		suite.mockCurrencySvc,
		suite.mockRatesSvc,
		"AED",
	)

	suite.mockCurrencySvc.On("IsSupported", "AED").Return(true)
	suite.mockUserSvc.On("GetUserByID", mock.Anything, suite.investorID).Return(suite.approvedInvestor(), nil)
	suite.mockPropertyRepo.On("FindPropertyByID", mock.Anything, property.PropertyID).Return(&property, nil)
	suite.mockRatesSvc.On("CurrentSnapshot", mock.Anything).Return(&suite.snapshot, nil)

	// Each request buys 10 tokens; only 5 of the 20 can fit.
	const buyers = 20
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordInvestment(ctx, dto.RecordInvestmentRequest{
				PropertyID:     property.PropertyID,
				Amount:         decimal.NewFromInt(1000),
				Currency:       "AED",
				IdempotencyKey: uuid.NewString(),
			}, suite.investorID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, apperrors.ErrOversold)
		}
	}
	suite.Equal(5, succeeded)
	suite.Equal(property.TotalTokens, repo.tokensSold)
	suite.Len(repo.saved, 5)
}

func (suite *InvestmentServiceTestSuite) TestListUserInvestments_PassesPageToken() {
	ctx := context.Background()
	investments := []domain.Investment{{InvestmentID: uuid.NewString(), UserID: suite.investorID}}

	suite.mockInvestmentRepo.On("ListInvestmentsByUser", ctx, suite.investorID, 20, "").Return(investments, "next-token", nil).Once()

	got, nextToken, err := suite.service.ListUserInvestments(ctx, suite.investorID, 20, "")

	suite.Require().NoError(err)
	suite.Len(got, 1)
	suite.Equal("next-token", nextToken)
}

func TestInvestmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvestmentServiceTestSuite))
}
