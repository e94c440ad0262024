package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo, newTestConfig().SupportedCurrencies)
}

func (suite *CurrencyServiceTestSuite) TestIsSupported() {
	suite.True(suite.service.IsSupported("AED"))
	suite.True(suite.service.IsSupported("KWD"))
	suite.False(suite.service.IsSupported("BTC"))
	suite.False(suite.service.IsSupported("aed")) // codes are case sensitive
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "OMR",
		Symbol:       "ر.ع.",
		Name:         "Omani Rial",
		Precision:    3,
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == req.CurrencyCode && c.Precision == 3 && c.CreatedBy == creatorUserID
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal(req.CurrencyCode, currency.CurrencyCode)
	suite.Equal(creatorUserID, currency.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindCurrencyByCode", ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCurrencyByCode(ctx, "ZZZ")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_EmptyIsNotNil() {
	ctx := context.Background()

	suite.mockRepo.On("ListCurrencies", ctx).Return(nil, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.NotNil(currencies)
	suite.Empty(currencies)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
