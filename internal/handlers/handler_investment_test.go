package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/handlers"
	"github.com/raosunjoy/nexvestxr-backend/internal/platform/config"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InvestmentService ---
type MockInvestmentService struct {
	mock.Mock
}

var _ portssvc.InvestmentSvcFacade = (*MockInvestmentService)(nil)

func (m *MockInvestmentService) GetInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	args := m.Called(ctx, investmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentService) ListUserInvestments(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Investment, string, error) {
	args := m.Called(ctx, userID, limit, pageToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.Investment), args.String(1), args.Error(2)
}

func (m *MockInvestmentService) RecordInvestment(ctx context.Context, req dto.RecordInvestmentRequest, investorUserID string) (*domain.Investment, error) {
	args := m.Called(ctx, req, investorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

// --- Test Suite ---
type InvestmentHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockInvestments *MockInvestmentService
	jwtSecret       string
	userID          string
	authHeader      string
}

func (suite *InvestmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockInvestments = new(MockInvestmentService)
	suite.jwtSecret = "test-secret"
	suite.userID = uuid.NewString()

	cfg := &config.Config{
		JWTSecret:           suite.jwtSecret,
		IsProduction:        true,
		SupportedCurrencies: []string{"AED", "USD", "EUR", "GBP", "SGD", "INR", "SAR", "QAR", "KWD"},
	}
	services := &portssvc.ServiceContainer{
		Investment: suite.mockInvestments,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, services)

	token, err := utils.GenerateJWT(suite.userID, suite.jwtSecret, time.Hour, "test")
	suite.Require().NoError(err)
	suite.authHeader = "Bearer " + token
}

func (suite *InvestmentHandlerTestSuite) newInvestment(propertyID string) *domain.Investment {
	return &domain.Investment{
		InvestmentID:     uuid.NewString(),
		UserID:           suite.userID,
		PropertyID:       propertyID,
		BaseAmount:       decimal.RequireFromString("3676.47"),
		OriginalCurrency: "USD",
		OriginalAmount:   decimal.NewFromInt(1000),
		RateAtPurchase:   decimal.RequireFromString("3.676470588235"),
		TokenQuantity:    36,
		AuditFields:      domain.AuditFields{CreatedAt: time.Now()},
	}
}

func (suite *InvestmentHandlerTestSuite) postInvestment(body any, authed bool) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/investments", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", suite.authHeader)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *InvestmentHandlerTestSuite) TestRecordInvestment_Success() {
	propertyID := uuid.NewString()
	reqBody := dto.RecordInvestmentRequest{
		PropertyID:     propertyID,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "USD",
		IdempotencyKey: uuid.NewString(),
	}
	investment := suite.newInvestment(propertyID)

	suite.mockInvestments.On("RecordInvestment", mock.Anything, mock.MatchedBy(func(r dto.RecordInvestmentRequest) bool {
		return r.PropertyID == propertyID && r.Currency == "USD" && r.Amount.Equal(decimal.NewFromInt(1000))
	}), suite.userID).Return(investment, nil).Once()

	w := suite.postInvestment(reqBody, true)

	suite.Equal(http.StatusCreated, w.Code)

	var body dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Success)
	data := body.Data.(map[string]any)
	suite.Equal(investment.InvestmentID, data["investmentID"])
	suite.Equal("3676.47", data["baseAmount"])
	suite.mockInvestments.AssertExpectations(suite.T())
}

func (suite *InvestmentHandlerTestSuite) TestRecordInvestment_OversoldIsConflict() {
	reqBody := dto.RecordInvestmentRequest{
		PropertyID:     uuid.NewString(),
		Amount:         decimal.NewFromInt(1000),
		Currency:       "AED",
		IdempotencyKey: uuid.NewString(),
	}
	suite.mockInvestments.On("RecordInvestment", mock.Anything, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrOversold).Once()

	w := suite.postInvestment(reqBody, true)

	suite.Equal(http.StatusConflict, w.Code)

	var body dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.False(body.Success)
}

func (suite *InvestmentHandlerTestSuite) TestRecordInvestment_KYCRejectedIsForbidden() {
	reqBody := dto.RecordInvestmentRequest{
		PropertyID:     uuid.NewString(),
		Amount:         decimal.NewFromInt(500),
		Currency:       "AED",
		IdempotencyKey: uuid.NewString(),
	}
	suite.mockInvestments.On("RecordInvestment", mock.Anything, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.postInvestment(reqBody, true)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *InvestmentHandlerTestSuite) TestRecordInvestment_UnsupportedCurrencyRejectedAtBinding() {
	reqBody := dto.RecordInvestmentRequest{
		PropertyID:     uuid.NewString(),
		Amount:         decimal.NewFromInt(500),
		Currency:       "XYZ",
		IdempotencyKey: uuid.NewString(),
	}
	w := suite.postInvestment(reqBody, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvestments.AssertNotCalled(suite.T(), "RecordInvestment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvestmentHandlerTestSuite) TestRecordInvestment_SnapshotMissingCurrencyIs400() {
	// KWD passes binding but the current snapshot may not cover it.
	reqBody := dto.RecordInvestmentRequest{
		PropertyID:     uuid.NewString(),
		Amount:         decimal.NewFromInt(500),
		Currency:       "KWD",
		IdempotencyKey: uuid.NewString(),
	}
	suite.mockInvestments.On("RecordInvestment", mock.Anything, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrUnsupportedCurrency).Once()

	w := suite.postInvestment(reqBody, true)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *InvestmentHandlerTestSuite) TestRecordInvestment_MissingIdempotencyKeyIs400() {
	w := suite.postInvestment(map[string]any{
		"propertyID": uuid.NewString(),
		"amount":     "1000",
		"currency":   "AED",
	}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvestments.AssertNotCalled(suite.T(), "RecordInvestment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvestmentHandlerTestSuite) TestRecordInvestment_RequiresAuth() {
	reqBody := dto.RecordInvestmentRequest{
		PropertyID:     uuid.NewString(),
		Amount:         decimal.NewFromInt(1000),
		Currency:       "AED",
		IdempotencyKey: uuid.NewString(),
	}
	w := suite.postInvestment(reqBody, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockInvestments.AssertNotCalled(suite.T(), "RecordInvestment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvestmentHandlerTestSuite) TestListMyInvestments_PassesPageToken() {
	investments := []domain.Investment{*suite.newInvestment(uuid.NewString())}
	suite.mockInvestments.On("ListUserInvestments", mock.Anything, suite.userID, 10, "tok-1").
		Return(investments, "tok-2", nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/investments?limit=10&pageToken=tok-1", nil)
	req.Header.Set("Authorization", suite.authHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	data := body.Data.(map[string]any)
	suite.Equal("tok-2", data["nextPageToken"])
	suite.mockInvestments.AssertExpectations(suite.T())
}

func (suite *InvestmentHandlerTestSuite) TestListUserInvestments_ForeignUserIsForbidden() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/investments", nil)
	req.Header.Set("Authorization", suite.authHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockInvestments.AssertNotCalled(suite.T(), "ListUserInvestments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvestmentHandlerTestSuite) TestListUserInvestments_OwnRecords() {
	suite.mockInvestments.On("ListUserInvestments", mock.Anything, suite.userID, 20, "").
		Return([]domain.Investment{}, "", nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+suite.userID+"/investments", nil)
	req.Header.Set("Authorization", suite.authHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockInvestments.AssertExpectations(suite.T())
}

func (suite *InvestmentHandlerTestSuite) TestGetInvestmentByID_OwnRecord() {
	investment := suite.newInvestment(uuid.NewString())
	suite.mockInvestments.On("GetInvestmentByID", mock.Anything, investment.InvestmentID).
		Return(investment, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/investments/"+investment.InvestmentID, nil)
	req.Header.Set("Authorization", suite.authHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *InvestmentHandlerTestSuite) TestGetInvestmentByID_ForeignRecordIsHidden() {
	investment := suite.newInvestment(uuid.NewString())
	investment.UserID = uuid.NewString() // someone else's record
	suite.mockInvestments.On("GetInvestmentByID", mock.Anything, investment.InvestmentID).
		Return(investment, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/investments/"+investment.InvestmentID, nil)
	req.Header.Set("Authorization", suite.authHeader)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestInvestmentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InvestmentHandlerTestSuite))
}
