package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/google/uuid"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils"
	"github.com/shopspring/decimal"
)

const baseAmountPrecision = 2

type investmentService struct {
	investmentRepo portsrepo.InvestmentRepositoryFacade
	propertyRepo   portsrepo.PropertyRepositoryFacade
	userSvc        portssvc.UserReaderSvc
	currencySvc    portssvc.CurrencyReaderSvc
	rates          portssvc.RateReaderSvc
	baseCurrency   string
}

// NewInvestmentService creates the investment service.
func NewInvestmentService(
	investmentRepo portsrepo.InvestmentRepositoryFacade,
	propertyRepo portsrepo.PropertyRepositoryFacade,
	userSvc portssvc.UserReaderSvc,
	currencySvc portssvc.CurrencyReaderSvc,
	rates portssvc.RateReaderSvc,
	baseCurrency string,
) portssvc.InvestmentSvcFacade {
	return &investmentService{
		investmentRepo: investmentRepo,
		propertyRepo:   propertyRepo,
		userSvc:        userSvc,
		currencySvc:    currencySvc,
		rates:          rates,
		baseCurrency:   baseCurrency,
	}
}

var _ portssvc.InvestmentSvcFacade = (*investmentService)(nil)

// RecordInvestment validates the purchase, converts the amount to the base
// currency at the current snapshot and writes the ledger record atomically
// with the token reservation. Replaying the same idempotency key returns the
// originally written record without any new write.
func (s *investmentService) RecordInvestment(ctx context.Context, req dto.RecordInvestmentRequest, investorUserID string) (*domain.Investment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidInvestment)
	}
	if !s.currencySvc.IsSupported(req.Currency) {
		return nil, fmt.Errorf("%w: unsupported currency %s", apperrors.ErrInvalidInvestment, req.Currency)
	}

	// Replay check before any validation that could have changed since the
	// original request (rates, KYC, availability).
	existing, err := s.investmentRepo.FindInvestmentByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existing != nil {
		if existing.UserID != investorUserID {
			return nil, fmt.Errorf("%w: idempotency key belongs to another user", apperrors.ErrForbidden)
		}
		logger.Info("Idempotent investment replay",
			slog.String("investment_id", existing.InvestmentID),
		)
		return existing, nil
	}

	user, err := s.userSvc.GetUserByID(ctx, investorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investor %s: %w", investorUserID, err)
	}
	if user.KYCStatus != domain.KYCApproved {
		return nil, fmt.Errorf("%w: KYC status is %s, investment requires approval", apperrors.ErrForbidden, user.KYCStatus)
	}

	property, err := s.propertyRepo.FindPropertyByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", req.PropertyID, err)
	}
	if property.Status != domain.PropertyActive {
		return nil, fmt.Errorf("%w: property %s is not open for investment", apperrors.ErrInvalidInvestment, req.PropertyID)
	}

	snapshot, err := s.rates.CurrentSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate snapshot: %w", err)
	}

	// rateAtPurchase is base units per one original-currency unit, so the
	// base amount is exactly originalAmount * rateAtPurchase.
	rateAtPurchase := decimal.NewFromInt(1)
	if req.Currency != s.baseCurrency {
		codeRate, ok := snapshot.Rate(req.Currency)
		if !ok || !codeRate.IsPositive() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, req.Currency)
		}
		rateAtPurchase = decimal.NewFromInt(1).Div(codeRate)
	}
	baseAmount := req.Amount.Mul(rateAtPurchase).Round(baseAmountPrecision)

	if !property.TokenPriceAED.IsPositive() {
		return nil, fmt.Errorf("%w: property %s has no token price", apperrors.ErrInvalidInvestment, req.PropertyID)
	}
	tokenQuantity := baseAmount.Div(property.TokenPriceAED).IntPart()
	if tokenQuantity < 1 {
		return nil, fmt.Errorf("%w: amount buys less than one token at %s AED each", apperrors.ErrInvalidInvestment, property.TokenPriceAED)
	}

	now := time.Now()
	investment := domain.Investment{
		InvestmentID:     uuid.NewString(),
		UserID:           investorUserID,
		PropertyID:       req.PropertyID,
		BaseAmount:       baseAmount,
		OriginalCurrency: req.Currency,
		OriginalAmount:   req.Amount,
		RateAtPurchase:   rateAtPurchase,
		TokenQuantity:    tokenQuantity,
		IdempotencyKey:   req.IdempotencyKey,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     investorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: investorUserID,
		},
	}

	if err := s.investmentRepo.SaveInvestment(ctx, investment); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent request with this key committed first; serve its record.
			winner, findErr := s.investmentRepo.FindInvestmentByIdempotencyKey(ctx, req.IdempotencyKey)
			if findErr == nil && winner.UserID == investorUserID {
				return winner, nil
			}
		}
		if errors.Is(err, apperrors.ErrOversold) {
			logger.Warn("Investment rejected, would oversell property",
				slog.String("property_id", req.PropertyID),
				slog.Int64("token_quantity", tokenQuantity),
			)
		}
		return nil, err
	}

	logger.Info("Investment recorded",
		slog.String("investment_id", investment.InvestmentID),
		slog.String("property_id", investment.PropertyID),
		slog.String("base_amount", utils.FormatWithPrecision(baseAmount, baseAmountPrecision)),
		slog.Int64("token_quantity", tokenQuantity),
	)
	return &investment, nil
}

// GetInvestmentByID retrieves an investment by ID.
func (s *investmentService) GetInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	investment, err := s.investmentRepo.FindInvestmentByID(ctx, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investment %s: %w", investmentID, err)
	}
	return investment, nil
}

// ListUserInvestments retrieves a user's investments, newest first.
func (s *investmentService) ListUserInvestments(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Investment, string, error) {
	investments, nextToken, err := s.investmentRepo.ListInvestmentsByUser(ctx, userID, limit, pageToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list investments for user %s: %w", userID, err)
	}
	if investments == nil {
		investments = []domain.Investment{}
	}
	return investments, nextToken, nil
}
