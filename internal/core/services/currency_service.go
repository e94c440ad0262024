package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
)

type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
	supported    map[string]struct{}
}

// NewCurrencyService creates a new currency service. The supported set is
// fixed at startup from configuration.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, supportedCurrencies []string) portssvc.CurrencySvcFacade {
	supported := make(map[string]struct{}, len(supportedCurrencies))
	for _, code := range supportedCurrencies {
		supported[code] = struct{}{}
	}
	return &currencyService{
		currencyRepo: currencyRepo,
		supported:    supported,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// IsSupported reports whether the code belongs to the supported set.
func (s *currencyService) IsSupported(currencyCode string) bool {
	_, ok := s.supported[currencyCode]
	return ok
}

// CreateCurrency persists a new currency definition.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		logger.Error("Failed to save currency", slog.String("error", err.Error()), slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	return &currency, nil
}

// GetCurrencyByCode retrieves a currency by its 3-letter code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

// ListCurrencies retrieves all currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
