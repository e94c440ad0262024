package services

import (
	"context"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
)

// InvestmentReaderSvc defines read operations for investment data
type InvestmentReaderSvc interface {
	// GetInvestmentByID retrieves an investment by ID.
	GetInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error)

	// ListUserInvestments retrieves a user's investments as a token-paginated
	// page, newest first.
	ListUserInvestments(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Investment, string, error)
}

// InvestmentWriterSvc defines write operations for investment data
type InvestmentWriterSvc interface {
	// RecordInvestment converts the amount to base currency at the current
	// snapshot, reserves tokens on the property and appends the ledger record
	// atomically. A repeated idempotency key returns the original record.
	RecordInvestment(ctx context.Context, req dto.RecordInvestmentRequest, investorUserID string) (*domain.Investment, error)
}

// InvestmentSvcFacade combines all investment-related service interfaces
type InvestmentSvcFacade interface {
	InvestmentReaderSvc
	InvestmentWriterSvc
}
