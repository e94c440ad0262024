package repositories

import (
	"context"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
)

// InvestmentReader defines read operations for investment data
type InvestmentReader interface {
	// FindInvestmentByID retrieves a specific investment by its ID.
	FindInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error)

	// FindInvestmentByIdempotencyKey retrieves the investment previously written
	// under the given key, if any.
	FindInvestmentByIdempotencyKey(ctx context.Context, key string) (*domain.Investment, error)

	// ListInvestmentsByUser retrieves a user's investments as a token-paginated
	// page, newest first. nextToken is empty when no further page exists.
	ListInvestmentsByUser(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Investment, string, error)
}

// InvestmentWriter defines write operations for investment data.
// Saving an investment reserves the purchased tokens on the property row and
// inserts the ledger record as one atomic unit.
type InvestmentWriter interface {
	// SaveInvestment atomically reserves investment.TokenQuantity tokens on the
	// property and appends the investment record. Returns apperrors.ErrOversold
	// without any write when the reservation would exceed the property's
	// available tokens.
	SaveInvestment(ctx context.Context, investment domain.Investment) error
}

// InvestmentRepositoryFacade combines all investment-related repository interfaces
type InvestmentRepositoryFacade interface {
	InvestmentReader
	InvestmentWriter
}
