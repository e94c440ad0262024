package pgsql

import (
	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	currencyRepo := newPgxCurrencyRepository(dbPool)
	rateSnapshotRepo := newPgxRateSnapshotRepository(dbPool)
	propertyRepo := newPgxPropertyRepository(dbPool)
	investmentRepo := newPgxInvestmentRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CurrencyRepo:     currencyRepo,
		RateSnapshotRepo: rateSnapshotRepo,
		PropertyRepo:     propertyRepo,
		InvestmentRepo:   investmentRepo,
		UserRepo:         userRepo,
	}
}
