package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	"github.com/raosunjoy/nexvestxr-backend/internal/models"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils/mapping"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils/pagination"
)

const uniqueViolationCode = "23505"

type PgxInvestmentRepository struct {
	BaseRepository
}

// newPgxInvestmentRepository creates a new repository for investment data.
func newPgxInvestmentRepository(pool *pgxpool.Pool) portsrepo.InvestmentRepositoryFacade {
	return &PgxInvestmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.InvestmentRepositoryFacade = (*PgxInvestmentRepository)(nil)

const investmentColumns = `investment_id, user_id, property_id, base_amount, original_currency, original_amount,
		rate_at_purchase, token_quantity, idempotency_key,
		created_at, created_by, last_updated_at, last_updated_by`

func scanInvestment(row pgx.Row) (models.Investment, error) {
	var inv models.Investment
	err := row.Scan(
		&inv.InvestmentID,
		&inv.UserID,
		&inv.PropertyID,
		&inv.BaseAmount,
		&inv.OriginalCurrency,
		&inv.OriginalAmount,
		&inv.RateAtPurchase,
		&inv.TokenQuantity,
		&inv.IdempotencyKey,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

// SaveInvestment reserves the purchased tokens on the property row and appends
// the investment record inside a single DB transaction. The reservation is a
// conditional UPDATE: zero rows affected means the purchase would exceed the
// property's total supply, and nothing is written.
func (r *PgxInvestmentRepository) SaveInvestment(ctx context.Context, investment domain.Investment) error {
	modelInv := mapping.ToModelInvestment(investment)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored if the transaction commits.

	reserveQuery := `
		UPDATE properties
		SET tokens_sold = tokens_sold + $1,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE property_id = $2
		  AND tokens_sold + $1 <= total_tokens;
	`
	cmdTag, err := tx.Exec(ctx, reserveQuery,
		modelInv.TokenQuantity,
		modelInv.PropertyID,
		modelInv.LastUpdatedAt,
		modelInv.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve %d tokens on property %s: %w", modelInv.TokenQuantity, modelInv.PropertyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrOversold
	}

	insertQuery := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertQuery,
		modelInv.InvestmentID,
		modelInv.UserID,
		modelInv.PropertyID,
		modelInv.BaseAmount,
		modelInv.OriginalCurrency,
		modelInv.OriginalAmount,
		modelInv.RateAtPurchase,
		modelInv.TokenQuantity,
		modelInv.IdempotencyKey,
		modelInv.CreatedAt,
		modelInv.CreatedBy,
		modelInv.LastUpdatedAt,
		modelInv.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			// A concurrent request with the same idempotency key won the race.
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert investment %s: %w", modelInv.InvestmentID, err)
	}

	return r.Commit(ctx, tx)
}

// FindInvestmentByID retrieves an investment by its ID.
func (r *PgxInvestmentRepository) FindInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE investment_id = $1;`

	modelInv, err := scanInvestment(r.Pool.QueryRow(ctx, query, investmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find investment %s: %w", investmentID, err)
	}

	domainInv := mapping.ToDomainInvestment(modelInv)
	return &domainInv, nil
}

// FindInvestmentByIdempotencyKey retrieves the investment written under the given key.
func (r *PgxInvestmentRepository) FindInvestmentByIdempotencyKey(ctx context.Context, key string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE idempotency_key = $1;`

	modelInv, err := scanInvestment(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find investment by idempotency key: %w", err)
	}

	domainInv := mapping.ToDomainInvestment(modelInv)
	return &domainInv, nil
}

// ListInvestmentsByUser retrieves a user's investments as a token-paginated page,
// newest first. Keyset pagination on (created_at, investment_id) keeps pages
// stable while new investments are appended.
func (r *PgxInvestmentRepository) ListInvestmentsByUser(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Investment, string, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1`
	args := []interface{}{userID}

	if pageToken != "" {
		createdAt, investmentID, err := pagination.DecodeToken(pageToken)
		if err != nil {
			return nil, "", apperrors.NewAppError(400, "invalid page token", err)
		}
		query += ` AND (created_at, investment_id) < ($2, $3)`
		args = append(args, createdAt, investmentID)
	}

	// Fetch one extra row to know whether a next page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, investment_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query investments for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelInvs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Investment, error) {
		return scanInvestment(row)
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to collect investment rows: %w", err)
	}

	nextToken := ""
	if len(modelInvs) > limit {
		modelInvs = modelInvs[:limit]
		last := modelInvs[len(modelInvs)-1]
		nextToken = pagination.EncodeToken(last.CreatedAt, last.InvestmentID)
	}

	return mapping.ToDomainInvestmentSlice(modelInvs), nextToken, nil
}
