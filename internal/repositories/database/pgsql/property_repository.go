package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	"github.com/raosunjoy/nexvestxr-backend/internal/models"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils/mapping"
)

type PgxPropertyRepository struct {
	BaseRepository
}

// newPgxPropertyRepository creates a new repository for property data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyRepositoryFacade {
	return &PgxPropertyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

const propertyColumns = `property_id, name, valuation_base, zone, category, developer_name, developer_tier,
		token_type, total_tokens, tokens_sold, token_price_aed, status,
		created_at, created_by, last_updated_at, last_updated_by`

func scanProperty(row pgx.Row) (models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.PropertyID,
		&p.Name,
		&p.ValuationBase,
		&p.Zone,
		&p.Category,
		&p.DeveloperName,
		&p.DeveloperTier,
		&p.TokenType,
		&p.TotalTokens,
		&p.TokensSold,
		&p.TokenPriceAED,
		&p.Status,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// SaveProperty persists a new property listing.
func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	modelProp := mapping.ToModelProperty(property)

	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelProp.PropertyID,
		modelProp.Name,
		modelProp.ValuationBase,
		modelProp.Zone,
		modelProp.Category,
		modelProp.DeveloperName,
		modelProp.DeveloperTier,
		modelProp.TokenType,
		modelProp.TotalTokens,
		modelProp.TokensSold,
		modelProp.TokenPriceAED,
		modelProp.Status,
		modelProp.CreatedAt,
		modelProp.CreatedBy,
		modelProp.LastUpdatedAt,
		modelProp.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save property %s: %w", modelProp.PropertyID, err)
	}
	return nil
}

// UpdateProperty updates a property's mutable details. Token accounting columns
// (tokens_sold) are owned by the investment repository and left untouched here.
func (r *PgxPropertyRepository) UpdateProperty(ctx context.Context, property domain.Property) error {
	modelProp := mapping.ToModelProperty(property)

	query := `
		UPDATE properties SET
			name = $2,
			valuation_base = $3,
			zone = $4,
			category = $5,
			developer_name = $6,
			developer_tier = $7,
			token_type = $8,
			token_price_aed = $9,
			status = $10,
			last_updated_at = $11,
			last_updated_by = $12
		WHERE property_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelProp.PropertyID,
		modelProp.Name,
		modelProp.ValuationBase,
		modelProp.Zone,
		modelProp.Category,
		modelProp.DeveloperName,
		modelProp.DeveloperTier,
		modelProp.TokenType,
		modelProp.TokenPriceAED,
		modelProp.Status,
		modelProp.LastUpdatedAt,
		modelProp.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", modelProp.PropertyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPropertyByID retrieves a property by its ID.
func (r *PgxPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE property_id = $1;`

	modelProp, err := scanProperty(r.Pool.QueryRow(ctx, query, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find property %s: %w", propertyID, err)
	}

	domainProp := mapping.ToDomainProperty(modelProp)
	return &domainProp, nil
}

// ListProperties retrieves a paginated list of properties, newest first.
func (r *PgxPropertyRepository) ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		ORDER BY created_at DESC, property_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	modelProps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Property, error) {
		return scanProperty(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect property rows: %w", err)
	}

	return mapping.ToDomainPropertySlice(modelProps), nil
}

// SaveReclassificationEvent appends a classification-flip event for review.
func (r *PgxPropertyRepository) SaveReclassificationEvent(ctx context.Context, event domain.ReclassificationEvent) error {
	modelEvent := mapping.ToModelReclassificationEvent(event)

	query := `
		INSERT INTO reclassification_events (event_id, property_id, from_type, to_type, reason, occurred_at, acknowledged)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelEvent.EventID,
		modelEvent.PropertyID,
		modelEvent.FromType,
		modelEvent.ToType,
		modelEvent.Reason,
		modelEvent.OccurredAt,
		modelEvent.Acknowledged,
	)
	if err != nil {
		return fmt.Errorf("failed to save reclassification event for property %s: %w", modelEvent.PropertyID, err)
	}
	return nil
}

// ListReclassificationEvents retrieves a property's events, newest first.
func (r *PgxPropertyRepository) ListReclassificationEvents(ctx context.Context, propertyID string) ([]domain.ReclassificationEvent, error) {
	query := `
		SELECT event_id, property_id, from_type, to_type, reason, occurred_at, acknowledged
		FROM reclassification_events
		WHERE property_id = $1
		ORDER BY occurred_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reclassification events: %w", err)
	}
	defer rows.Close()

	modelEvents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ReclassificationEvent, error) {
		var e models.ReclassificationEvent
		err := row.Scan(
			&e.EventID,
			&e.PropertyID,
			&e.FromType,
			&e.ToType,
			&e.Reason,
			&e.OccurredAt,
			&e.Acknowledged,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect reclassification event rows: %w", err)
	}

	events := make([]domain.ReclassificationEvent, 0, len(modelEvents))
	for _, m := range modelEvents {
		events = append(events, mapping.ToDomainReclassificationEvent(m))
	}
	return events, nil
}
