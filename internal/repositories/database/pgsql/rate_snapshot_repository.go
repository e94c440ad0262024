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

type PgxRateSnapshotRepository struct {
	BaseRepository
}

// newPgxRateSnapshotRepository creates a new repository for rate snapshot data.
func newPgxRateSnapshotRepository(pool *pgxpool.Pool) portsrepo.RateSnapshotRepositoryFacade {
	return &PgxRateSnapshotRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RateSnapshotRepositoryFacade = (*PgxRateSnapshotRepository)(nil)

// SaveSnapshot appends a new snapshot row. The rates map goes into a JSONB column.
func (r *PgxRateSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error {
	modelSnap := mapping.ToModelRateSnapshot(snapshot)

	query := `
		INSERT INTO rate_snapshots (snapshot_id, base_currency, rates, last_updated, source)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelSnap.SnapshotID,
		modelSnap.BaseCurrency,
		modelSnap.Rates,
		modelSnap.LastUpdated,
		modelSnap.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to save rate snapshot %s: %w", modelSnap.SnapshotID, err)
	}
	return nil
}

// FindLatestSnapshot retrieves the most recent snapshot for a base currency.
func (r *PgxRateSnapshotRepository) FindLatestSnapshot(ctx context.Context, baseCurrency string) (*domain.RateSnapshot, error) {
	query := `
		SELECT snapshot_id, base_currency, rates, last_updated, source
		FROM rate_snapshots
		WHERE base_currency = $1
		ORDER BY last_updated DESC
		LIMIT 1;
	`
	var modelSnap models.RateSnapshot
	err := r.Pool.QueryRow(ctx, query, baseCurrency).Scan(
		&modelSnap.SnapshotID,
		&modelSnap.BaseCurrency,
		&modelSnap.Rates,
		&modelSnap.LastUpdated,
		&modelSnap.Source,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest snapshot for %s: %w", baseCurrency, err)
	}

	domainSnap, err := mapping.ToDomainRateSnapshot(modelSnap)
	if err != nil {
		return nil, fmt.Errorf("failed to map snapshot %s: %w", modelSnap.SnapshotID, err)
	}
	return &domainSnap, nil
}

// ListSnapshots retrieves the most recent snapshots, newest first.
func (r *PgxRateSnapshotRepository) ListSnapshots(ctx context.Context, baseCurrency string, limit int) ([]domain.RateSnapshot, error) {
	query := `
		SELECT snapshot_id, base_currency, rates, last_updated, source
		FROM rate_snapshots
		WHERE base_currency = $1
		ORDER BY last_updated DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, baseCurrency, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate snapshots: %w", err)
	}
	defer rows.Close()

	modelSnaps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RateSnapshot, error) {
		var snap models.RateSnapshot
		err := row.Scan(
			&snap.SnapshotID,
			&snap.BaseCurrency,
			&snap.Rates,
			&snap.LastUpdated,
			&snap.Source,
		)
		return snap, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect snapshot rows: %w", err)
	}

	snapshots := make([]domain.RateSnapshot, 0, len(modelSnaps))
	for _, m := range modelSnaps {
		s, err := mapping.ToDomainRateSnapshot(m)
		if err != nil {
			return nil, fmt.Errorf("failed to map snapshot %s: %w", m.SnapshotID, err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
