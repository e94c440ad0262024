package repositories

import (
	"context"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
)

// RateSnapshotReader defines read operations for persisted rate snapshots
type RateSnapshotReader interface {
	// FindLatestSnapshot retrieves the most recent snapshot for the base currency.
	FindLatestSnapshot(ctx context.Context, baseCurrency string) (*domain.RateSnapshot, error)

	// ListSnapshots retrieves the most recent snapshots, newest first.
	ListSnapshots(ctx context.Context, baseCurrency string, limit int) ([]domain.RateSnapshot, error)
}

// RateSnapshotWriter defines write operations for persisted rate snapshots
type RateSnapshotWriter interface {
	// SaveSnapshot appends a new snapshot. Snapshots are never updated in place.
	SaveSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error
}

// RateSnapshotRepositoryFacade combines all snapshot-related repository interfaces
type RateSnapshotRepositoryFacade interface {
	RateSnapshotReader
	RateSnapshotWriter
}
