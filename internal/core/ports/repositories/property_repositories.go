package repositories

import (
	"context"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
)

// PropertyReader defines read operations for property data
type PropertyReader interface {
	// FindPropertyByID retrieves a specific property by its ID.
	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// ListProperties retrieves a paginated list of properties.
	ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, error)
}

// PropertyWriter defines write operations for property data
type PropertyWriter interface {
	// SaveProperty persists a new property.
	SaveProperty(ctx context.Context, property domain.Property) error

	// UpdateProperty updates an existing property's details.
	UpdateProperty(ctx context.Context, property domain.Property) error
}

// ReclassificationEventManager persists and lists classification-flip events.
type ReclassificationEventManager interface {
	// SaveReclassificationEvent appends a reclassification event for review.
	SaveReclassificationEvent(ctx context.Context, event domain.ReclassificationEvent) error

	// ListReclassificationEvents retrieves events for a property, newest first.
	ListReclassificationEvents(ctx context.Context, propertyID string) ([]domain.ReclassificationEvent, error)
}

// PropertyRepositoryFacade combines all property-related repository interfaces
type PropertyRepositoryFacade interface {
	PropertyReader
	PropertyWriter
	ReclassificationEventManager
}
