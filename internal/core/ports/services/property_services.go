package services

import (
	"context"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
)

// ClassifierSvcFacade evaluates the dual-token rules for a property.
// Classification is deterministic: the same property always yields the same
// decision.
type ClassifierSvcFacade interface {
	Classify(property domain.Property) domain.Classification
}

// PropertyReaderSvc defines read operations for property data
type PropertyReaderSvc interface {
	// GetPropertyByID retrieves a property by ID.
	GetPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// ListProperties retrieves a paginated list of properties.
	ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, error)

	// GetClassification returns the current rule evaluation for a property.
	GetClassification(ctx context.Context, propertyID string) (*domain.Classification, error)

	// ListReclassificationEvents lists classification-flip events for a property.
	ListReclassificationEvents(ctx context.Context, propertyID string) ([]domain.ReclassificationEvent, error)
}

// PropertyWriterSvc defines write operations for property data
type PropertyWriterSvc interface {
	// CreateProperty creates a new listing; the token type is classified at
	// creation time.
	CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, creatorUserID string) (*domain.Property, error)

	// UpdateProperty applies edits; valuation or zone changes trigger
	// reclassification. A flip after tokens have sold is recorded as a
	// reclassification event, never applied silently.
	UpdateProperty(ctx context.Context, propertyID string, req dto.UpdatePropertyRequest, requestingUserID string) (*domain.Property, error)
}

// PropertySvcFacade combines all property-related service interfaces
type PropertySvcFacade interface {
	PropertyReaderSvc
	PropertyWriterSvc
}
