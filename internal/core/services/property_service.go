package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/repositories"
	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/google/uuid"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
)

type propertyService struct {
	propertyRepo portsrepo.PropertyRepositoryFacade
	classifier   portssvc.ClassifierSvcFacade
}

// NewPropertyService creates the property service.
func NewPropertyService(propertyRepo portsrepo.PropertyRepositoryFacade, classifier portssvc.ClassifierSvcFacade) portssvc.PropertySvcFacade {
	return &propertyService{
		propertyRepo: propertyRepo,
		classifier:   classifier,
	}
}

var _ portssvc.PropertySvcFacade = (*propertyService)(nil)

// CreateProperty creates a new listing. The token type is decided by the
// classifier at creation time and cached on the row.
func (s *propertyService) CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, creatorUserID string) (*domain.Property, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	property := domain.Property{
		PropertyID:    uuid.NewString(),
		Name:          req.Name,
		ValuationBase: req.ValuationBase,
		Zone:          req.Zone,
		Category:      domain.PropertyCategory(req.Category),
		DeveloperName: req.DeveloperName,
		DeveloperTier: domain.DeveloperTier(req.DeveloperTier),
		TotalTokens:   req.TotalTokens,
		TokensSold:    0,
		TokenPriceAED: req.TokenPriceAED,
		Status:        domain.PropertyActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	classification := s.classifier.Classify(property)
	property.TokenType = classification.TokenType

	if err := s.propertyRepo.SaveProperty(ctx, property); err != nil {
		logger.Error("Failed to save property", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	logger.Info("Property created",
		slog.String("property_id", property.PropertyID),
		slog.String("token_type", string(property.TokenType)),
	)
	return &property, nil
}

// GetPropertyByID retrieves a property by ID.
func (s *propertyService) GetPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", propertyID, err)
	}
	return property, nil
}

// ListProperties retrieves a paginated list of properties.
func (s *propertyService) ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, error) {
	properties, err := s.propertyRepo.ListProperties(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	if properties == nil {
		return []domain.Property{}, nil
	}
	return properties, nil
}

// GetClassification re-evaluates the rules for a property and returns the
// full decision including reasons.
func (s *propertyService) GetClassification(ctx context.Context, propertyID string) (*domain.Classification, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s for classification: %w", propertyID, err)
	}
	classification := s.classifier.Classify(*property)
	return &classification, nil
}

// ListReclassificationEvents lists a property's classification-flip events.
func (s *propertyService) ListReclassificationEvents(ctx context.Context, propertyID string) ([]domain.ReclassificationEvent, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", propertyID, err)
	}
	events, err := s.propertyRepo.ListReclassificationEvents(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reclassification events: %w", err)
	}
	if events == nil {
		return []domain.ReclassificationEvent{}, nil
	}
	return events, nil
}

// UpdateProperty applies edits. A valuation or zone change triggers
// reclassification: before any tokens are sold the new type is applied
// directly, afterwards a flip is only recorded as a reclassification event
// and the stored type stays as-is for review.
func (s *propertyService) UpdateProperty(ctx context.Context, propertyID string, req dto.UpdatePropertyRequest, requestingUserID string) (*domain.Property, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s for update: %w", propertyID, err)
	}

	classificationInputChanged := false
	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.ValuationBase != nil {
		property.ValuationBase = *req.ValuationBase
		classificationInputChanged = true
	}
	if req.Zone != nil {
		property.Zone = *req.Zone
		classificationInputChanged = true
	}
	if req.DeveloperTier != nil {
		property.DeveloperTier = domain.DeveloperTier(*req.DeveloperTier)
		classificationInputChanged = true
	}
	if req.Status != nil {
		property.Status = domain.PropertyStatus(*req.Status)
	}

	if classificationInputChanged {
		classification := s.classifier.Classify(*property)
		if classification.TokenType != property.TokenType {
			if property.TokensSold > 0 {
				event := domain.ReclassificationEvent{
					EventID:    uuid.NewString(),
					PropertyID: property.PropertyID,
					FromType:   property.TokenType,
					ToType:     classification.TokenType,
					Reason:     fmt.Sprintf("rules now evaluate to %s: %v", classification.TokenType, classification.Reasons),
					OccurredAt: time.Now(),
				}
				if err := s.propertyRepo.SaveReclassificationEvent(ctx, event); err != nil {
					return nil, fmt.Errorf("failed to record reclassification event: %w", err)
				}
				logger.Warn("Property reclassification recorded, tokens already sold",
					slog.String("property_id", property.PropertyID),
					slog.String("from", string(event.FromType)),
					slog.String("to", string(event.ToType)),
				)
			} else {
				property.TokenType = classification.TokenType
			}
		}
	}

	property.LastUpdatedAt = time.Now()
	property.LastUpdatedBy = requestingUserID

	if err := s.propertyRepo.UpdateProperty(ctx, *property); err != nil {
		return nil, fmt.Errorf("failed to update property %s: %w", propertyID, err)
	}

	return property, nil
}
