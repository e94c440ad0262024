package dto

import (
	"time"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest defines the data needed to list a new property.
// Valuation and token price are in the base currency (AED).
type CreatePropertyRequest struct {
	Name          string          `json:"name" binding:"required"`
	ValuationBase decimal.Decimal `json:"valuationBase" binding:"required"`
	Zone          string          `json:"zone" binding:"required"`
	Category      string          `json:"category" binding:"required,oneof=APARTMENT VILLA OFFICE RETAIL HOTEL MIXED_USE"`
	DeveloperName string          `json:"developerName" binding:"required"`
	DeveloperTier string          `json:"developerTier" binding:"required,oneof=NONE TIER2 TIER1"`
	TotalTokens   int64           `json:"totalTokens" binding:"required,gt=0"`
	TokenPriceAED decimal.Decimal `json:"tokenPriceAED" binding:"required"`
}

// UpdatePropertyRequest defines fields editable after listing. Pointers
// distinguish omitted fields from zero values; a valuation or zone change
// triggers reclassification.
type UpdatePropertyRequest struct {
	Name          *string          `json:"name"`
	ValuationBase *decimal.Decimal `json:"valuationBase"`
	Zone          *string          `json:"zone"`
	DeveloperTier *string          `json:"developerTier" binding:"omitempty,oneof=NONE TIER2 TIER1"`
	Status        *string          `json:"status" binding:"omitempty,oneof=DRAFT ACTIVE SOLD_OUT SUSPENDED"`
}

// ListPropertiesParams defines query parameters for listing properties.
type ListPropertiesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// PropertyResponse defines the data returned for a property.
type PropertyResponse struct {
	PropertyID    string          `json:"propertyID"`
	Name          string          `json:"name"`
	ValuationBase decimal.Decimal `json:"valuationBase"`
	Zone          string          `json:"zone"`
	Category      string          `json:"category"`
	DeveloperName string          `json:"developerName"`
	DeveloperTier string          `json:"developerTier"`
	TokenType     string          `json:"tokenType"`
	TotalTokens   int64           `json:"totalTokens"`
	TokensSold    int64           `json:"tokensSold"`
	TokenPriceAED decimal.Decimal `json:"tokenPriceAED"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ClassificationResponse is the wire form of a classification decision.
type ClassificationResponse struct {
	TokenType string   `json:"tokenType"`
	Tier      string   `json:"tier,omitempty"`
	Reasons   []string `json:"reasons"`
}

// ReclassificationEventResponse is the wire form of a reclassification event.
type ReclassificationEventResponse struct {
	EventID      string    `json:"eventID"`
	PropertyID   string    `json:"propertyID"`
	FromType     string    `json:"fromType"`
	ToType       string    `json:"toType"`
	Reason       string    `json:"reason"`
	OccurredAt   time.Time `json:"occurredAt"`
	Acknowledged bool      `json:"acknowledged"`
}

// ToPropertyResponse converts a domain.Property to PropertyResponse DTO
func ToPropertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		PropertyID:    p.PropertyID,
		Name:          p.Name,
		ValuationBase: p.ValuationBase,
		Zone:          p.Zone,
		Category:      string(p.Category),
		DeveloperName: p.DeveloperName,
		DeveloperTier: string(p.DeveloperTier),
		TokenType:     string(p.TokenType),
		TotalTokens:   p.TotalTokens,
		TokensSold:    p.TokensSold,
		TokenPriceAED: p.TokenPriceAED,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListPropertyResponse converts a slice of domain.Property to DTOs
func ToListPropertyResponse(properties []domain.Property) []PropertyResponse {
	res := make([]PropertyResponse, len(properties))
	for i := range properties {
		res[i] = ToPropertyResponse(&properties[i])
	}
	return res
}

// ToClassificationResponse converts a domain.Classification to its wire form.
func ToClassificationResponse(c *domain.Classification) ClassificationResponse {
	return ClassificationResponse{
		TokenType: string(c.TokenType),
		Tier:      string(c.Tier),
		Reasons:   c.Reasons,
	}
}

// ToListReclassificationEventResponse converts domain events to DTOs
func ToListReclassificationEventResponse(events []domain.ReclassificationEvent) []ReclassificationEventResponse {
	res := make([]ReclassificationEventResponse, len(events))
	for i, e := range events {
		res[i] = ReclassificationEventResponse{
			EventID:      e.EventID,
			PropertyID:   e.PropertyID,
			FromType:     string(e.FromType),
			ToType:       string(e.ToType),
			Reason:       e.Reason,
			OccurredAt:   e.OccurredAt,
			Acknowledged: e.Acknowledged,
		}
	}
	return res
}
