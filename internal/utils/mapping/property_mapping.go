package mapping

import (
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/models"
)

// ToModelProperty converts a domain Property to a model Property
func ToModelProperty(d domain.Property) models.Property {
	return models.Property{
		PropertyID:    d.PropertyID,
		Name:          d.Name,
		ValuationBase: d.ValuationBase,
		Zone:          d.Zone,
		Category:      string(d.Category),
		DeveloperName: d.DeveloperName,
		DeveloperTier: string(d.DeveloperTier),
		TokenType:     string(d.TokenType),
		TotalTokens:   d.TotalTokens,
		TokensSold:    d.TokensSold,
		TokenPriceAED: d.TokenPriceAED,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProperty converts a model Property to a domain Property
func ToDomainProperty(m models.Property) domain.Property {
	return domain.Property{
		PropertyID:    m.PropertyID,
		Name:          m.Name,
		ValuationBase: m.ValuationBase,
		Zone:          m.Zone,
		Category:      domain.PropertyCategory(m.Category),
		DeveloperName: m.DeveloperName,
		DeveloperTier: domain.DeveloperTier(m.DeveloperTier),
		TokenType:     domain.TokenType(m.TokenType),
		TotalTokens:   m.TotalTokens,
		TokensSold:    m.TokensSold,
		TokenPriceAED: m.TokenPriceAED,
		Status:        domain.PropertyStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPropertySlice converts a slice of model Properties to domain Properties
func ToDomainPropertySlice(ms []models.Property) []domain.Property {
	ds := make([]domain.Property, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProperty(m)
	}
	return ds
}

// ToModelReclassificationEvent converts a domain ReclassificationEvent to its model form
func ToModelReclassificationEvent(d domain.ReclassificationEvent) models.ReclassificationEvent {
	return models.ReclassificationEvent{
		EventID:      d.EventID,
		PropertyID:   d.PropertyID,
		FromType:     string(d.FromType),
		ToType:       string(d.ToType),
		Reason:       d.Reason,
		OccurredAt:   d.OccurredAt,
		Acknowledged: d.Acknowledged,
	}
}

// ToDomainReclassificationEvent converts a model ReclassificationEvent to its domain form
func ToDomainReclassificationEvent(m models.ReclassificationEvent) domain.ReclassificationEvent {
	return domain.ReclassificationEvent{
		EventID:      m.EventID,
		PropertyID:   m.PropertyID,
		FromType:     domain.TokenType(m.FromType),
		ToType:       domain.TokenType(m.ToType),
		Reason:       m.Reason,
		OccurredAt:   m.OccurredAt,
		Acknowledged: m.Acknowledged,
	}
}
