package mapping

import (
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/models"
)

// ToModelInvestment converts a domain Investment to a model Investment
func ToModelInvestment(d domain.Investment) models.Investment {
	return models.Investment{
		InvestmentID:     d.InvestmentID,
		UserID:           d.UserID,
		PropertyID:       d.PropertyID,
		BaseAmount:       d.BaseAmount,
		OriginalCurrency: d.OriginalCurrency,
		OriginalAmount:   d.OriginalAmount,
		RateAtPurchase:   d.RateAtPurchase,
		TokenQuantity:    d.TokenQuantity,
		IdempotencyKey:   d.IdempotencyKey,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvestment converts a model Investment to a domain Investment
func ToDomainInvestment(m models.Investment) domain.Investment {
	return domain.Investment{
		InvestmentID:     m.InvestmentID,
		UserID:           m.UserID,
		PropertyID:       m.PropertyID,
		BaseAmount:       m.BaseAmount,
		OriginalCurrency: m.OriginalCurrency,
		OriginalAmount:   m.OriginalAmount,
		RateAtPurchase:   m.RateAtPurchase,
		TokenQuantity:    m.TokenQuantity,
		IdempotencyKey:   m.IdempotencyKey,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvestmentSlice converts a slice of model Investments to domain Investments
func ToDomainInvestmentSlice(ms []models.Investment) []domain.Investment {
	ds := make([]domain.Investment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvestment(m)
	}
	return ds
}
