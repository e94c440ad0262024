package services

import (
	"fmt"

	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/platform/config"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type classifierService struct {
	valueThreshold decimal.Decimal
	premiumZones   []string
}

// NewClassifierService creates the dual-token classifier. The valuation
// threshold and premium zone list come from configuration and are fixed for
// the life of the process.
func NewClassifierService(cfg *config.Config) portssvc.ClassifierSvcFacade {
	return &classifierService{
		valueThreshold: decimal.NewFromInt(cfg.PropxValueThresholdAED),
		premiumZones:   cfg.PremiumZones,
	}
}

var _ portssvc.ClassifierSvcFacade = (*classifierService)(nil)

// Classify evaluates the dual-token rules for a property. Valuation gates
// first: a property below the threshold is always pooled, regardless of zone
// or developer. Above it, individual tokenization additionally requires a
// premium zone and a tiered developer. The decision is deterministic and the
// reasons list records every rule that was applied.
func (s *classifierService) Classify(property domain.Property) domain.Classification {
	if property.ValuationBase.LessThan(s.valueThreshold) {
		return domain.Classification{
			TokenType: domain.TokenTypePooled,
			Tier:      property.DeveloperTier,
			Reasons: []string{
				fmt.Sprintf("valuation %s AED below %s AED threshold", property.ValuationBase, s.valueThreshold),
			},
		}
	}

	var reasons []string
	reasons = append(reasons, fmt.Sprintf("valuation %s AED meets %s AED threshold", property.ValuationBase, s.valueThreshold))

	inPremiumZone := lo.Contains(s.premiumZones, property.Zone)
	if inPremiumZone {
		reasons = append(reasons, fmt.Sprintf("zone %q is a premium zone", property.Zone))
	} else {
		reasons = append(reasons, fmt.Sprintf("zone %q is not a premium zone", property.Zone))
	}

	tieredDeveloper := property.DeveloperTier == domain.DeveloperTier1 || property.DeveloperTier == domain.DeveloperTier2
	if tieredDeveloper {
		reasons = append(reasons, fmt.Sprintf("developer tier %s qualifies", property.DeveloperTier))
	} else {
		reasons = append(reasons, "developer is untiered")
	}

	tokenType := domain.TokenTypePooled
	if inPremiumZone && tieredDeveloper {
		tokenType = domain.TokenTypeIndividual
	}

	return domain.Classification{
		TokenType: tokenType,
		Tier:      property.DeveloperTier,
		Reasons:   reasons,
	}
}
