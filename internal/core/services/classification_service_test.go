package services_test

import (
	"testing"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_BelowThresholdIsAlwaysPooled(t *testing.T) {
	classifier := services.NewClassifierService(newTestConfig())

	// Premium zone and top-tier developer do not matter below the threshold.
	property := domain.Property{
		ValuationBase: decimal.NewFromInt(2_000_000),
		Zone:          "Downtown Dubai",
		DeveloperTier: domain.DeveloperTier1,
	}

	decision := classifier.Classify(property)

	assert.Equal(t, domain.TokenTypePooled, decision.TokenType)
	require.NotEmpty(t, decision.Reasons)
	assert.Contains(t, decision.Reasons[0], "below")
}

func TestClassify_PremiumZoneTieredDeveloperIsIndividual(t *testing.T) {
	classifier := services.NewClassifierService(newTestConfig())

	property := domain.Property{
		ValuationBase: decimal.NewFromInt(10_000_000),
		Zone:          "Downtown Dubai",
		DeveloperTier: domain.DeveloperTier1,
	}

	decision := classifier.Classify(property)

	assert.Equal(t, domain.TokenTypeIndividual, decision.TokenType)
	assert.Equal(t, domain.DeveloperTier1, decision.Tier)
	assert.Len(t, decision.Reasons, 3)
}

func TestClassify_HighValueOutsidePremiumZoneIsPooled(t *testing.T) {
	classifier := services.NewClassifierService(newTestConfig())

	property := domain.Property{
		ValuationBase: decimal.NewFromInt(10_000_000),
		Zone:          "International City",
		DeveloperTier: domain.DeveloperTier1,
	}

	decision := classifier.Classify(property)

	assert.Equal(t, domain.TokenTypePooled, decision.TokenType)
}

func TestClassify_HighValueUntieredDeveloperIsPooled(t *testing.T) {
	classifier := services.NewClassifierService(newTestConfig())

	property := domain.Property{
		ValuationBase: decimal.NewFromInt(10_000_000),
		Zone:          "Dubai Marina",
		DeveloperTier: domain.DeveloperTierNone,
	}

	decision := classifier.Classify(property)

	assert.Equal(t, domain.TokenTypePooled, decision.TokenType)
}

func TestClassify_ExactThresholdMeetsGate(t *testing.T) {
	classifier := services.NewClassifierService(newTestConfig())

	property := domain.Property{
		ValuationBase: decimal.NewFromInt(5_000_000),
		Zone:          "DIFC",
		DeveloperTier: domain.DeveloperTier2,
	}

	decision := classifier.Classify(property)

	assert.Equal(t, domain.TokenTypeIndividual, decision.TokenType)
}

func TestClassify_RaisingValuationNeverDemotes(t *testing.T) {
	classifier := services.NewClassifierService(newTestConfig())

	zones := []string{"Downtown Dubai", "Dubai Marina", "International City"}
	tiers := []domain.DeveloperTier{domain.DeveloperTierNone, domain.DeveloperTier1, domain.DeveloperTier2}
	valuations := []int64{
		1_000_000, 4_999_999, 5_000_000, 5_000_001, 10_000_000, 100_000_000,
	}

	// Holding zone and tier fixed, a higher valuation may promote POOLED to
	// INDIVIDUAL but never the reverse.
	for _, zone := range zones {
		for _, tier := range tiers {
			individualSeen := false
			for _, valuation := range valuations {
				decision := classifier.Classify(domain.Property{
					ValuationBase: decimal.NewFromInt(valuation),
					Zone:          zone,
					DeveloperTier: tier,
				})

				if decision.TokenType == domain.TokenTypeIndividual {
					individualSeen = true
				} else if individualSeen {
					t.Fatalf("zone %q tier %q: valuation %d demoted to %s after a lower valuation was INDIVIDUAL",
						zone, tier, valuation, decision.TokenType)
				}
			}
		}
	}
}

func TestClassify_IsDeterministic(t *testing.T) {
	classifier := services.NewClassifierService(newTestConfig())

	property := domain.Property{
		ValuationBase: decimal.NewFromInt(7_500_000),
		Zone:          "Palm Jumeirah",
		DeveloperTier: domain.DeveloperTier2,
	}

	first := classifier.Classify(property)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Classify(property))
	}
}
