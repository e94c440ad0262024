package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenType indicates how a property is represented on chain.
type TokenType string

const (
	// TokenTypePooled means the property joins a diversified city-level pool (XERA).
	TokenTypePooled TokenType = "POOLED"
	// TokenTypeIndividual means the property is tokenized as its own tradable asset (PROPX).
	TokenTypeIndividual TokenType = "INDIVIDUAL"
)

// DeveloperTier grades the developer behind a listing.
type DeveloperTier string

const (
	DeveloperTierNone DeveloperTier = "NONE"
	DeveloperTier2    DeveloperTier = "TIER2"
	DeveloperTier1    DeveloperTier = "TIER1"
)

// PropertyCategory enumerates the supported listing categories.
type PropertyCategory string

const (
	CategoryApartment PropertyCategory = "APARTMENT"
	CategoryVilla     PropertyCategory = "VILLA"
	CategoryOffice    PropertyCategory = "OFFICE"
	CategoryRetail    PropertyCategory = "RETAIL"
	CategoryHotel     PropertyCategory = "HOTEL"
	CategoryMixedUse  PropertyCategory = "MIXED_USE"
)

// PropertyStatus tracks the listing lifecycle.
type PropertyStatus string

const (
	PropertyDraft     PropertyStatus = "DRAFT"
	PropertyActive    PropertyStatus = "ACTIVE"
	PropertySoldOut   PropertyStatus = "SOLD_OUT"
	PropertySuspended PropertyStatus = "SUSPENDED"
)

// Property is a listed real-estate asset. ValuationBase is always in the base
// currency. TokenType is derived by classification and cached here; it is
// recomputed whenever valuation or zone changes.
type Property struct {
	PropertyID    string           `json:"propertyID"` // Primary Key (e.g., UUID)
	Name          string           `json:"name"`
	ValuationBase decimal.Decimal  `json:"valuationBase"` // In base currency (AED)
	Zone          string           `json:"zone"`          // e.g., "Downtown Dubai"
	Category      PropertyCategory `json:"category"`
	DeveloperName string           `json:"developerName"`
	DeveloperTier DeveloperTier    `json:"developerTier"`
	TokenType     TokenType        `json:"tokenType"`
	TotalTokens   int64            `json:"totalTokens"`
	TokensSold    int64            `json:"tokensSold"`
	TokenPriceAED decimal.Decimal  `json:"tokenPriceAED"` // Price of one token in base currency
	Status        PropertyStatus   `json:"status"`
	AuditFields
}

// TokensAvailable is the remaining sellable token count.
func (p *Property) TokensAvailable() int64 {
	return p.TotalTokens - p.TokensSold
}

// ReclassificationEvent records a classification flip detected after a
// property already sold tokens. Existing holders are never migrated silently;
// the event is surfaced for a business decision instead.
type ReclassificationEvent struct {
	EventID      string    `json:"eventID"` // Primary Key (e.g., UUID)
	PropertyID   string    `json:"propertyID"`
	FromType     TokenType `json:"fromType"`
	ToType       TokenType `json:"toType"`
	Reason       string    `json:"reason"`
	OccurredAt   time.Time `json:"occurredAt"`
	Acknowledged bool      `json:"acknowledged"`
}
