package models

import (
	"github.com/shopspring/decimal"
)

// Property represents a listed real-estate asset.
type Property struct {
	PropertyID    string          `json:"propertyID" db:"property_id"`
	Name          string          `json:"name" db:"name"`
	ValuationBase decimal.Decimal `json:"valuationBase" db:"valuation_base"`
	Zone          string          `json:"zone" db:"zone"`
	Category      string          `json:"category" db:"category"`
	DeveloperName string          `json:"developerName" db:"developer_name"`
	DeveloperTier string          `json:"developerTier" db:"developer_tier"`
	TokenType     string          `json:"tokenType" db:"token_type"`
	TotalTokens   int64           `json:"totalTokens" db:"total_tokens"`
	TokensSold    int64           `json:"tokensSold" db:"tokens_sold"`
	TokenPriceAED decimal.Decimal `json:"tokenPriceAED" db:"token_price_aed"`
	Status        string          `json:"status" db:"status"`
	AuditFields
}
