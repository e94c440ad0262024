package domain

import (
	"github.com/shopspring/decimal"
)

// Investment is one confirmed token purchase. Records are append-only: once
// written they are never updated, and RateAtPurchase is never recomputed, so a
// historical investment stays reproducible in base-currency terms regardless
// of later rate movements.
type Investment struct {
	InvestmentID     string          `json:"investmentID"` // Primary Key (e.g., UUID)
	UserID           string          `json:"userID"`
	PropertyID       string          `json:"propertyID"`
	BaseAmount       decimal.Decimal `json:"baseAmount"` // In base currency (AED)
	OriginalCurrency string          `json:"originalCurrency"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	RateAtPurchase   decimal.Decimal `json:"rateAtPurchase"` // Base units per original unit: originalAmount * rateAtPurchase == baseAmount
	TokenQuantity    int64           `json:"tokenQuantity"`
	IdempotencyKey   string          `json:"idempotencyKey"`
	AuditFields
}
