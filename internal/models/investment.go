package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment represents one confirmed token purchase (append-only).
type Investment struct {
	InvestmentID     string          `json:"investmentID" db:"investment_id"`
	UserID           string          `json:"userID" db:"user_id"`
	PropertyID       string          `json:"propertyID" db:"property_id"`
	BaseAmount       decimal.Decimal `json:"baseAmount" db:"base_amount"`
	OriginalCurrency string          `json:"originalCurrency" db:"original_currency"`
	OriginalAmount   decimal.Decimal `json:"originalAmount" db:"original_amount"`
	RateAtPurchase   decimal.Decimal `json:"rateAtPurchase" db:"rate_at_purchase"`
	TokenQuantity    int64           `json:"tokenQuantity" db:"token_quantity"`
	IdempotencyKey   string          `json:"idempotencyKey" db:"idempotency_key"`
	AuditFields
}

// ReclassificationEvent records a post-sale classification flip for review.
type ReclassificationEvent struct {
	EventID      string `json:"eventID" db:"event_id"`
	PropertyID   string `json:"propertyID" db:"property_id"`
	FromType     string `json:"fromType" db:"from_type"`
	ToType       string `json:"toType" db:"to_type"`
	Reason       string    `json:"reason" db:"reason"`
	OccurredAt   time.Time `json:"occurredAt" db:"occurred_at"`
	Acknowledged bool      `json:"acknowledged" db:"acknowledged"`
}
