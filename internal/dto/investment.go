package dto

import (
	"time"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordInvestmentRequest defines the data needed to record a token purchase.
// The idempotency key lets clients safely retry after a transport failure
// without double-counting.
type RecordInvestmentRequest struct {
	PropertyID     string          `json:"propertyID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Currency       string          `json:"currency" binding:"required,uppercase,len=3,supportedcurrency"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
}

// ListInvestmentsParams defines query parameters for listing a user's investments.
type ListInvestmentsParams struct {
	Limit     int    `form:"limit,default=20"`
	PageToken string `form:"pageToken"`
}

// InvestmentResponse defines the data returned for an investment.
type InvestmentResponse struct {
	InvestmentID     string          `json:"investmentID"`
	UserID           string          `json:"userID"`
	PropertyID       string          `json:"propertyID"`
	BaseAmount       decimal.Decimal `json:"baseAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	RateAtPurchase   decimal.Decimal `json:"rateAtPurchase"`
	TokenQuantity    int64           `json:"tokenQuantity"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ListInvestmentsResponse wraps a page of investments with the continuation token.
type ListInvestmentsResponse struct {
	Investments   []InvestmentResponse `json:"investments"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

// ToInvestmentResponse converts a domain.Investment to InvestmentResponse DTO
func ToInvestmentResponse(inv *domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		InvestmentID:     inv.InvestmentID,
		UserID:           inv.UserID,
		PropertyID:       inv.PropertyID,
		BaseAmount:       inv.BaseAmount,
		OriginalCurrency: inv.OriginalCurrency,
		OriginalAmount:   inv.OriginalAmount,
		RateAtPurchase:   inv.RateAtPurchase,
		TokenQuantity:    inv.TokenQuantity,
		CreatedAt:        inv.CreatedAt,
	}
}

// ToListInvestmentsResponse converts a page of domain investments to its wire form.
func ToListInvestmentsResponse(investments []domain.Investment, nextToken string) ListInvestmentsResponse {
	res := make([]InvestmentResponse, len(investments))
	for i := range investments {
		res[i] = ToInvestmentResponse(&investments[i])
	}
	return ListInvestmentsResponse{Investments: res, NextPageToken: nextToken}
}
