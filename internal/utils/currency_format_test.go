package utils

import (
	"testing"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	aed := domain.Currency{CurrencyCode: "AED", Symbol: "د.إ", Precision: 2}
	inr := domain.Currency{CurrencyCode: "INR", Symbol: "₹", Precision: 0}

	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), aed))
	assert.Equal(t, "12", FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), inr))
	assert.Equal(t, "13", FormatWithCurrencyPrecision(decimal.RequireFromString("12.5"), inr))
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "3676.47", FormatWithPrecision(decimal.RequireFromString("3676.470588"), 2))
	assert.Equal(t, "100", FormatWithPrecision(decimal.NewFromInt(100), 0))
}

func TestFormatWithSymbol(t *testing.T) {
	aed := domain.Currency{CurrencyCode: "AED", Symbol: "د.إ", Precision: 2}
	assert.Equal(t, "د.إ1234.57", FormatWithSymbol(decimal.RequireFromString("1234.567"), aed))
}
