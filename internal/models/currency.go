package models

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string `json:"currencyCode" db:"currency_code"` // Primary Key (e.g., "AED")
	Symbol       string `json:"symbol" db:"symbol"`
	Name         string `json:"name" db:"name"`
	Precision    int    `json:"precision" db:"precision"`
	AuditFields
}
