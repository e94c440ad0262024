package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "AED")
	Symbol       string `json:"symbol"`       // e.g., "د.إ"
	Name         string `json:"name"`         // e.g., "UAE Dirham"
	Precision    int    `json:"precision"`    // Minor unit digits (2 for most, 0 for zero-decimal display)
	AuditFields
}
