package models

import (
	"database/sql"
	"time"
)

// User represents a platform account, including authentication state.
type User struct {
	UserID            string `json:"userID" db:"user_id"`
	Username          string `json:"username" db:"username"`
	PasswordHash      string `json:"-" db:"password_hash"`
	Name              string `json:"name" db:"name"`
	PreferredCurrency string `json:"preferredCurrency" db:"preferred_currency"`
	DetectedCurrency  string `json:"detectedCurrency" db:"detected_currency"`
	Country           string `json:"country" db:"country"`
	KYCStatus         string `json:"kycStatus" db:"kyc_status"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`

	// Refresh Token Fields
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
