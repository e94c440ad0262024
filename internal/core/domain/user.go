package domain

import "time"

// KYCStatus tracks the verification state of an account.
type KYCStatus string

const (
	KYCPending   KYCStatus = "PENDING"
	KYCSubmitted KYCStatus = "SUBMITTED"
	KYCApproved  KYCStatus = "APPROVED"
	KYCRejected  KYCStatus = "REJECTED"
)

// User represents a platform account in the domain. PreferredCurrency must be
// a member of the supported currency set at all times; DetectedCurrency is the
// geo-IP derived suggestion and may differ.
type User struct {
	UserID            string    `json:"userID"` // Primary Key (e.g., UUID)
	Username          string    `json:"username"`
	Name              string    `json:"name"`
	PreferredCurrency string    `json:"preferredCurrency"`
	DetectedCurrency  string    `json:"detectedCurrency"`
	Country           string    `json:"country"`
	KYCStatus         KYCStatus `json:"kycStatus"`
	PasswordHash      string    `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete

	// Refresh token state for session renewal
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
