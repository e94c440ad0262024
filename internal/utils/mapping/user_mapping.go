package mapping

import (
	"database/sql"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:            d.UserID,
		Username:          d.Username,
		PasswordHash:      d.PasswordHash,
		Name:              d.Name,
		PreferredCurrency: d.PreferredCurrency,
		DetectedCurrency:  d.DetectedCurrency,
		Country:           d.Country,
		KYCStatus:         string(d.KYCStatus),
		AuditFields:       ToModelAuditFields(d.AuditFields),
		DeletedAt:         d.DeletedAt,
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sql.NullString{String: d.RefreshTokenHash, Valid: true}
	}
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:            m.UserID,
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		PreferredCurrency: m.PreferredCurrency,
		DetectedCurrency:  m.DetectedCurrency,
		Country:           m.Country,
		KYCStatus:         domain.KYCStatus(m.KYCStatus),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		DeletedAt:         m.DeletedAt,
	}
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiryTime = &t
	}
	return d
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
