package dto

import (
	"time"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a new user.
type CreateUserRequest struct {
	Username          string `json:"username" binding:"required,min=3"`
	Password          string `json:"password" binding:"required,min=8"`
	Name              string `json:"name" binding:"required"`
	PreferredCurrency string `json:"preferredCurrency" binding:"omitempty,uppercase,len=3,supportedcurrency"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name              *string `json:"name"`
	PreferredCurrency *string `json:"preferredCurrency" binding:"omitempty,uppercase,len=3,supportedcurrency"`
}

// SetKYCStatusRequest transitions a user's verification state.
type SetKYCStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING SUBMITTED APPROVED REJECTED"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID            string    `json:"userID"`
	Username          string    `json:"username"`
	Name              string    `json:"name"`
	PreferredCurrency string    `json:"preferredCurrency"`
	DetectedCurrency  string    `json:"detectedCurrency,omitempty"`
	Country           string    `json:"country,omitempty"`
	KYCStatus         string    `json:"kycStatus"`
	CreatedAt         time.Time `json:"createdAt"`
	LastUpdatedAt     time.Time `json:"lastUpdatedAt"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:            user.UserID,
		Username:          user.Username,
		Name:              user.Name,
		PreferredCurrency: user.PreferredCurrency,
		DetectedCurrency:  user.DetectedCurrency,
		Country:           user.Country,
		KYCStatus:         string(user.KYCStatus),
		CreatedAt:         user.CreatedAt,
		LastUpdatedAt:     user.LastUpdatedAt,
	}
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}
