package dto

import "time"

// LoginRequest defines the credentials for password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token for session renewal.
type RefreshRequest struct {
	UserID       string `json:"userID" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// GoogleExchangeCodeRequest carries the authorization code from Google sign-in.
type GoogleExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse is returned after successful authentication.
type AuthResponse struct {
	UserID          string    `json:"userID"`
	AccessToken     string    `json:"accessToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
	RefreshToken    string    `json:"refreshToken,omitempty"`
}
