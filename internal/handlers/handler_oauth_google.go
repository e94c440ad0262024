package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils"
)

// GoogleExchange godoc
// @Summary Sign in with Google
// @Description Exchanges a Google OAuth authorization code for a token pair, creating the account on first sign-in.
// @Tags auth
// @Accept json
// @Produce json
// @Param exchange body dto.GoogleExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.Envelope{data=dto.AuthResponse}
// @Failure 401 {object} dto.Envelope "Code exchange or validation failed"
// @Router /auth/google/exchange-code [post]
func (h *AuthHandler) GoogleExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GoogleExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}

	payload, err := h.googleOAuth.ExchangeAndValidateCode(c.Request.Context(), req.Code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, dto.Fail("Google sign-in failed"))
		return
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, dto.Fail("Google account has no verified email"))
		return
	}

	user, err := h.findOrCreateGoogleUser(c, email, payload.Claims)
	if err != nil {
		logger.Error("Failed to resolve Google user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to sign in with Google"))
		return
	}

	tokens, err := h.issueTokens(c.Request.Context(), user)
	if err != nil {
		logger.Error("Failed to issue tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to generate tokens"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(tokens))
}

// findOrCreateGoogleUser looks up the account by email, provisioning it on
// first sign-in with a random password (the account is only usable via OAuth
// until a password reset).
func (h *AuthHandler) findOrCreateGoogleUser(c *gin.Context, email string, claims map[string]any) (*domain.User, error) {
	user, err := h.userService.GetUserByUsername(c.Request.Context(), email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name = email
	}
	randomPassword, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, err
	}

	return h.userService.CreateUser(c.Request.Context(), dto.CreateUserRequest{
		Username: email,
		Password: randomPassword,
		Name:     name,
	})
}
