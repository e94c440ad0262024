package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/gin-gonic/gin"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
	"github.com/raosunjoy/nexvestxr-backend/internal/platform/config"
	"github.com/raosunjoy/nexvestxr-backend/internal/utils"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService      portssvc.UserSvcFacade
	tokenService     portssvc.TokenSvcFacade
	googleOAuth      portssvc.GoogleOAuthHandlerSvcFacade
	currencyDetector portssvc.CurrencyDetectorSvc
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		userService:      services.User,
		tokenService:     services.TokenService,
		googleOAuth:      services.GoogleOAuthHandler,
		currencyDetector: services.Rates,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services)

	// Credential endpoints are rate limited per IP: 5 requests per minute.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/refresh", limitMiddleware, h.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.Logout)
		auth.POST("/google/exchange-code", limitMiddleware, h.GoogleExchange)
	}
}

// issueTokens generates the access/refresh token pair and persists the
// refresh token hash on the user row.
func (h *AuthHandler) issueTokens(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		UserID:          user.UserID,
		AccessToken:     accessToken,
		AccessExpiresAt: accessExpiry,
		RefreshToken:    refreshToken,
	}, nil
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CreateUserRequest true "User Registration Info"
// @Success 201 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope "Username already taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body: "+err.Error()))
		return
	}

	newUser, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, dto.Fail("Username already taken"))
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		default:
			logger.Error("Failed to register user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to register user"))
		}
		return
	}

	// Best effort: stamp the geo-IP detection result on the fresh profile.
	// Registration never fails because of it.
	if h.currencyDetector != nil {
		if detected, detectErr := h.currencyDetector.DetectCurrency(c.Request.Context(), c.ClientIP()); detectErr == nil {
			if err := h.userService.SetDetectedCurrency(c.Request.Context(), newUser.UserID, detected.DetectedCurrency, detected.Country); err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to store detected currency",
					slog.String("user_id", newUser.UserID), slog.String("error", err.Error()))
			} else {
				newUser.DetectedCurrency = detected.DetectedCurrency
				newUser.Country = detected.Country
			}
		}
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToUserResponse(newUser)))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.Envelope{data=dto.AuthResponse}
// @Failure 401 {object} dto.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, dto.Fail("Invalid username or password"))
		} else {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Login failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Login failed"))
		}
		return
	}

	tokens, err := h.issueTokens(c.Request.Context(), user)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to issue tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to generate tokens"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(tokens))
}

// Refresh godoc
// @Summary Refresh the access token
// @Description Exchanges a valid refresh token for a new token pair. The old refresh token is rotated out.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.Envelope{data=dto.AuthResponse}
// @Failure 401 {object} dto.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request body"))
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenExpired):
			c.JSON(http.StatusUnauthorized, dto.Fail("Refresh token expired, please log in again"))
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, dto.Fail("Invalid refresh token"))
		default:
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Refresh failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to refresh token"))
		}
		return
	}

	tokens, err := h.issueTokens(c.Request.Context(), user)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to issue tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to generate tokens"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(tokens))
}

// Logout godoc
// @Summary Log out
// @Description Invalidates the caller's refresh token.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to clear refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to log out"))
		return
	}
	c.Status(http.StatusNoContent)
}
