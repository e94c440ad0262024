package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/gin-gonic/gin"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes related to users.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/me", h.getMe)
		users.GET("/:id", h.getUserByID)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
		users.PUT("/:id/kyc", h.setKYCStatus)
	}
}

// getMe godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get own profile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve profile"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}

// getUserByID godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 404 {object} dto.Envelope "User not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUserByID(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("User not found"))
		} else {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve user"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListUsersResponse}
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid pagination parameters"))
		return
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to list users"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListUserResponse(users)))
}

// updateUser godoc
// @Summary Update a user's profile
// @Description Users can only update their own profile. The preferred currency must be supported.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 403 {object} dto.Envelope "Forbidden"
// @Failure 404 {object} dto.Envelope "User not found"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, dto.Fail("You can only update your own profile"))
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("User not found"))
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		default:
			logger.Error("Failed to update user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to update user"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}

// deleteUser godoc
// @Summary Delete a user (soft delete)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.Envelope "Forbidden"
// @Failure 404 {object} dto.Envelope "User not found"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	userID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, dto.Fail("You can only delete your own account"))
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("User not found"))
		default:
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to delete user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to delete user"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// setKYCStatus godoc
// @Summary Set a user's KYC status
// @Description Transitions the verification state; investments require APPROVED
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param status body dto.SetKYCStatusRequest true "New KYC status"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 403 {object} dto.Envelope "Approval reserved for KYC reviewers"
// @Failure 404 {object} dto.Envelope "User not found"
// @Security BearerAuth
// @Router /users/{id}/kyc [put]
func (h *userHandler) setKYCStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	var req dto.SetKYCStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetKYCStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	user, err := h.userService.SetKYCStatus(c.Request.Context(), userID, domain.KYCStatus(req.Status), requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, dto.Fail("Only a KYC reviewer may set this status"))
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("User not found"))
		default:
			logger.Error("Failed to set KYC status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to set KYC status"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}
