package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/gin-gonic/gin"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
)

// investmentHandler handles HTTP requests related to investments.
type investmentHandler struct {
	investmentService portssvc.InvestmentSvcFacade
}

func newInvestmentHandler(is portssvc.InvestmentSvcFacade) *investmentHandler {
	return &investmentHandler{investmentService: is}
}

// registerInvestmentRoutes registers routes related to investments.
func registerInvestmentRoutes(rg *gin.RouterGroup, investmentService portssvc.InvestmentSvcFacade) {
	h := newInvestmentHandler(investmentService)

	investments := rg.Group("/investments")
	{
		investments.POST("", h.recordInvestment)
		investments.GET("", h.listMyInvestments)
		investments.GET("/:id", h.getInvestmentByID)
	}

	rg.GET("/users/:id/investments", h.listUserInvestments)
}

// recordInvestment godoc
// @Summary Record an investment
// @Description Converts the amount to the base currency at the current snapshot, reserves tokens and appends the ledger record atomically. Replaying the same idempotency key returns the original record.
// @Tags investments
// @Accept json
// @Produce json
// @Param investment body dto.RecordInvestmentRequest true "Investment details"
// @Success 201 {object} dto.Envelope{data=dto.InvestmentResponse}
// @Failure 400 {object} dto.Envelope "Invalid investment"
// @Failure 403 {object} dto.Envelope "KYC not approved"
// @Failure 404 {object} dto.Envelope "Property not found"
// @Failure 409 {object} dto.Envelope "Property tokens oversold"
// @Security BearerAuth
// @Router /investments [post]
func (h *investmentHandler) recordInvestment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordInvestment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	investorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	investment, err := h.investmentService.RecordInvestment(c.Request.Context(), req, investorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrOversold):
			c.JSON(http.StatusConflict, dto.Fail("Not enough tokens remain on this property"))
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, dto.Fail(err.Error()))
		case errors.Is(err, apperrors.ErrInvalidInvestment), errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrUnsupportedCurrency):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("Property not found"))
		default:
			logger.Error("Failed to record investment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to record investment"))
		}
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToInvestmentResponse(investment)))
}

// listMyInvestments godoc
// @Summary List the caller's investments
// @Description Returns the authenticated user's investments, newest first, token paginated
// @Tags investments
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param pageToken query string false "Opaque page token from a previous response"
// @Success 200 {object} dto.Envelope{data=dto.ListInvestmentsResponse}
// @Security BearerAuth
// @Router /investments [get]
func (h *investmentHandler) listMyInvestments(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	var params dto.ListInvestmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid pagination parameters"))
		return
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	investments, nextToken, err := h.investmentService.ListUserInvestments(c.Request.Context(), userID, params.Limit, params.PageToken)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list investments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to list investments"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListInvestmentsResponse(investments, nextToken)))
}

// listUserInvestments godoc
// @Summary List a user's investments
// @Description Returns the given user's investments; callers may only list their own
// @Tags investments
// @Produce json
// @Param id path string true "User ID"
// @Param limit query int false "Page size" default(20)
// @Param pageToken query string false "Opaque page token from a previous response"
// @Success 200 {object} dto.Envelope{data=dto.ListInvestmentsResponse}
// @Failure 403 {object} dto.Envelope "Not the caller's own records"
// @Security BearerAuth
// @Router /users/{id}/investments [get]
func (h *investmentHandler) listUserInvestments(c *gin.Context) {
	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}
	if c.Param("id") != callerID {
		c.JSON(http.StatusForbidden, dto.Fail("You may only list your own investments"))
		return
	}

	var params dto.ListInvestmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid pagination parameters"))
		return
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	investments, nextToken, err := h.investmentService.ListUserInvestments(c.Request.Context(), callerID, params.Limit, params.PageToken)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list investments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to list investments"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListInvestmentsResponse(investments, nextToken)))
}

// getInvestmentByID godoc
// @Summary Get an investment by ID
// @Description Returns one investment; callers may only read their own records
// @Tags investments
// @Produce json
// @Param id path string true "Investment ID"
// @Success 200 {object} dto.Envelope{data=dto.InvestmentResponse}
// @Failure 404 {object} dto.Envelope "Investment not found"
// @Security BearerAuth
// @Router /investments/{id} [get]
func (h *investmentHandler) getInvestmentByID(c *gin.Context) {
	investmentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	investment, err := h.investmentService.GetInvestmentByID(c.Request.Context(), investmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Investment not found"))
		} else {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get investment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve investment"))
		}
		return
	}

	// Ownership check: a not-found answer avoids leaking record existence.
	if investment.UserID != userID {
		c.JSON(http.StatusNotFound, dto.Fail("Investment not found"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToInvestmentResponse(investment)))
}
