package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/raosunjoy/nexvestxr-backend/internal/core/ports/services"

	"github.com/gin-gonic/gin"
	"github.com/raosunjoy/nexvestxr-backend/internal/apperrors"
	"github.com/raosunjoy/nexvestxr-backend/internal/dto"
	"github.com/raosunjoy/nexvestxr-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// ratesHandler handles HTTP requests related to exchange rates.
type ratesHandler struct {
	ratesService portssvc.RatesSvcFacade
}

func newRatesHandler(rs portssvc.RatesSvcFacade) *ratesHandler {
	return &ratesHandler{ratesService: rs}
}

// registerPublicRateRoutes registers the unauthenticated rate endpoints.
func registerPublicRateRoutes(r *gin.Engine, ratesService portssvc.RatesSvcFacade) {
	h := newRatesHandler(ratesService)

	rates := r.Group("/api/v1/rates")
	{
		rates.GET("", h.getCurrentSnapshot)
		rates.GET("/convert", h.convert)
		rates.GET("/detect", h.detectCurrency)
		rates.GET("/suggested-amounts/:currency", h.suggestedAmounts)
	}
}

// registerRateAdminRoutes registers the authenticated rate endpoints.
func registerRateAdminRoutes(rg *gin.RouterGroup, ratesService portssvc.RatesSvcFacade) {
	h := newRatesHandler(ratesService)

	rates := rg.Group("/rates")
	{
		rates.POST("/refresh", h.refreshNow)
		rates.GET("/history", h.snapshotHistory)
	}
}

// getCurrentSnapshot godoc
// @Summary Get the current rate snapshot
// @Description Returns the active exchange-rate table, refreshing it first if stale
// @Tags rates
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.RateSnapshotResponse}
// @Failure 503 {object} dto.Envelope "Rate feed unavailable"
// @Router /rates [get]
func (h *ratesHandler) getCurrentSnapshot(c *gin.Context) {
	snapshot, err := h.ratesService.CurrentSnapshot(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get rate snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.Fail("Exchange rates are temporarily unavailable"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToRateSnapshotResponse(snapshot)))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts amount from one supported currency to another via the base currency
// @Tags rates
// @Produce json
// @Param amount query string true "Amount to convert"
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Success 200 {object} dto.Envelope{data=dto.ConvertResponse}
// @Failure 400 {object} dto.Envelope "Invalid amount or unsupported currency"
// @Router /rates/convert [get]
func (h *ratesHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.ConvertQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind convert query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid conversion request: "+err.Error()))
		return
	}

	amount, err := decimal.NewFromString(query.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid amount: "+query.Amount))
		return
	}

	converted, err := h.ratesService.Convert(c.Request.Context(), amount, query.From, query.To)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnsupportedCurrency):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		case errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		default:
			logger.Error("Conversion failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, dto.Fail("Conversion is temporarily unavailable"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ConvertResponse{
		Amount:          amount,
		From:            query.From,
		To:              query.To,
		ConvertedAmount: converted,
		Formatted:       converted.String() + " " + query.To,
	}))
}

// detectCurrency godoc
// @Summary Detect the caller's currency
// @Description Maps the caller's IP address to a supported currency via geo-IP
// @Tags rates
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.DetectedCurrencyResponse}
// @Router /rates/detect [get]
func (h *ratesHandler) detectCurrency(c *gin.Context) {
	detected, err := h.ratesService.DetectCurrency(c.Request.Context(), c.ClientIP())
	if err != nil {
		// DetectCurrency degrades internally; an error here is unexpected.
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Currency detection failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to detect currency"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(detected))
}

// suggestedAmounts godoc
// @Summary Get quick-invest amounts for a currency
// @Tags rates
// @Produce json
// @Param currency path string true "Currency code"
// @Success 200 {object} dto.Envelope{data=dto.SuggestedAmountsResponse}
// @Router /rates/suggested-amounts/{currency} [get]
func (h *ratesHandler) suggestedAmounts(c *gin.Context) {
	currency := c.Param("currency")
	amounts := h.ratesService.SuggestedAmounts(currency)
	c.JSON(http.StatusOK, dto.OK(dto.SuggestedAmountsResponse{
		Currency: currency,
		Amounts:  amounts,
	}))
}

// refreshNow godoc
// @Summary Force a rate snapshot refresh
// @Description Fetches a fresh snapshot from the external feed immediately
// @Tags rates
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.RateSnapshotResponse}
// @Failure 503 {object} dto.Envelope "Rate feed unavailable"
// @Security BearerAuth
// @Router /rates/refresh [post]
func (h *ratesHandler) refreshNow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	snapshot, err := h.ratesService.RefreshNow(c.Request.Context())
	if err != nil {
		logger.Warn("Manual rate refresh failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.Fail("Rate feed is unavailable"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToRateSnapshotResponse(snapshot)))
}

// snapshotHistory godoc
// @Summary List recent rate snapshots
// @Tags rates
// @Produce json
// @Param limit query int false "Max snapshots to return" default(20)
// @Success 200 {object} dto.Envelope{data=[]dto.RateSnapshotResponse}
// @Security BearerAuth
// @Router /rates/history [get]
func (h *ratesHandler) snapshotHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	snapshots, err := h.ratesService.SnapshotHistory(c.Request.Context(), limit)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list snapshot history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to list snapshot history"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListRateSnapshotResponse(snapshots)))
}
