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

// propertyHandler handles HTTP requests related to property listings.
type propertyHandler struct {
	propertyService portssvc.PropertySvcFacade
}

func newPropertyHandler(ps portssvc.PropertySvcFacade) *propertyHandler {
	return &propertyHandler{propertyService: ps}
}

// registerPropertyRoutes registers routes related to properties.
func registerPropertyRoutes(rg *gin.RouterGroup, propertyService portssvc.PropertySvcFacade) {
	h := newPropertyHandler(propertyService)

	properties := rg.Group("/properties")
	{
		properties.POST("", h.createProperty)
		properties.GET("", h.listProperties)
		properties.GET("/:id", h.getPropertyByID)
		properties.PUT("/:id", h.updateProperty)
		properties.GET("/:id/classification", h.getClassification)
		properties.GET("/:id/reclassification-events", h.listReclassificationEvents)
	}
}

// createProperty godoc
// @Summary Create a property listing
// @Description Creates a listing; the token type (POOLED or INDIVIDUAL) is classified at creation
// @Tags properties
// @Accept json
// @Produce json
// @Param property body dto.CreatePropertyRequest true "Property details"
// @Success 201 {object} dto.Envelope{data=dto.PropertyResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Security BearerAuth
// @Router /properties [post]
func (h *propertyHandler) createProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProperty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		} else {
			logger.Error("Failed to create property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to create property"))
		}
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToPropertyResponse(property)))
}

// listProperties godoc
// @Summary List property listings
// @Tags properties
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=[]dto.PropertyResponse}
// @Security BearerAuth
// @Router /properties [get]
func (h *propertyHandler) listProperties(c *gin.Context) {
	var params dto.ListPropertiesParams
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

	properties, err := h.propertyService.ListProperties(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list properties", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to list properties"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListPropertyResponse(properties)))
}

// getPropertyByID godoc
// @Summary Get a property by ID
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} dto.Envelope{data=dto.PropertyResponse}
// @Failure 404 {object} dto.Envelope "Property not found"
// @Security BearerAuth
// @Router /properties/{id} [get]
func (h *propertyHandler) getPropertyByID(c *gin.Context) {
	propertyID := c.Param("id")

	property, err := h.propertyService.GetPropertyByID(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Property not found"))
		} else {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve property"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToPropertyResponse(property)))
}

// updateProperty godoc
// @Summary Update a property listing
// @Description Applies edits; valuation or zone changes trigger reclassification. A flip after tokens sold is recorded as an event for review.
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param property body dto.UpdatePropertyRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.PropertyResponse}
// @Failure 404 {object} dto.Envelope "Property not found"
// @Security BearerAuth
// @Router /properties/{id} [put]
func (h *propertyHandler) updateProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("id")

	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProperty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), propertyID, req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Property not found"))
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		} else {
			logger.Error("Failed to update property", slog.String("error", err.Error()), slog.String("property_id", propertyID))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to update property"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToPropertyResponse(property)))
}

// getClassification godoc
// @Summary Get the current classification for a property
// @Description Re-evaluates the dual-token rules and returns the decision with reasons
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} dto.Envelope{data=dto.ClassificationResponse}
// @Failure 404 {object} dto.Envelope "Property not found"
// @Security BearerAuth
// @Router /properties/{id}/classification [get]
func (h *propertyHandler) getClassification(c *gin.Context) {
	propertyID := c.Param("id")

	classification, err := h.propertyService.GetClassification(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Property not found"))
		} else {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to classify property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to classify property"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToClassificationResponse(classification)))
}

// listReclassificationEvents godoc
// @Summary List reclassification events for a property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} dto.Envelope{data=[]dto.ReclassificationEventResponse}
// @Failure 404 {object} dto.Envelope "Property not found"
// @Security BearerAuth
// @Router /properties/{id}/reclassification-events [get]
func (h *propertyHandler) listReclassificationEvents(c *gin.Context) {
	propertyID := c.Param("id")

	events, err := h.propertyService.ListReclassificationEvents(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Property not found"))
		} else {
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list reclassification events", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to list reclassification events"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListReclassificationEventResponse(events)))
}
