package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devevents-app/devevents/internal/entity"
	"github.com/devevents-app/devevents/internal/service"
	"github.com/devevents-app/devevents/internal/transport/middleware"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	caller := middleware.GetIdentity(c)
	if caller.UserID == "" {
		respondError(c, entity.ErrForbidden)
		return
	}

	summary, err := h.analyticsService.GetOrganizerSummary(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	caller := middleware.GetIdentity(c)
	if caller.UserID == "" {
		respondError(c, entity.ErrForbidden)
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trends, err := h.analyticsService.GetBookingTrends(c.Request.Context(), caller.UserID, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

func (h *AnalyticsHandler) GetEventAnalytics(c *gin.Context) {
	caller := middleware.GetIdentity(c)
	if caller.UserID == "" {
		respondError(c, entity.ErrForbidden)
		return
	}

	analytics, err := h.analyticsService.GetEventAnalytics(c.Request.Context(), caller.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
