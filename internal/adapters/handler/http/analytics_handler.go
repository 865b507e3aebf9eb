package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lifeos/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
)

type AnalyticsHandler struct {
	analytics    *services.AnalyticsService
	optimization *services.OptimizationService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, optimization *services.OptimizationService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics:    analytics,
		optimization: optimization,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/analytics")
	{
		group.GET("/today", h.Today)
		group.GET("/weekly", h.Weekly)
		group.GET("/daily/:date", h.Daily)
	}
	router.GET("/optimize", h.Optimize)
}

func (h *AnalyticsHandler) Today(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stats, err := h.analytics.Today(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Weekly defaults endDate to today (UTC).
func (h *AnalyticsHandler) Weekly(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	weekly, err := h.analytics.Weekly(c.Request.Context(), userID, c.Query("endDate"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, weekly)
}

func (h *AnalyticsHandler) Daily(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stats, err := h.analytics.Daily(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) Optimize(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	result, err := h.optimization.Optimize(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
