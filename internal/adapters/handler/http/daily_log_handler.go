package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lifeos/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
)

type DailyLogHandler struct {
	svc *services.DailyLogService
}

func NewDailyLogHandler(svc *services.DailyLogService) *DailyLogHandler {
	return &DailyLogHandler{
		svc: svc,
	}
}

type upsertLogRequest struct {
	Date        string   `json:"date" binding:"required"`
	SleepHours  *float64 `json:"sleepHours"`
	StudyHours  *float64 `json:"studyHours"`
	Mood        *string  `json:"mood"`
	EnergyLevel *string  `json:"energyLevel"`
	Notes       *string  `json:"notes"`
}

func (h *DailyLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/logs")
	{
		logs.POST("", h.Upsert)
		logs.GET("", h.Range)
		logs.GET("/:date", h.Get)
	}
}

func (h *DailyLogHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req upsertLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log, err := h.svc.Upsert(c.Request.Context(), services.UpsertDailyLogInput{
		UserID:      userID,
		Date:        req.Date,
		SleepHours:  req.SleepHours,
		StudyHours:  req.StudyHours,
		Mood:        req.Mood,
		EnergyLevel: req.EnergyLevel,
		Notes:       req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}

func (h *DailyLogHandler) Range(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	logs, err := h.svc.Range(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *DailyLogHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	log, err := h.svc.Get(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}
