package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lifeos/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// RegisterRoutes expects a group that is authenticated but does not require a synced user.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users/sync", h.Sync)
}

func (h *UserHandler) Sync(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity context missing"})
		return
	}

	user, created, err := h.svc.Sync(c.Request.Context(), identity)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}
