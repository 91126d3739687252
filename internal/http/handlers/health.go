package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/procuremind-backend/internal/http/response"
)

type HealthHandler struct {
	runtimes Runtimes
}

func NewHealthHandler(runtimes Runtimes) *HealthHandler {
	return &HealthHandler{runtimes: runtimes}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.runtimes == nil || h.runtimes.Current() == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "not_ready", nil)
		return
	}
	if err := h.runtimes.Current().Store.Ping(c.Request.Context()); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.String(http.StatusOK, "ok")
}
