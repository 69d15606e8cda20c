package handlers

import (
	"net/http"

	"itms-api/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	health *services.HealthService
}

func NewHealthHandler(health *services.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Check reports the status of every dependency. Returns 503 when any of
// them is down so load balancers can pull the instance.
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.health.CheckOverall(c.Request.Context())

	code := http.StatusOK
	for _, v := range status {
		if v.Status == "error" {
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{"services": status})
}

// Live is a trivial liveness probe.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
