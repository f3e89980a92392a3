package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekurt/clouddepo/internal/domain/entities"
	"github.com/ekurt/clouddepo/internal/usecase"
)

// HealthHandler exposes the health and readiness endpoints. These are
// unauthenticated so load balancers can reach them.
type HealthHandler struct {
	health *usecase.HealthUsecase
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(health *usecase.HealthUsecase) *HealthHandler {
	return &HealthHandler{health: health}
}

// RegisterRoutes wires the health endpoints onto the root router.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.getHealth)
	router.GET("/health/live", h.getLiveness)
	router.GET("/health/ready", h.getReadiness)
}

func (h *HealthHandler) getHealth(c *gin.Context) {
	report := h.health.GetHealth(c.Request.Context())

	status := http.StatusOK
	if report.Status == entities.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *HealthHandler) getLiveness(c *gin.Context) {
	// Being able to answer at all is the liveness signal.
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *HealthHandler) getReadiness(c *gin.Context) {
	if !h.health.GetReadiness(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}
