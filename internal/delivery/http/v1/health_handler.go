package v1

import (
	"net/http"

	"leadgen-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}

	public.GET("/health", handler.Health)
	public.GET("/ready", handler.Ready)
}

// Health godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthUC.Live())
}

// Ready godoc
// @Summary      Readiness
// @Description  Pings the submission store and Redis.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	r := h.healthUC.Ready(c.Request.Context())
	if !r.Ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "UNAVAILABLE", "checks": r.Checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "checks": r.Checks})
}
