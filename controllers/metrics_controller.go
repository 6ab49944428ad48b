package controllers

import (
	"context"
	"net/http"

	"github.com/ShounakM04/Rescue-Bites/services"

	"github.com/gin-gonic/gin"
)

type MetricsService interface {
	ForProvider(ctx context.Context, providerID uint) (*services.ProviderMetrics, error)
}

type MetricsController struct {
	Svc MetricsService
}

func NewMetricsController(svc MetricsService) *MetricsController {
	return &MetricsController{Svc: svc}
}

// GET /listings/metrics
func (mc *MetricsController) GetProviderMetrics(c *gin.Context) {
	providerID, ok := accountIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	metrics, err := mc.Svc.ForProvider(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": metrics})
}
