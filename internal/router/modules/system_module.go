package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SystemModule serves liveness and Prometheus metrics endpoints.
type SystemModule struct {
	Pool           *pgxpool.Pool
	MetricsEnabled bool
}

func NewSystemModule(pool *pgxpool.Pool, metricsEnabled bool) *SystemModule {
	return &SystemModule{Pool: pool, MetricsEnabled: metricsEnabled}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		if m.Pool != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := m.Pool.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if m.MetricsEnabled {
		rg.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
