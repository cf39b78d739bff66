package status

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP surface:
//
//	GET  /healthz             liveness, always 200
//	GET  /readyz              200 once a cycle has completed, 503 before
//	GET  /status              monitor status as JSON
//	GET  /changes             recent change notifications, if p is a ChangeLog
//	GET  /metrics             Prometheus exposition for g
//	POST GetStatusProcedure   Connect status RPC
//
// A nil g uses prometheus.DefaultGatherer. middleware runs before every route.
func NewRouter(p Provider, g prometheus.Gatherer, middleware ...gin.HandlerFunc) *gin.Engine {
	if g == nil {
		g = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		s := p.Status()
		if s.Cycles == 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "waiting for first cycle"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, p.Status())
	})

	if log, ok := p.(ChangeLog); ok {
		router.GET("/changes", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"changes": log.Changes()})
		})
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))

	router.POST(GetStatusProcedure, gin.WrapH(NewHandler(p)))

	return router
}
