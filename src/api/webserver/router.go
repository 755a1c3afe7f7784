package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func attachRoutes(r *gin.Engine, d Deps) {
	scanH := NewScans(d.AI, d.Cache, d.Metrics, d.Logger.With("component", "scan"))
	r.POST("/scan", scanH.Scan)

	if d.Reports != nil {
		reportH := NewReports(d.Reports, d.Logger.With("component", "report"))
		r.POST("/report", reportH.Create)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
