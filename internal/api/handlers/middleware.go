package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/langchou/evhighway/internal/metrics"
)

// metricsMiddleware 记录请求数量和耗时
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordAPIRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
