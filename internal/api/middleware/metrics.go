package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reisy1999/musatoku-thanks/pkg/metrics"
)

// Metrics 按路由模板记录请求数与耗时，未匹配路由归为 unmatched
func Metrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
