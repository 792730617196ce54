package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// KeyOperation 命名操作入口写入的操作名（仅已注册的操作）
const KeyOperation = "operation"

var (
	httpReqTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, named operation and status"},
		[]string{"path", "op", "method", "status"},
	)
	httpLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP latency by route and named operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "op", "method"},
	)
)

// Metrics path 取路由模板，未匹配统一记为 "unmatched"；
// op 只取处理函数确认过的操作名，未知名称不会进入标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		op := c.GetString(KeyOperation)
		httpReqTotal.WithLabelValues(path, op, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(path, op, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
