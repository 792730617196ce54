package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "shop-api/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；n<=0 不限制
func MaxBodyBytes(n int64) gin.HandlerFunc {
	if n <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "request body too large"))
		}
	}
}
