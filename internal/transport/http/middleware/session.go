package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shop-api/internal/core/auth"
	"shop-api/internal/core/authz"
	"shop-api/internal/domain"
	resp "shop-api/internal/transport/http/response"
)

const (
	KeyIdentity = "identity"
	KeyUserID   = "userId"
)

// IdentityResolver token -> 身份；解析失败返回匿名
type IdentityResolver interface {
	Identify(ctx context.Context, token string) authz.Identity
}

// Session 从 cookie（回退 Bearer 头）解析会话，写入请求上下文；从不拒绝请求
func Session(cookies *auth.CookieHelper, r IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Token(c)
		if token == "" {
			if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				token = strings.TrimPrefix(ah, "Bearer ")
			}
		}
		id := authz.Anonymous()
		if token != "" {
			id = r.Identify(c.Request.Context(), token)
		}
		c.Set(KeyIdentity, id)
		if id.IsAuthenticated() {
			c.Set(KeyUserID, id.UserID)
		}
		c.Next()
	}
}

// IdentityFrom 未经过 Session 中间件时为匿名
func IdentityFrom(c *gin.Context) authz.Identity {
	if v, ok := c.Get(KeyIdentity); ok {
		if id, ok := v.(authz.Identity); ok {
			return id
		}
	}
	return authz.Anonymous()
}

// RequirePermission 分组级守卫：未登录 401，缺权限 403
func RequirePermission(perms ...domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		if !id.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, authz.ErrUnauthenticated.Error()))
			return
		}
		if len(perms) > 0 && !id.Has(perms...) {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, authz.ErrForbidden.Error()))
			return
		}
		c.Next()
	}
}
