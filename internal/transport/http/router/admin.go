package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shop-api/internal/core/authz"
	"shop-api/internal/core/server"
	"shop-api/internal/domain"
	httpez "shop-api/internal/transport/http/ez"
	mdw "shop-api/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	l := d.logger()
	h := d.HTTP
	r := server.NewRouter(l, server.Options{Mode: d.Mode})

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(h.RatePerSec), h.RateBurst),
		mdw.MaxBodyBytes(h.MaxBodyBytes),
		mdw.Timeout(h.RequestTimeout()),
		mdw.Metrics(),
		mdw.Session(d.Cookies, d.Services.Accounts),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1（统一要求 ADMIN 或 PERMISSIONUPDATE）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.RequirePermission(domain.PermAdmin, domain.PermPermissionUpdate))

	// 与用户端同一套命名操作；分组守卫之外，各操作仍按自身规则鉴权
	admin.POST("/op/:name", opHandler(d.Dispatcher, d.Cookies))

	mountAdminActions(admin, d)
	return r
}

func mountAdminActions(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/users  用户列表 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, id authz.Identity, _ *struct{}) ([]domain.User, error) {
			return d.Services.Accounts.Users(c.Request.Context(), id)
		},
	})

	// --- POST /admin/v1/users/:id/permissions  覆盖权限 ---
	type permsIn struct {
		Permissions []string `json:"permissions" binding:"required"`
	}
	httpez.RegisterAction(ez, httpez.Action[permsIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/:id/permissions",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, id authz.Identity, in *permsIn) (*domain.User, error) {
			return d.Services.Accounts.UpdatePermissions(c.Request.Context(), id, c.Param("id"), in.Permissions)
		},
	})
}
