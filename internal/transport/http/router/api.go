package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"shop-api/internal/core/authz"
	"shop-api/internal/core/server"
	"shop-api/internal/domain"
	httpez "shop-api/internal/transport/http/ez"
	mdw "shop-api/internal/transport/http/middleware"
)

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.logger()
	h := d.HTTP
	r := server.NewRouter(l, server.Options{Mode: d.Mode, CORSOrigins: h.CORSOrigins})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(rate.Limit(h.RatePerSec), h.RateBurst),
		mdw.ConcurrencyLimit(h.MaxInFlight),
		mdw.MaxBodyBytes(h.MaxBodyBytes),
		mdw.Timeout(h.RequestTimeout()),
		mdw.Metrics(),
		mdw.Session(d.Cookies, d.Services.Accounts),
		mdw.AccessLog(l),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 命名操作入口
	api.POST("/op/:name", opHandler(d.Dispatcher, d.Cookies))
	api.GET("/ops", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ops": d.Dispatcher.Names()}) })

	mountAccountActions(api, d)
	return r
}

// mountAccountActions 少量 REST 形式的只读接口，与命名操作共用业务层
func mountAccountActions(api *gin.RouterGroup, d Deps) {
	ez := httpez.New(api)

	// /me 匿名时 data 为 null
	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, id authz.Identity, _ *struct{}) (*domain.User, error) {
			return d.Services.Accounts.Me(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, id authz.Identity, _ *struct{}) ([]domain.Order, error) {
			return d.Services.Orders.List(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.CartItem]{
		Method: http.MethodGet,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, id authz.Identity, _ *struct{}) ([]domain.CartItem, error) {
			return d.Services.Carts.List(c.Request.Context(), id)
		},
	})

	type orderURI struct {
		ID string `uri:"id" binding:"required"`
	}
	httpez.RegisterAction(ez, httpez.Action[orderURI, *domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: httpez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, id authz.Identity, in *orderURI) (*domain.Order, error) {
			return d.Services.Orders.Get(c.Request.Context(), id, in.ID)
		},
	})
}
