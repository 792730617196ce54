package router

import (
	"go.uber.org/zap"

	"shop-api/internal/core/auth"
	"shop-api/internal/core/config"
	"shop-api/internal/dispatch"
	"shop-api/internal/service"
)

// Deps 两个引擎共用的依赖
type Deps struct {
	Logger     *zap.Logger
	Services   *service.Services
	Dispatcher *dispatch.Dispatcher
	Cookies    *auth.CookieHelper
	HTTP       config.HTTP
	Mode       string
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
