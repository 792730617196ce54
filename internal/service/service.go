// Package service 业务操作：账户、商品、购物车、订单与结账。
// 所有操作显式接收 authz.Identity，不从上下文隐式读取当前用户。
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shop-api/internal/core/auth"
	"shop-api/internal/core/cache"
	"shop-api/internal/core/credential"
	"shop-api/internal/core/events"
	"shop-api/internal/core/mail"
	"shop-api/internal/core/payment"
	"shop-api/internal/domain"
)

type Deps struct {
	Users  domain.UserRepository
	Items  domain.ItemRepository
	Carts  domain.CartRepository
	Orders domain.OrderRepository

	Creds    *credential.Manager
	Sessions *auth.Sessions
	Mailer   mail.Mailer
	Gateway  payment.Gateway // 为 nil 时结账不可用
	Events   events.Publisher
	Cache    *cache.Cache // 为 nil 时不缓存
	Logger   *zap.Logger

	FrontendURL    string
	MailFrom       string
	Currency       string
	CacheTTL       time.Duration
	StoreTimeout   time.Duration
	GatewayTimeout time.Duration
}

type Services struct {
	Accounts *Accounts
	Items    *Items
	Carts    *Carts
	Orders   *Orders
	Checkout *Checkout
}

func New(d Deps) *Services {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Mailer == nil {
		d.Mailer = mail.LogMailer{L: d.Logger}
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = time.Minute
	}
	if d.StoreTimeout <= 0 {
		d.StoreTimeout = 5 * time.Second
	}
	if d.GatewayTimeout <= 0 {
		d.GatewayTimeout = 15 * time.Second
	}
	// 结账之外的业务调用同样受单次存储超时约束
	d.Users = timedUsers{UserRepository: d.Users, d: d.StoreTimeout}
	d.Items = timedItems{ItemRepository: d.Items, d: d.StoreTimeout}
	d.Carts = timedCarts{CartRepository: d.Carts, d: d.StoreTimeout}
	d.Orders = timedOrders{OrderRepository: d.Orders, d: d.StoreTimeout}
	return &Services{
		Accounts: &Accounts{d: d, l: d.Logger.Named("accounts")},
		Items:    &Items{d: d, l: d.Logger.Named("items")},
		Carts:    &Carts{d: d, l: d.Logger.Named("carts")},
		Orders:   &Orders{d: d},
		Checkout: newCheckout(d),
	}
}

// Message signout / requestReset 等的简单返回
type Message struct {
	Message string `json:"message"`
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
