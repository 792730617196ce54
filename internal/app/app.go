// Package app 按配置组装依赖，供 cmd/api 与 cmd/admin 共用
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shop-api/internal/core/auth"
	"shop-api/internal/core/cache"
	"shop-api/internal/core/config"
	"shop-api/internal/core/credential"
	"shop-api/internal/core/database"
	"shop-api/internal/core/events"
	"shop-api/internal/core/mail"
	"shop-api/internal/core/payment"
	"shop-api/internal/dispatch"
	"shop-api/internal/domain"
	"shop-api/internal/repo"
	"shop-api/internal/service"
	"shop-api/internal/transport/http/router"
)

type App struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Cache  *cache.Cache
	Events events.Publisher
	Deps   router.Deps

	closers []func() error
}

// New 打开数据库并按配置启用可选组件（redis / kafka / stripe / smtp）
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Logger:             l,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, domain.Models()...); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	// 缓存：redis 不可达时降级为不缓存
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err != nil {
			l.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			a.closers = append(a.closers, c.Close)
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	a.Events = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.WriteTimeout())
		a.Events = kp
		a.closers = append(a.closers, kp.Close)
		l.Info("kafka publisher enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	var gw payment.Gateway
	if cfg.Payment.StripeSecret != "" {
		gw = payment.NewStripeGateway(cfg.Payment.StripeSecret)
	} else {
		l.Warn("payment.stripesecret not set, checkout disabled")
	}

	var mailer mail.Mailer = mail.LogMailer{L: l.Named("mail")}
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	}

	svc := service.New(service.Deps{
		Users:          repo.NewUserRepo(db),
		Items:          repo.NewItemRepo(db),
		Carts:          repo.NewCartRepo(db),
		Orders:         repo.NewOrderRepo(db),
		Creds:          credential.NewManager(cfg.Session.BcryptCost, cfg.Session.ResetTTL()),
		Sessions:       auth.NewSessions(cfg.Session.Secret, cfg.Session.Issuer),
		Mailer:         mailer,
		Gateway:        gw,
		Events:         a.Events,
		Cache:          a.Cache,
		Logger:         l,
		FrontendURL:    cfg.App.FrontendURL,
		MailFrom:       cfg.Mail.From,
		Currency:       cfg.Payment.Currency,
		CacheTTL:       cfg.Redis.TTL(),
		StoreTimeout:   cfg.Checkout.StoreTimeout(),
		GatewayTimeout: cfg.Checkout.GatewayTimeout(),
	})

	d := dispatch.New()
	dispatch.RegisterAll(d, svc)

	mode := gin.DebugMode
	if cfg.App.Env == "prod" {
		mode = gin.ReleaseMode
	}
	a.Deps = router.Deps{
		Logger:     l,
		Services:   svc,
		Dispatcher: d,
		Cookies: auth.NewCookieHelper(auth.CookieConfig{
			Name:     cfg.Session.CookieName,
			Domain:   cfg.Session.CookieDomain,
			Secure:   cfg.Session.Secure,
			SameSite: auth.ParseSameSite(cfg.Session.SameSite),
		}),
		HTTP: cfg.App.HTTP,
		Mode: mode,
	}
	return a, nil
}

// Close 逆序关闭
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
