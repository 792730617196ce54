package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host             string
	Port             int
	ReadTimeoutSec   int
	WriteTimeoutSec  int
	IdleTimeoutSec   int
	RequestTimeoutMs int
	MaxBodyBytes     int64
	MaxInFlight      int64
	RatePerSec       float64
	RateBurst        int
	CORSOrigins      []string
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Env         string
	FrontendURL string
	HTTP        HTTP
	Admin       AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type Session struct {
	Secret       string
	Issuer       string
	CookieName   string
	CookieDomain string
	Secure       bool
	SameSite     string
	BcryptCost   int
	ResetTTLMin  int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	TTLSec   int    `mapstructure:"ttlsec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
	SlowThresholdMs    int
}

type Kafka struct {
	Brokers        []string
	WriteTimeoutMs int
}

type Payment struct {
	StripeSecret string
	Currency     string
}

type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Checkout struct {
	StoreTimeoutMs   int
	GatewayTimeoutMs int
}

type Config struct {
	App      App
	Log      Log
	Session  Session
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Kafka    Kafka
	Payment  Payment
	Mail     Mail
	Checkout Checkout
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shop-api")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.frontendurl", "http://localhost:7777")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 4444)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 25)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.requesttimeoutms", 20000)
	v.SetDefault("app.http.maxbodybytes", 1<<20)
	v.SetDefault("app.http.maxinflight", 256)
	v.SetDefault("app.http.ratepersec", 20)
	v.SetDefault("app.http.rateburst", 40)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 4445)
	v.SetDefault("log.level", "info")
	v.SetDefault("session.issuer", "shop-api")
	v.SetDefault("session.cookiename", "token")
	v.SetDefault("session.samesite", "lax")
	v.SetDefault("session.bcryptcost", 10)
	v.SetDefault("session.resetttlmin", 60)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:shop.db?cache=shared")
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("db.slowthresholdms", 200)
	v.SetDefault("redis.prefix", "shop:")
	v.SetDefault("redis.ttlsec", 60)
	v.SetDefault("kafka.writetimeoutms", 5000)
	v.SetDefault("payment.currency", "USD")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "shop@example.com")
	v.SetDefault("checkout.storetimeoutms", 5000)
	v.SetDefault("checkout.gatewaytimeoutms", 15000)
}

// Load 读取 YAML，APP_ 前缀环境变量覆盖（APP_SESSION_SECRET → session.secret）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Session.Secret) == "" {
		errs = append(errs, errors.New("session.secret is required"))
	}
	if c.Checkout.StoreTimeoutMs <= 0 {
		errs = append(errs, errors.New("checkout.storetimeoutms must be positive"))
	}
	if c.Checkout.GatewayTimeoutMs <= 0 {
		errs = append(errs, errors.New("checkout.gatewaytimeoutms must be positive"))
	}
	if c.Payment.Currency == "" {
		errs = append(errs, errors.New("payment.currency is required"))
	}
	if c.App.HTTP.Port <= 0 {
		errs = append(errs, errors.New("app.http.port must be positive"))
	}
	return errors.Join(errs...)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (c Checkout) StoreTimeout() time.Duration   { return ms(c.StoreTimeoutMs) }
func (c Checkout) GatewayTimeout() time.Duration { return ms(c.GatewayTimeoutMs) }
func (h HTTP) RequestTimeout() time.Duration     { return ms(h.RequestTimeoutMs) }
func (k Kafka) WriteTimeout() time.Duration      { return ms(k.WriteTimeoutMs) }
func (r Redis) TTL() time.Duration               { return time.Duration(r.TTLSec) * time.Second }
func (s Session) ResetTTL() time.Duration        { return time.Duration(s.ResetTTLMin) * time.Minute }
