package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "token"
	SessionMaxAge = 365 * 24 * time.Hour
)

type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// ParseSameSite lax/strict/none，其它按 lax
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// CookieHelper 会话 cookie 的写入/清除/读取
type CookieHelper struct {
	cfg CookieConfig
}

func NewCookieHelper(cfg CookieConfig) *CookieHelper {
	if cfg.Name == "" {
		cfg.Name = SessionCookie
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &CookieHelper{cfg: cfg}
}

func (h *CookieHelper) Set(c *gin.Context, token string) {
	h.setCookie(c, token, int(SessionMaxAge.Seconds()))
}

func (h *CookieHelper) Clear(c *gin.Context) {
	h.setCookie(c, "", -1)
}

// Token 未携带返回空串
func (h *CookieHelper) Token(c *gin.Context) string {
	v, err := c.Cookie(h.cfg.Name)
	if err != nil {
		return ""
	}
	return v
}

func (h *CookieHelper) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.cfg.SameSite)
	c.SetCookie(h.cfg.Name, value, maxAge, h.cfg.Path, h.cfg.Domain, h.cfg.Secure, true)
}
