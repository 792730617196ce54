// Package ez gin 上的轻量动作注册：绑定入参、身份校验、统一错误映射
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shop-api/internal/core/authz"
	"shop-api/internal/domain"
	"shop-api/internal/service"
	mdw "shop-api/internal/transport/http/middleware"
	resp "shop-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindURI   Binder = "uri"
	BindNone  Binder = "none"
)

// AErr 带业务码的错误（配合 resp.Error(code, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

var kindCodes = map[service.Kind]int{
	service.KindUnauthenticated: resp.CodeUnauthorized,
	service.KindForbidden:       resp.CodeForbidden,
	service.KindNotFound:        resp.CodeNotFound,
	service.KindValidation:      resp.CodeBadRequest,
	service.KindUpstream:        resp.CodeBadGateway,
	service.KindInternal:        resp.CodeServerError,
}

// FromService 业务/鉴权错误 -> AErr；已是 AErr 则原样返回
func FromService(err error) *AErr {
	if err == nil {
		return nil
	}
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	return &AErr{Code: kindCodes[service.KindOf(err)], Msg: service.PublicMessage(err), Err: err}
}

// WriteError 统一错误输出；内部原因记录到 gin 错误链供访问日志输出
func WriteError(c *gin.Context, err error) {
	ae := FromService(err)
	if ae.Err != nil {
		_ = c.Error(ae.Err)
	}
	c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool                // 要求登录
	Perms   []domain.Permission // 拥有其一即可（隐含 Auth）
	Handler func(c *gin.Context, id authz.Identity, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		id := mdw.IdentityFrom(c)

		// 1) 鉴权
		var gerr error
		switch {
		case len(a.Perms) > 0:
			gerr = authz.RequirePermission(id, a.Perms...)
		case a.Auth:
			gerr = authz.RequireAuthenticated(id)
		}
		if gerr != nil {
			WriteError(c, gerr)
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, id, &in)
		if err != nil {
			WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
