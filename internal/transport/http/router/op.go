package router

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-api/internal/core/auth"
	"shop-api/internal/dispatch"
	httpez "shop-api/internal/transport/http/ez"
	mdw "shop-api/internal/transport/http/middleware"
	resp "shop-api/internal/transport/http/response"
)

// opHandler POST /op/:name，body 为操作参数（JSON，可为空）
func opHandler(d *dispatch.Dispatcher, cookies *auth.CookieHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "read body failed"))
			return
		}

		name := c.Param("name")
		if d.Has(name) {
			c.Set(mdw.KeyOperation, name)
		}
		res, err := d.Dispatch(c.Request.Context(), name, mdw.IdentityFrom(c), json.RawMessage(body))
		if err != nil {
			httpez.WriteError(c, err)
			return
		}

		switch res.Session {
		case dispatch.SessionSet:
			cookies.Set(c, res.Token)
		case dispatch.SessionClear:
			cookies.Clear(c)
		}
		c.JSON(http.StatusOK, resp.OK(res.Data))
	}
}
