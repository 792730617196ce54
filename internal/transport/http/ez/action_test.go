package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/internal/core/authz"
	"shop-api/internal/domain"
	"shop-api/internal/service"
	mdw "shop-api/internal/transport/http/middleware"
	resp "shop-api/internal/transport/http/response"
)

func TestFromService(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"unauthenticated", service.ErrUnauthenticated, resp.CodeUnauthorized, ""},
		{"authz forbidden", authz.ErrForbidden, resp.CodeForbidden, authz.ErrForbidden.Error()},
		{"not found", service.NotFound("item not found"), resp.CodeNotFound, "item not found"},
		{"validation", service.Validation("bad"), resp.CodeBadRequest, "bad"},
		{"upstream", service.Upstream("card declined", errors.New("stripe 402")), resp.CodeBadGateway, "card declined"},
		{"internal hides cause", errors.New("dial tcp 10.0.0.1: refused"), resp.CodeServerError, ""},
		{"aerr passthrough", BadRequest("nope"), resp.CodeBadRequest, "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ae := FromService(tc.err)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, ae.Error())
			}
			assert.NotContains(t, ae.Error(), "10.0.0.1")
		})
	}
	assert.Nil(t, FromService(nil))
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func newEngine(id authz.Identity, a Action[echoIn, gin.H]) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(mdw.KeyIdentity, id); c.Next() })
	RegisterAction(New(r.Group("")), a)
	return r
}

func post(t *testing.T, r *gin.Engine, body string) resp.Resp {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func echoAction() Action[echoIn, gin.H] {
	return Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(_ *gin.Context, id authz.Identity, in *echoIn) (gin.H, error) {
			if in.Name == "boom" {
				return nil, service.NotFound("no boom")
			}
			return gin.H{"name": in.Name, "uid": id.UserID}, nil
		},
	}
}

func TestRegisterAction(t *testing.T) {
	user := authz.Identity{UserID: "u1", Permissions: []domain.Permission{domain.PermUser}}

	out := post(t, newEngine(user, echoAction()), `{"name":"x"}`)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, map[string]any{"name": "x", "uid": "u1"}, out.Data)

	out = post(t, newEngine(user, echoAction()), `{}`)
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	out = post(t, newEngine(user, echoAction()), `{"name":"boom"}`)
	assert.Equal(t, resp.CodeNotFound, out.Code)
	assert.Equal(t, "no boom", out.Msg)
}

func TestRegisterAction_Guards(t *testing.T) {
	a := echoAction()
	a.Auth = true
	out := post(t, newEngine(authz.Anonymous(), a), `{"name":"x"}`)
	assert.Equal(t, resp.CodeUnauthorized, out.Code)

	a.Perms = []domain.Permission{domain.PermAdmin}
	out = post(t, newEngine(authz.Identity{UserID: "u1"}, a), `{"name":"x"}`)
	assert.Equal(t, resp.CodeForbidden, out.Code)

	out = post(t, newEngine(authz.Identity{UserID: "u1", Permissions: []domain.Permission{domain.PermAdmin}}, a), `{"name":"x"}`)
	assert.Equal(t, resp.CodeOK, out.Code)
}
