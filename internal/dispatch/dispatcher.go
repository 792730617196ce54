// Package dispatch 按名称分发操作：解码参数、校验、调用业务处理函数
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shop-api/internal/core/authz"
	"shop-api/internal/service"
)

var opTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{Name: "dispatch_operations_total", Help: "Dispatched operations by name and result kind"},
	[]string{"op", "result"},
)

// SessionEffect 操作对会话 cookie 的副作用
type SessionEffect int

const (
	SessionKeep SessionEffect = iota
	SessionSet
	SessionClear
)

// Call 一次调用的上下文：当前身份 + 会话副作用
type Call struct {
	Identity authz.Identity
	effect   SessionEffect
	token    string
}

func (c *Call) SetSession(token string) { c.effect, c.token = SessionSet, token }
func (c *Call) ClearSession()           { c.effect, c.token = SessionClear, "" }

type Result struct {
	Data    any
	Session SessionEffect
	Token   string
}

type handler func(ctx context.Context, call *Call, raw json.RawMessage) (any, error)

type Dispatcher struct {
	ops      map[string]handler
	validate *validator.Validate
}

func New() *Dispatcher {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 校验错误里使用 json 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Dispatcher{ops: map[string]handler{}, validate: v}
}

// Register 注册命名操作；I 为参数类型，O 为返回数据
func Register[I any, O any](d *Dispatcher, name string, fn func(ctx context.Context, call *Call, in *I) (O, error)) {
	if _, dup := d.ops[name]; dup {
		panic("dispatch: duplicate operation " + name)
	}
	d.ops[name] = func(ctx context.Context, call *Call, raw json.RawMessage) (any, error) {
		var in I
		if err := d.decode(raw, &in); err != nil {
			return nil, err
		}
		return fn(ctx, call, &in)
	}
}

func (d *Dispatcher) decode(raw json.RawMessage, in any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, in); err != nil {
			return service.Validation("invalid arguments: " + err.Error())
		}
	}
	if reflect.Indirect(reflect.ValueOf(in)).Kind() != reflect.Struct {
		return nil
	}
	if err := d.validate.Struct(in); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			msgs := make([]string, 0, len(ves))
			for _, fe := range ves {
				msgs = append(msgs, fieldMessage(fe))
			}
			return service.Validation(strings.Join(msgs, "; "))
		}
		return service.Validation(err.Error())
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Has 是否已注册该操作
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.ops[name]
	return ok
}

// Dispatch 未知操作返回 NotFound
func (d *Dispatcher) Dispatch(ctx context.Context, name string, id authz.Identity, raw json.RawMessage) (*Result, error) {
	h, ok := d.ops[name]
	if !ok {
		opTotal.WithLabelValues("unknown", service.KindNotFound.String()).Inc()
		return nil, service.NotFound("unknown operation " + name)
	}
	call := &Call{Identity: id}
	data, err := h(ctx, call, raw)
	if err != nil {
		opTotal.WithLabelValues(name, service.KindOf(err).String()).Inc()
		return nil, err
	}
	opTotal.WithLabelValues(name, "ok").Inc()
	return &Result{Data: data, Session: call.effect, Token: call.token}, nil
}

func (d *Dispatcher) Names() []string {
	out := make([]string, 0, len(d.ops))
	for n := range d.ops {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
