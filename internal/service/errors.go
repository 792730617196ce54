package service

import (
	"context"
	"errors"

	"shop-api/internal/core/authz"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error 业务错误；Msg 面向调用方，Err 为内部原因（只进日志）
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is 与同 Kind 的哨兵错误匹配，如 errors.Is(err, service.ErrNotFound)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUpstream        = &Error{Kind: KindUpstream}
	ErrInternal        = &Error{Kind: KindInternal}
)

func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Msg: msg} }
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// guard 把 authz 的判定结果转换成业务错误
func guard(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, authz.ErrUnauthenticated):
		return &Error{Kind: KindUnauthenticated, Msg: err.Error()}
	case errors.Is(err, authz.ErrForbidden):
		return &Error{Kind: KindForbidden, Msg: err.Error()}
	}
	return Internal("authorization failed", err)
}

// KindOf 任意错误的分类；未识别的都归为 Internal
func KindOf(err error) Kind {
	var se *Error
	switch {
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, authz.ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, authz.ErrForbidden):
		return KindForbidden
	}
	return KindInternal
}

// PublicMessage 对外可见的消息；Internal 不泄露底层原因
func PublicMessage(err error) string {
	var se *Error
	if errors.As(err, &se) {
		if se.Msg != "" {
			return se.Msg
		}
		if se.Kind != KindInternal && se.Err != nil {
			return se.Err.Error()
		}
		return se.Kind.String()
	}
	switch KindOf(err) {
	case KindUnauthenticated:
		return authz.ErrUnauthenticated.Error()
	case KindForbidden:
		return authz.ErrForbidden.Error()
	}
	return "internal error"
}

// storeErr 存储层错误统一包装；超时单独提示
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Internal(op+" timed out", err)
	}
	return Internal(op+" failed", err)
}
