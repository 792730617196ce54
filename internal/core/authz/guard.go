// Package authz 身份与授权判断。全部为纯函数，不访问存储。
package authz

import (
	"errors"

	"shop-api/internal/domain"
)

var (
	ErrUnauthenticated = errors.New("you must be logged in to do that")
	ErrForbidden       = errors.New("you don't have permission to do that")
)

// Identity 当前请求的操作者；UserID 为空即匿名
type Identity struct {
	UserID      string
	Permissions []domain.Permission
}

func Anonymous() Identity { return Identity{} }

func (id Identity) IsAuthenticated() bool { return id.UserID != "" }

func (id Identity) Has(allowed ...domain.Permission) bool {
	return domain.HasAny(id.Permissions, allowed...)
}

func RequireAuthenticated(id Identity) error {
	if !id.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// RequirePermission 至少拥有 allowed 中的一个
func RequirePermission(id Identity, allowed ...domain.Permission) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if !id.Has(allowed...) {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrPermission 资源所有者 或 拥有 allowed 之一，任一满足即放行
func RequireOwnerOrPermission(id Identity, ownerID string, allowed ...domain.Permission) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if ownerID != "" && id.UserID == ownerID {
		return nil
	}
	if id.Has(allowed...) {
		return nil
	}
	return ErrForbidden
}
