package domain

import (
	"fmt"
	"strings"
)

// Permission 角色/权限标签（封闭枚举）
type Permission string

const (
	PermAdmin            Permission = "ADMIN"
	PermUser             Permission = "USER"
	PermItemCreate       Permission = "ITEMCREATE"
	PermItemUpdate       Permission = "ITEMUPDATE"
	PermItemDelete       Permission = "ITEMDELETE"
	PermPermissionUpdate Permission = "PERMISSIONUPDATE"
)

var allPermissions = []Permission{
	PermAdmin, PermUser, PermItemCreate, PermItemUpdate, PermItemDelete, PermPermissionUpdate,
}

// AllPermissions 按声明顺序返回全部权限
func AllPermissions() []Permission {
	return append([]Permission(nil), allPermissions...)
}

func (p Permission) Valid() bool {
	for _, v := range allPermissions {
		if v == p {
			return true
		}
	}
	return false
}

// ParsePermission 大小写不敏感；未知标签报错
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown permission %q", s)
	}
	return p, nil
}

// ParsePermissions 去重并保持输入顺序
func ParsePermissions(in []string) ([]Permission, error) {
	out := make([]Permission, 0, len(in))
	seen := make(map[Permission]struct{}, len(in))
	for _, s := range in {
		p, err := ParsePermission(s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// HasAny 是否拥有 allowed 中任一权限
func HasAny(have []Permission, allowed ...Permission) bool {
	for _, h := range have {
		for _, a := range allowed {
			if h == a {
				return true
			}
		}
	}
	return false
}
