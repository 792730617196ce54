package domain

import "errors"

// ErrDuplicate 唯一约束冲突（如重复邮箱）
var ErrDuplicate = errors.New("duplicate key")
