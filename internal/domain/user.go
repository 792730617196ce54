package domain

import (
	"context"
	"time"
)

type User struct {
	ID               string       `gorm:"primaryKey;size:36" json:"id"`
	Email            string       `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name             string       `gorm:"size:64" json:"name"`
	Password         string       `gorm:"size:100;not null" json:"-"`
	Permissions      []Permission `gorm:"serializer:json;type:text" json:"permissions"`
	ResetToken       *string      `gorm:"index;size:64" json:"-"`
	ResetTokenExpiry *time.Time   `json:"-"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	SetResetToken(ctx context.Context, id, token string, expiry time.Time) error
	// ResetPassword 用未过期的 token 换新密码，同一条 UPDATE 清空 token 与过期时间
	ResetPassword(ctx context.Context, token string, now time.Time, passwordHash string) (*User, error)
	UpdatePermissions(ctx context.Context, id string, perms []Permission) error
}
