package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"shop-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// FindByID 查不到返回 nil, nil
func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"reset_token": token, "reset_token_expiry": expiry}).Error
}

// ResetPassword token 无效/过期返回 nil, nil。
// 新密码与 token 清空在同一条 UPDATE 中完成，WHERE 带 token 防止并发重复使用。
func (r *UserRepo) ResetPassword(ctx context.Context, token string, now time.Time, passwordHash string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry >= ?", token, now).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND reset_token = ?", u.ID, token).
		Updates(map[string]any{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	u.Password = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	return &u, nil
}

func (r *UserRepo) UpdatePermissions(ctx context.Context, id string, perms []domain.Permission) error {
	// serializer:json 字段走 Select + 结构体更新，保证序列化
	return r.db.WithContext(ctx).Model(&domain.User{ID: id}).
		Select("permissions").
		Updates(&domain.User{Permissions: perms}).Error
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
