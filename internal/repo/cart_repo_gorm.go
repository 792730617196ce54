package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shop-api/internal/domain"
	"shop-api/pkg/utils"
)

type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var rows []domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CartRepo) FindByID(ctx context.Context, id string) (*domain.CartItem, error) {
	var ci domain.CartItem
	err := r.db.WithContext(ctx).Preload("Item").First(&ci, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

func (r *CartRepo) Add(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&domain.CartItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		ci := domain.CartItem{ID: utils.NewID(), UserID: userID, ItemID: itemID, Quantity: 1}
		err := db.Create(&ci).Error
		switch {
		case err == nil:
		case isDupKey(err):
			// 并发添加：唯一索引冲突后改为累加
			if err := db.Model(&domain.CartItem{}).
				Where("user_id = ? AND item_id = ?", userID, itemID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	var out domain.CartItem
	if err := db.Preload("Item").
		Where("user_id = ? AND item_id = ?", userID, itemID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CartRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.CartItem{}).Error
}

func (r *CartRepo) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Delete(&domain.CartItem{})
	return res.RowsAffected, res.Error
}
