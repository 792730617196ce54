package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shop-api/internal/domain"
	"shop-api/pkg/utils"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create 订单与明细同一事务写入
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = utils.NewID()
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = utils.NewID()
		}
		o.Items[i].OrderID = o.ID
		o.Items[i].UserID = o.UserID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := o.Items
		if err := tx.Omit("Items").Create(o).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		o.Items = items
		return nil
	})
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
