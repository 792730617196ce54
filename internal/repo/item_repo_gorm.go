package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop-api/internal/domain"
)

type ItemRepo struct{ db *gorm.DB }

func NewItemRepo(db *gorm.DB) *ItemRepo { return &ItemRepo{db: db} }

// 允许的排序（外部名 -> 列）
var itemOrderColumns = map[string]clause.OrderByColumn{
	"createdAt_DESC": {Column: clause.Column{Name: "created_at"}, Desc: true},
	"createdAt_ASC":  {Column: clause.Column{Name: "created_at"}},
	"price_DESC":     {Column: clause.Column{Name: "price"}, Desc: true},
	"price_ASC":      {Column: clause.Column{Name: "price"}},
	"title_ASC":      {Column: clause.Column{Name: "title"}},
	"title_DESC":     {Column: clause.Column{Name: "title"}, Desc: true},
}

const maxItemsPage = 100

func (r *ItemRepo) Create(ctx context.Context, it *domain.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ItemRepo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	var it domain.Item
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) filtered(ctx context.Context, f domain.ItemFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Item{})
	title := strings.TrimSpace(f.TitleContains)
	desc := strings.TrimSpace(f.DescriptionContains)
	switch {
	case title != "" && desc != "":
		q = q.Where("title LIKE ? OR description LIKE ?", "%"+title+"%", "%"+desc+"%")
	case title != "":
		q = q.Where("title LIKE ?", "%"+title+"%")
	case desc != "":
		q = q.Where("description LIKE ?", "%"+desc+"%")
	}
	return q
}

func (r *ItemRepo) List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	q := r.filtered(ctx, f)
	order, ok := itemOrderColumns[f.OrderBy]
	if !ok {
		order = itemOrderColumns["createdAt_DESC"]
	}
	q = q.Order(order)
	if f.First > 0 {
		if f.First > maxItemsPage {
			f.First = maxItemsPage
		}
		q = q.Limit(f.First)
	}
	if f.Skip > 0 {
		q = q.Offset(f.Skip)
	}
	var items []domain.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepo) Count(ctx context.Context, f domain.ItemFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Update 只更新 fields 中的列；调用方负责剔除 id/owner
func (r *ItemRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	delete(fields, "id")
	delete(fields, "owner_id")
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
