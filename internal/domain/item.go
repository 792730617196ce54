package domain

import (
	"context"
	"time"
)

type Item struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string    `gorm:"index;size:36;not null" json:"ownerId"`
	Title       string    `gorm:"size:191;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:512" json:"image"`
	LargeImage  string    `gorm:"size:512" json:"largeImage"`
	Price       int64     `gorm:"not null" json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return "items" }

// MaxItemPrice 单价上限（最小货币单位）
const MaxItemPrice int64 = 100_000_000_00

// ItemFilter items / itemsConnection 的查询条件
type ItemFilter struct {
	TitleContains       string
	DescriptionContains string
	OrderBy             string // "createdAt_DESC" 等
	Skip                int
	First               int
}

type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	FindByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, f ItemFilter) ([]Item, error)
	Count(ctx context.Context, f ItemFilter) (int64, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete 同时删除指向该商品的购物车行
	Delete(ctx context.Context, id string) error
}
