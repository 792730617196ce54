package domain

import "context"

type CartItem struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"uniqueIndex:idx_cart_user_item;size:36;not null" json:"userId"`
	ItemID   string `gorm:"uniqueIndex:idx_cart_user_item;size:36;not null" json:"itemId"`
	Quantity int    `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	Item     *Item  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (CartItem) TableName() string { return "cart_items" }

type CartRepository interface {
	// ListByUser 读取购物车快照（预加载 Item）
	ListByUser(ctx context.Context, userID string) ([]CartItem, error)
	FindByID(ctx context.Context, id string) (*CartItem, error)
	// Add 同一 (user,item) 只保留一行，重复添加则数量 +1
	Add(ctx context.Context, userID, itemID string) (*CartItem, error)
	Delete(ctx context.Context, id string) error
	// DeleteByIDs 按快照 id 清理，不重新查询当前购物车
	DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
