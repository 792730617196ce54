package domain

import (
	"context"
	"time"
)

type Order struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	UserID    string      `gorm:"index;size:36;not null" json:"userId"`
	Total     int64       `gorm:"not null" json:"total"`
	Charge    string      `gorm:"size:191;not null" json:"charge"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 下单时商品字段的拷贝，与商品后续修改解耦
type OrderItem struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	OrderID     string `gorm:"index;size:36;not null" json:"orderId"`
	UserID      string `gorm:"size:36;not null" json:"userId"`
	Title       string `gorm:"size:191" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Image       string `gorm:"size:512" json:"image"`
	LargeImage  string `gorm:"size:512" json:"largeImage"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderRepository interface {
	// Create 在一个事务内写入订单及全部明细
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
