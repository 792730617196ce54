package service

import (
	"context"

	"go.uber.org/zap"

	"shop-api/internal/core/authz"
	"shop-api/internal/core/events"
	"shop-api/internal/domain"
)

type Carts struct {
	d Deps
	l *zap.Logger
}

// Add 同一商品重复添加只累加数量
func (s *Carts) Add(ctx context.Context, id authz.Identity, itemID string) (*domain.CartItem, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	it, err := s.d.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, storeErr("find item", err)
	}
	if it == nil {
		return nil, NotFound("item not found")
	}
	ci, err := s.d.Carts.Add(ctx, id.UserID, it.ID)
	if err != nil {
		return nil, storeErr("add to cart", err)
	}
	events.Emit(ctx, s.d.Events, s.l, events.TopicCart, events.Event{
		Type:   events.TypeCartItemAdded,
		UserID: id.UserID,
		Data:   map[string]any{"itemId": it.ID, "quantity": ci.Quantity},
	})
	return ci, nil
}

// Remove 整行删除；只能删除自己的购物车行
func (s *Carts) Remove(ctx context.Context, id authz.Identity, cartItemID string) (*domain.CartItem, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	ci, err := s.d.Carts.FindByID(ctx, cartItemID)
	if err != nil {
		return nil, storeErr("find cart item", err)
	}
	if ci == nil {
		return nil, NotFound("no cart item found")
	}
	if ci.UserID != id.UserID {
		return nil, &Error{Kind: KindForbidden, Msg: "that cart item is not yours"}
	}
	if err := s.d.Carts.Delete(ctx, ci.ID); err != nil {
		return nil, storeErr("remove from cart", err)
	}
	return ci, nil
}

// List 当前用户购物车
func (s *Carts) List(ctx context.Context, id authz.Identity) ([]domain.CartItem, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	rows, err := s.d.Carts.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, storeErr("list cart", err)
	}
	return rows, nil
}
