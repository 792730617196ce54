package service

import (
	"context"

	"shop-api/internal/core/authz"
	"shop-api/internal/domain"
)

type Orders struct {
	d Deps
}

// Get 所有者或 ADMIN
func (s *Orders) Get(ctx context.Context, id authz.Identity, orderID string) (*domain.Order, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	o, err := s.d.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, storeErr("find order", err)
	}
	if o == nil {
		return nil, NotFound("order not found")
	}
	if err := guard(authz.RequireOwnerOrPermission(id, o.UserID, domain.PermAdmin)); err != nil {
		return nil, err
	}
	return o, nil
}

// List 当前用户订单，新的在前
func (s *Orders) List(ctx context.Context, id authz.Identity) ([]domain.Order, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	orders, err := s.d.Orders.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
