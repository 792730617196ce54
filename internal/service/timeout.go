package service

import (
	"context"
	"time"

	"shop-api/internal/domain"
)

// 仓储装饰器：每次存储调用都带 StoreTimeout 截止时间

type timedUsers struct {
	domain.UserRepository
	d time.Duration
}

func (r timedUsers) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.UserRepository.Create(ctx, u)
}

func (r timedUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.UserRepository.FindByID(ctx, id)
}

func (r timedUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.UserRepository.FindByEmail(ctx, email)
}

func (r timedUsers) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.UserRepository.List(ctx)
}

func (r timedUsers) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.UserRepository.SetResetToken(ctx, id, token, expiry)
}

func (r timedUsers) ResetPassword(ctx context.Context, token string, now time.Time, passwordHash string) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.UserRepository.ResetPassword(ctx, token, now, passwordHash)
}

func (r timedUsers) UpdatePermissions(ctx context.Context, id string, perms []domain.Permission) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.UserRepository.UpdatePermissions(ctx, id, perms)
}

type timedItems struct {
	domain.ItemRepository
	d time.Duration
}

func (r timedItems) Create(ctx context.Context, it *domain.Item) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.ItemRepository.Create(ctx, it)
}

func (r timedItems) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.ItemRepository.FindByID(ctx, id)
}

func (r timedItems) List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.ItemRepository.List(ctx, f)
}

func (r timedItems) Count(ctx context.Context, f domain.ItemFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.ItemRepository.Count(ctx, f)
}

func (r timedItems) Update(ctx context.Context, id string, fields map[string]any) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.ItemRepository.Update(ctx, id, fields)
}

func (r timedItems) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.ItemRepository.Delete(ctx, id)
}

type timedCarts struct {
	domain.CartRepository
	d time.Duration
}

func (r timedCarts) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.CartRepository.ListByUser(ctx, userID)
}

func (r timedCarts) FindByID(ctx context.Context, id string) (*domain.CartItem, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.CartRepository.FindByID(ctx, id)
}

func (r timedCarts) Add(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.CartRepository.Add(ctx, userID, itemID)
}

func (r timedCarts) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.CartRepository.Delete(ctx, id)
}

func (r timedCarts) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.CartRepository.DeleteByIDs(ctx, userID, ids)
}

type timedOrders struct {
	domain.OrderRepository
	d time.Duration
}

func (r timedOrders) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.OrderRepository.Create(ctx, o)
}

func (r timedOrders) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.OrderRepository.FindByID(ctx, id)
}

func (r timedOrders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	ctx, cancel := withTimeout(ctx, r.d)
	defer cancel()
	return r.OrderRepository.ListByUser(ctx, userID)
}
