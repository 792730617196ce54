package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/internal/domain"
)

// 阻塞直到 ctx 结束，模拟卡住的数据库
type stuckCarts struct{ domain.CartRepository }

func (stuckCarts) ListByUser(ctx context.Context, _ string) ([]domain.CartItem, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type stuckOrders struct{ domain.OrderRepository }

func (stuckOrders) ListByUser(ctx context.Context, _ string) ([]domain.Order, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type stuckItems struct{ domain.ItemRepository }

func (stuckItems) FindByID(ctx context.Context, _ string) (*domain.Item, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestStoreCallsAreBounded(t *testing.T) {
	e := newEnv(t, func(d *Deps) {
		d.StoreTimeout = 30 * time.Millisecond
		d.Carts = stuckCarts{d.Carts}
		d.Orders = stuckOrders{d.Orders}
		d.Items = stuckItems{d.Items}
	})
	u := e.signup(t, "slow@b.com")

	// 请求本身没有截止时间
	ctx := context.Background()
	calls := map[string]func() error{
		"carts.list":  func() error { _, err := e.svc.Carts.List(ctx, u); return err },
		"orders.list": func() error { _, err := e.svc.Orders.List(ctx, u); return err },
		"items.get":   func() error { _, err := e.svc.Items.Get(ctx, "any"); return err },
		"carts.add":   func() error { _, err := e.svc.Carts.Add(ctx, u, "any"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			err := call()
			require.Error(t, err)
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.Equal(t, KindInternal, KindOf(err))
			assert.Contains(t, PublicMessage(err), "timed out")
		})
	}
}

func TestStoreTimeoutKeepsFastCalls(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.StoreTimeout = time.Second })
	u := e.signup(t, "fast@b.com")
	rows, err := e.svc.Carts.List(context.Background(), u)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
