package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/internal/core/authz"
	"shop-api/internal/domain"
)

func TestOrderReads(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.signup(t, "owner@b.com")
	other := e.signup(t, "other@b.com")
	admin := e.signup(t, "admin@b.com", domain.PermAdmin)
	fillCart(t, e, owner)

	o, err := e.svc.Checkout.CreateOrder(ctx, owner, CheckoutRequest{Token: "tok"})
	require.NoError(t, err)

	_, err = e.svc.Orders.Get(ctx, authz.Anonymous(), o.ID)
	assertKind(t, err, KindUnauthenticated)

	_, err = e.svc.Orders.Get(ctx, other, o.ID)
	assertKind(t, err, KindForbidden)

	got, err := e.svc.Orders.Get(ctx, owner, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	// 管理员无需是所有者
	got, err = e.svc.Orders.Get(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = e.svc.Orders.Get(ctx, owner, "missing")
	assertKind(t, err, KindNotFound)

	mine, err := e.svc.Orders.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := e.svc.Orders.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
