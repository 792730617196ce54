package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/internal/core/authz"
)

func TestAddToCart_TwiceIncrements(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.signup(t, "u@b.com")
	it := e.item(t, u, "mug", 100)

	first, err := e.svc.Carts.Add(ctx, u, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := e.svc.Carts.Add(ctx, u, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Quantity)

	rows, err := e.svc.Carts.List(ctx, u)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Quantity)

	assert.Contains(t, e.events.types(), "cart_item_added")
}

func TestAddToCart_Failures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.signup(t, "u@b.com")
	it := e.item(t, u, "mug", 100)

	_, err := e.svc.Carts.Add(ctx, authz.Anonymous(), it.ID)
	assertKind(t, err, KindUnauthenticated)

	_, err = e.svc.Carts.Add(ctx, u, "missing")
	assertKind(t, err, KindNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.signup(t, "u@b.com")
	other := e.signup(t, "o@b.com")
	it := e.item(t, u, "mug", 100)

	ci, err := e.svc.Carts.Add(ctx, u, it.ID)
	require.NoError(t, err)

	_, err = e.svc.Carts.Remove(ctx, other, ci.ID)
	assertKind(t, err, KindForbidden)

	_, err = e.svc.Carts.Remove(ctx, u, "missing")
	assertKind(t, err, KindNotFound)

	removed, err := e.svc.Carts.Remove(ctx, u, ci.ID)
	require.NoError(t, err)
	assert.Equal(t, ci.ID, removed.ID)

	rows, err := e.svc.Carts.List(ctx, u)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
