package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/internal/core/authz"
	"shop-api/internal/core/cache"
	"shop-api/internal/domain"
)

func TestCreateItem_StampsOwner(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@b.com")

	it := e.item(t, a, " Mug ", 900)
	assert.Equal(t, a.UserID, it.OwnerID)
	assert.Equal(t, "Mug", it.Title)

	_, err := e.svc.Items.Create(context.Background(), authz.Anonymous(), ItemInput{Title: "x"})
	assertKind(t, err, KindUnauthenticated)

	_, err = e.svc.Items.Create(context.Background(), a, ItemInput{Title: " "})
	assertKind(t, err, KindValidation)
}

// A 创建，B 删除被拒，管理员 C 删除成功
func TestDeleteItem_OwnershipScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "a@b.com")
	b := e.signup(t, "b@b.com")
	c := e.signup(t, "c@b.com", domain.PermAdmin)

	x := e.item(t, a, "X", 100)
	require.Equal(t, a.UserID, x.OwnerID)

	_, err := e.svc.Items.Delete(ctx, b, x.ID)
	assertKind(t, err, KindForbidden)

	deleted, err := e.svc.Items.Delete(ctx, c, x.ID)
	require.NoError(t, err)
	assert.Equal(t, x.ID, deleted.ID)

	got, err := e.svc.Items.Get(ctx, x.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = e.svc.Items.Delete(ctx, c, x.ID)
	assertKind(t, err, KindNotFound)
}

func TestDeleteItem_OwnerAndPermissionEachSuffice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.signup(t, "o@b.com")
	deleter := e.signup(t, "d@b.com", domain.PermItemDelete)

	mine := e.item(t, owner, "mine", 1)
	_, err := e.svc.Items.Delete(ctx, owner, mine.ID)
	require.NoError(t, err)

	theirs := e.item(t, owner, "theirs", 1)
	_, err = e.svc.Items.Delete(ctx, deleter, theirs.ID)
	require.NoError(t, err)

	_, err = e.svc.Items.Delete(ctx, authz.Anonymous(), theirs.ID)
	assertKind(t, err, KindUnauthenticated)
}

func TestDeleteItem_RemovesFromCarts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.signup(t, "o@b.com")
	buyer := e.signup(t, "buyer@b.com")
	it := e.item(t, owner, "gone", 10)

	_, err := e.svc.Carts.Add(ctx, buyer, it.ID)
	require.NoError(t, err)
	_, err = e.svc.Items.Delete(ctx, owner, it.ID)
	require.NoError(t, err)

	rows, err := e.svc.Carts.List(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateItem(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.signup(t, "o@b.com")
	other := e.signup(t, "x@b.com")
	editor := e.signup(t, "e@b.com", domain.PermItemUpdate)
	it := e.item(t, owner, "old", 10)

	title := "new"
	_, err := e.svc.Items.Update(ctx, other, it.ID, ItemPatch{Title: &title})
	assertKind(t, err, KindForbidden)

	got, err := e.svc.Items.Update(ctx, owner, it.ID, ItemPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, int64(10), got.Price)
	assert.Equal(t, owner.UserID, got.OwnerID)

	price := int64(25)
	got, err = e.svc.Items.Update(ctx, editor, it.ID, ItemPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.Price)
	assert.Equal(t, owner.UserID, got.OwnerID)

	neg := int64(-1)
	_, err = e.svc.Items.Update(ctx, owner, it.ID, ItemPatch{Price: &neg})
	assertKind(t, err, KindValidation)

	_, err = e.svc.Items.Update(ctx, owner, "missing", ItemPatch{Title: &title})
	assertKind(t, err, KindNotFound)

	huge := domain.MaxItemPrice + 1
	_, err = e.svc.Items.Update(ctx, owner, it.ID, ItemPatch{Price: &huge})
	assertKind(t, err, KindValidation)
}

func TestCreateItem_PriceBounds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "bounds@b.com")

	it, err := e.svc.Items.Create(ctx, a, ItemInput{Title: "max", Price: domain.MaxItemPrice})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxItemPrice, it.Price)

	_, err = e.svc.Items.Create(ctx, a, ItemInput{Title: "over", Price: domain.MaxItemPrice + 1})
	assertKind(t, err, KindValidation)
	_, err = e.svc.Items.Create(ctx, a, ItemInput{Title: "neg", Price: -1})
	assertKind(t, err, KindValidation)
}

func TestItemReads(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.signup(t, "o@b.com")
	e.item(t, o, "red shoe", 300)
	e.item(t, o, "blue shoe", 100)
	e.item(t, o, "hat", 200)

	items, err := e.svc.Items.List(ctx, domain.ItemFilter{TitleContains: "shoe", OrderBy: "price_ASC"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "blue shoe", items[0].Title)

	conn, err := e.svc.Items.Connection(ctx, domain.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), conn.Aggregate.Count)

	_, err = e.svc.Items.List(ctx, domain.ItemFilter{Skip: -1})
	assertKind(t, err, KindValidation)
}

func TestItemCache_InvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "t:")
	e := newEnv(t, func(d *Deps) { d.Cache = c })
	ctx := context.Background()
	o := e.signup(t, "o@b.com")
	it := e.item(t, o, "cached", 5)

	got, err := e.svc.Items.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Title)
	assert.True(t, mr.Exists("t:item:"+it.ID))

	list, err := e.svc.Items.List(ctx, domain.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NotEmpty(t, mr.Keys())

	title := "fresh"
	_, err = e.svc.Items.Update(ctx, o, it.ID, ItemPatch{Title: &title})
	require.NoError(t, err)
	assert.False(t, mr.Exists("t:item:"+it.ID))

	got, err = e.svc.Items.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Title)

	e.item(t, o, "second", 6)
	list, err = e.svc.Items.List(ctx, domain.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
