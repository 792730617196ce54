package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shop-api/internal/core/authz"
	"shop-api/internal/core/cache"
	"shop-api/internal/domain"
	"shop-api/pkg/utils"
)

type Items struct {
	d Deps
	l *zap.Logger
}

type ItemInput struct {
	Title       string
	Description string
	Image       string
	LargeImage  string
	Price       int64
}

// ItemPatch nil 字段不更新；不含 id/owner
type ItemPatch struct {
	Title       *string
	Description *string
	Image       *string
	LargeImage  *string
	Price       *int64
}

func (p ItemPatch) fields() map[string]any {
	m := map[string]any{}
	if p.Title != nil {
		m["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Image != nil {
		m["image"] = *p.Image
	}
	if p.LargeImage != nil {
		m["large_image"] = *p.LargeImage
	}
	if p.Price != nil {
		m["price"] = *p.Price
	}
	return m
}

// ItemsConnection itemsConnection 的聚合结果
type ItemsConnection struct {
	Aggregate struct {
		Count int64 `json:"count"`
	} `json:"aggregate"`
}

const (
	itemKeyPrefix  = "item:"
	itemsKeyPrefix = "items:"
)

func listKey(f domain.ItemFilter) string {
	return fmt.Sprintf("%s%s|%s|%s|%d|%d", itemsKeyPrefix, f.TitleContains, f.DescriptionContains, f.OrderBy, f.Skip, f.First)
}

func (s *Items) invalidate(ctx context.Context, id string) {
	if s.d.Cache == nil {
		return
	}
	if err := s.d.Cache.Del(ctx, itemKeyPrefix+id); err != nil {
		s.l.Warn("cache del failed", zap.String("item_id", id), zap.Error(err))
	}
	if err := s.d.Cache.DelPrefix(ctx, itemsKeyPrefix); err != nil {
		s.l.Warn("cache del prefix failed", zap.Error(err))
	}
}

// Create 所有者取自当前身份
func (s *Items) Create(ctx context.Context, id authz.Identity, in ItemInput) (*domain.Item, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, Validation("title is required")
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	it := &domain.Item{
		ID:          utils.NewID(),
		OwnerID:     id.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       in.Image,
		LargeImage:  in.LargeImage,
		Price:       in.Price,
	}
	if err := s.d.Items.Create(ctx, it); err != nil {
		return nil, storeErr("create item", err)
	}
	s.invalidate(ctx, it.ID)
	return it, nil
}

func checkPrice(p int64) error {
	switch {
	case p < 0:
		return Validation("price must not be negative")
	case p > domain.MaxItemPrice:
		return Validation(fmt.Sprintf("price must be at most %d", domain.MaxItemPrice))
	}
	return nil
}

func (s *Items) load(ctx context.Context, itemID string) (*domain.Item, error) {
	it, err := s.d.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, storeErr("find item", err)
	}
	if it == nil {
		return nil, NotFound("item not found")
	}
	return it, nil
}

func (s *Items) Update(ctx context.Context, id authz.Identity, itemID string, p ItemPatch) (*domain.Item, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	it, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := guard(authz.RequireOwnerOrPermission(id, it.OwnerID, domain.PermAdmin, domain.PermItemUpdate)); err != nil {
		return nil, err
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, Validation("title must not be empty")
	}
	if p.Price != nil {
		if err := checkPrice(*p.Price); err != nil {
			return nil, err
		}
	}
	if err := s.d.Items.Update(ctx, it.ID, p.fields()); err != nil {
		return nil, storeErr("update item", err)
	}
	s.invalidate(ctx, it.ID)
	return s.load(ctx, it.ID)
}

// Delete 所有者或 ADMIN/ITEMDELETE；同时清理购物车中的引用
func (s *Items) Delete(ctx context.Context, id authz.Identity, itemID string) (*domain.Item, error) {
	if err := guard(authz.RequireAuthenticated(id)); err != nil {
		return nil, err
	}
	it, err := s.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := guard(authz.RequireOwnerOrPermission(id, it.OwnerID, domain.PermAdmin, domain.PermItemDelete)); err != nil {
		return nil, err
	}
	if err := s.d.Items.Delete(ctx, it.ID); err != nil {
		return nil, storeErr("delete item", err)
	}
	s.invalidate(ctx, it.ID)
	s.l.Info("item deleted", zap.String("item_id", it.ID), zap.String("actor", id.UserID))
	return it, nil
}

// Get 不存在返回 nil, nil
func (s *Items) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	it, err := cache.GetOrLoadJSON(s.d.Cache, ctx, itemKeyPrefix+itemID, s.d.CacheTTL,
		func(ctx context.Context) (*domain.Item, error) { return s.d.Items.FindByID(ctx, itemID) })
	if err != nil {
		return nil, storeErr("find item", err)
	}
	return it, nil
}

func (s *Items) List(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	if f.Skip < 0 || f.First < 0 {
		return nil, Validation("skip and first must not be negative")
	}
	out, err := cache.GetOrLoadJSON(s.d.Cache, ctx, listKey(f), s.d.CacheTTL,
		func(ctx context.Context) (*[]domain.Item, error) {
			items, err := s.d.Items.List(ctx, f)
			if err != nil {
				return nil, err
			}
			if items == nil {
				items = []domain.Item{}
			}
			return &items, nil
		})
	if err != nil {
		return nil, storeErr("list items", err)
	}
	if out == nil {
		return []domain.Item{}, nil
	}
	return *out, nil
}

func (s *Items) Connection(ctx context.Context, f domain.ItemFilter) (*ItemsConnection, error) {
	n, err := s.d.Items.Count(ctx, f)
	if err != nil {
		return nil, storeErr("count items", err)
	}
	var c ItemsConnection
	c.Aggregate.Count = n
	return &c, nil
}
