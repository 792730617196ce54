package dispatch

import (
	"context"

	"shop-api/internal/domain"
	"shop-api/internal/service"
)

type (
	idArgs struct {
		ID string `json:"id" validate:"required"`
	}
	none struct{}

	itemArgs struct {
		Title       string `json:"title" validate:"required,max=191"`
		Description string `json:"description"`
		Image       string `json:"image" validate:"max=512"`
		LargeImage  string `json:"largeImage" validate:"max=512"`
		Price       int64  `json:"price" validate:"min=0,max=10000000000"`
	}
	// 仅 id 作为定位；不接受 ownerId
	updateItemArgs struct {
		ID          string  `json:"id" validate:"required"`
		Title       *string `json:"title" validate:"omitempty,max=191"`
		Description *string `json:"description"`
		Image       *string `json:"image" validate:"omitempty,max=512"`
		LargeImage  *string `json:"largeImage" validate:"omitempty,max=512"`
		Price       *int64  `json:"price" validate:"omitempty,min=0,max=10000000000"`
	}
	signupArgs struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"max=64"`
		Password string `json:"password" validate:"required"`
	}
	signinArgs struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	requestResetArgs struct {
		Email string `json:"email" validate:"required,email"`
	}
	resetPasswordArgs struct {
		ResetToken      string `json:"resetToken" validate:"required"`
		Password        string `json:"password" validate:"required"`
		ConfirmPassword string `json:"confirmPassword" validate:"required"`
	}
	updatePermissionsArgs struct {
		UserID      string   `json:"userId" validate:"required"`
		Permissions []string `json:"permissions"`
	}
	createOrderArgs struct {
		Token          string `json:"token" validate:"required"`
		IdempotencyKey string `json:"idempotencyKey" validate:"max=255"`
	}
	itemWhere struct {
		TitleContains       string `json:"title_contains"`
		DescriptionContains string `json:"description_contains"`
	}
	itemsArgs struct {
		Where   itemWhere `json:"where"`
		OrderBy string    `json:"orderBy"`
		Skip    int       `json:"skip" validate:"min=0"`
		First   int       `json:"first" validate:"min=0,max=100"`
	}
	connectionArgs struct {
		Where itemWhere `json:"where"`
	}
)

func (a itemsArgs) filter() domain.ItemFilter {
	return domain.ItemFilter{
		TitleContains:       a.Where.TitleContains,
		DescriptionContains: a.Where.DescriptionContains,
		OrderBy:             a.OrderBy,
		Skip:                a.Skip,
		First:               a.First,
	}
}

// RegisterAll 注册全部对外操作（名称即外部契约）
func RegisterAll(d *Dispatcher, s *service.Services) {
	// ---- 账户 ----
	Register(d, "signup", func(ctx context.Context, call *Call, in *signupArgs) (*domain.User, error) {
		res, err := s.Accounts.Signup(ctx, service.SignupInput{Email: in.Email, Name: in.Name, Password: in.Password})
		if err != nil {
			return nil, err
		}
		call.SetSession(res.Token)
		return res.User, nil
	})
	Register(d, "signin", func(ctx context.Context, call *Call, in *signinArgs) (*domain.User, error) {
		res, err := s.Accounts.Signin(ctx, in.Email, in.Password)
		if err != nil {
			return nil, err
		}
		call.SetSession(res.Token)
		return res.User, nil
	})
	Register(d, "signout", func(_ context.Context, call *Call, _ *none) (service.Message, error) {
		call.ClearSession()
		return s.Accounts.Signout(), nil
	})
	Register(d, "requestReset", func(ctx context.Context, _ *Call, in *requestResetArgs) (service.Message, error) {
		return s.Accounts.RequestReset(ctx, in.Email)
	})
	Register(d, "resetPassword", func(ctx context.Context, call *Call, in *resetPasswordArgs) (*domain.User, error) {
		res, err := s.Accounts.ResetPassword(ctx, service.ResetInput{
			ResetToken: in.ResetToken, Password: in.Password, ConfirmPassword: in.ConfirmPassword,
		})
		if err != nil {
			return nil, err
		}
		call.SetSession(res.Token)
		return res.User, nil
	})
	Register(d, "updatePermissions", func(ctx context.Context, call *Call, in *updatePermissionsArgs) (*domain.User, error) {
		return s.Accounts.UpdatePermissions(ctx, call.Identity, in.UserID, in.Permissions)
	})
	Register(d, "me", func(ctx context.Context, call *Call, _ *none) (*domain.User, error) {
		return s.Accounts.Me(ctx, call.Identity)
	})
	Register(d, "users", func(ctx context.Context, call *Call, _ *none) ([]domain.User, error) {
		return s.Accounts.Users(ctx, call.Identity)
	})

	// ---- 商品 ----
	Register(d, "createItem", func(ctx context.Context, call *Call, in *itemArgs) (*domain.Item, error) {
		return s.Items.Create(ctx, call.Identity, service.ItemInput{
			Title: in.Title, Description: in.Description, Image: in.Image, LargeImage: in.LargeImage, Price: in.Price,
		})
	})
	Register(d, "updateItem", func(ctx context.Context, call *Call, in *updateItemArgs) (*domain.Item, error) {
		return s.Items.Update(ctx, call.Identity, in.ID, service.ItemPatch{
			Title: in.Title, Description: in.Description, Image: in.Image, LargeImage: in.LargeImage, Price: in.Price,
		})
	})
	Register(d, "deleteItem", func(ctx context.Context, call *Call, in *idArgs) (*domain.Item, error) {
		return s.Items.Delete(ctx, call.Identity, in.ID)
	})
	Register(d, "items", func(ctx context.Context, _ *Call, in *itemsArgs) ([]domain.Item, error) {
		return s.Items.List(ctx, in.filter())
	})
	Register(d, "item", func(ctx context.Context, _ *Call, in *idArgs) (*domain.Item, error) {
		return s.Items.Get(ctx, in.ID)
	})
	Register(d, "itemsConnection", func(ctx context.Context, _ *Call, in *connectionArgs) (*service.ItemsConnection, error) {
		return s.Items.Connection(ctx, itemsArgs{Where: in.Where}.filter())
	})

	// ---- 购物车 / 订单 ----
	Register(d, "addToCart", func(ctx context.Context, call *Call, in *idArgs) (*domain.CartItem, error) {
		return s.Carts.Add(ctx, call.Identity, in.ID)
	})
	Register(d, "removeFromCart", func(ctx context.Context, call *Call, in *idArgs) (*domain.CartItem, error) {
		return s.Carts.Remove(ctx, call.Identity, in.ID)
	})
	Register(d, "createOrder", func(ctx context.Context, call *Call, in *createOrderArgs) (*domain.Order, error) {
		return s.Checkout.CreateOrder(ctx, call.Identity, service.CheckoutRequest{
			Token: in.Token, IdempotencyKey: in.IdempotencyKey,
		})
	})
	Register(d, "order", func(ctx context.Context, call *Call, in *idArgs) (*domain.Order, error) {
		return s.Orders.Get(ctx, call.Identity, in.ID)
	})
	Register(d, "orders", func(ctx context.Context, call *Call, _ *none) ([]domain.Order, error) {
		return s.Orders.List(ctx, call.Identity)
	})
}
