package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"shop-api/internal/core/authz"
	"shop-api/internal/core/events"
	"shop-api/internal/core/payment"
	"shop-api/internal/domain"
)

// CheckoutState 结账状态机的各个阶段
type CheckoutState string

const (
	StateValidating CheckoutState = "validating"
	StatePricing    CheckoutState = "pricing"
	StateCharging   CheckoutState = "charging"
	StateRecording  CheckoutState = "recording"
	StateClearing   CheckoutState = "clearing"
	StateDone       CheckoutState = "done"
	StateFailed     CheckoutState = "failed"
)

// CheckoutFailure 失败时所处阶段 + 业务错误
type CheckoutFailure struct {
	State CheckoutState
	Err   error
}

func (f *CheckoutFailure) Error() string { return fmt.Sprintf("checkout failed at %s: %v", f.State, f.Err) }
func (f *CheckoutFailure) Unwrap() error { return f.Err }

type CheckoutRequest struct {
	Token          string
	IdempotencyKey string
}

type Checkout struct {
	d Deps
	l *zap.Logger
	// 状态迁移回调（测试观察用）
	OnTransition func(from, to CheckoutState)
}

func newCheckout(d Deps) *Checkout {
	return &Checkout{d: d, l: d.Logger.Named("checkout")}
}

// checkoutRun 单次结账的中间数据，不落库
type checkoutRun struct {
	id     authz.Identity
	req    CheckoutRequest
	user   *domain.User
	cart   []domain.CartItem
	total  int64
	charge *payment.Charge
	order  *domain.Order
}

// CreateOrder 校验 → 计价 → 扣款 → 落单 → 清购物车
func (c *Checkout) CreateOrder(ctx context.Context, id authz.Identity, req CheckoutRequest) (*domain.Order, error) {
	run := &checkoutRun{id: id, req: req}
	state := StateValidating
	for state != StateDone {
		next, err := c.step(ctx, state, run)
		if err != nil {
			c.transition(state, StateFailed)
			checkoutTotal.WithLabelValues(string(state)).Inc()
			return nil, &CheckoutFailure{State: state, Err: err}
		}
		c.transition(state, next)
		state = next
	}
	checkoutTotal.WithLabelValues(string(StateDone)).Inc()
	return run.order, nil
}

func (c *Checkout) transition(from, to CheckoutState) {
	c.l.Debug("checkout transition", zap.String("from", string(from)), zap.String("to", string(to)))
	if c.OnTransition != nil {
		c.OnTransition(from, to)
	}
}

func (c *Checkout) step(ctx context.Context, s CheckoutState, run *checkoutRun) (CheckoutState, error) {
	switch s {
	case StateValidating:
		return StatePricing, c.validate(ctx, run)
	case StatePricing:
		return StateCharging, c.price(run)
	case StateCharging:
		return StateRecording, c.chargeCard(ctx, run)
	case StateRecording:
		return StateClearing, c.record(ctx, run)
	case StateClearing:
		c.clear(ctx, run)
		return StateDone, nil
	}
	return StateFailed, Internal("unknown checkout state "+string(s), nil)
}

func (c *Checkout) validate(ctx context.Context, run *checkoutRun) error {
	if err := guard(authz.RequireAuthenticated(run.id)); err != nil {
		return err
	}
	if run.req.Token == "" {
		return Validation("payment token is required")
	}
	sctx, cancel := withTimeout(ctx, c.d.StoreTimeout)
	defer cancel()

	u, err := c.d.Users.FindByID(sctx, run.id.UserID)
	if err != nil {
		return storeErr("load user", err)
	}
	if u == nil {
		return NotFound("user not found")
	}
	cart, err := c.d.Carts.ListByUser(sctx, u.ID)
	if err != nil {
		return storeErr("load cart", err)
	}
	if len(cart) == 0 {
		return Validation("your cart is empty")
	}
	for _, ci := range cart {
		if ci.Item == nil {
			return NotFound("an item in your cart no longer exists")
		}
	}
	run.user, run.cart = u, cart
	return nil
}

// price 服务端按快照计价，不接受调用方传入的金额；任一步溢出即拒绝
func (c *Checkout) price(run *checkoutRun) error {
	var total int64
	for _, ci := range run.cart {
		p, q := ci.Item.Price, int64(ci.Quantity)
		if p < 0 || q <= 0 {
			return Validation("order total is out of range")
		}
		if p > (math.MaxInt64-total)/q {
			return Validation("order total is out of range")
		}
		total += p * q
	}
	if total <= 0 {
		return Validation("order total must be positive")
	}
	run.total = total
	return nil
}

func (c *Checkout) chargeCard(ctx context.Context, run *checkoutRun) error {
	if c.d.Gateway == nil {
		return Upstream("payments are not configured", nil)
	}
	gctx, cancel := withTimeout(ctx, c.d.GatewayTimeout)
	defer cancel()

	ch, err := c.d.Gateway.Charge(gctx, payment.ChargeRequest{
		Amount:         run.total,
		Currency:       c.d.Currency,
		Token:          run.req.Token,
		IdempotencyKey: run.req.IdempotencyKey,
		Description:    "order for " + run.user.Email,
	})
	if err != nil {
		var declined *payment.DeclinedError
		if errors.As(err, &declined) {
			return Upstream(declined.Error(), err)
		}
		return Upstream("payment failed", err)
	}
	run.charge = ch
	c.l.Info("charge captured",
		zap.String("user_id", run.user.ID),
		zap.String("charge_id", ch.ID),
		zap.Int64("amount", ch.Amount))
	return nil
}

// record 订单金额取网关实际扣款额
func (c *Checkout) record(ctx context.Context, run *checkoutRun) error {
	o := &domain.Order{
		UserID: run.user.ID,
		Total:  run.charge.Amount,
		Charge: run.charge.ID,
		Items:  make([]domain.OrderItem, 0, len(run.cart)),
	}
	for _, ci := range run.cart {
		o.Items = append(o.Items, domain.OrderItem{
			Title:       ci.Item.Title,
			Description: ci.Item.Description,
			Image:       ci.Item.Image,
			LargeImage:  ci.Item.LargeImage,
			Price:       ci.Item.Price,
			Quantity:    ci.Quantity,
		})
	}

	// 不继承请求取消：钱已扣，尽量把订单写进去
	sctx, cancel := withTimeout(context.WithoutCancel(ctx), c.d.StoreTimeout)
	defer cancel()
	if err := c.d.Orders.Create(sctx, o); err != nil {
		checkoutReconcileTotal.Inc()
		c.l.Error("checkout reconciliation required",
			zap.String("user_id", run.user.ID),
			zap.String("charge_id", run.charge.ID),
			zap.Int64("amount", run.charge.Amount),
			zap.Int64("computed_total", run.total),
			zap.Error(err))
		return Internal("payment was captured but the order could not be recorded (charge "+run.charge.ID+")", err)
	}
	run.order = o
	return nil
}

// clear 只删除快照中的行；失败只记录，订单照常返回
func (c *Checkout) clear(ctx context.Context, run *checkoutRun) {
	ids := make([]string, len(run.cart))
	for i, ci := range run.cart {
		ids[i] = ci.ID
	}
	sctx, cancel := withTimeout(context.WithoutCancel(ctx), c.d.StoreTimeout)
	defer cancel()
	if _, err := c.d.Carts.DeleteByIDs(sctx, run.user.ID, ids); err != nil {
		c.l.Error("clear cart after checkout failed",
			zap.String("user_id", run.user.ID),
			zap.String("order_id", run.order.ID),
			zap.Strings("cart_item_ids", ids),
			zap.Error(err))
	}
	events.Emit(ctx, c.d.Events, c.l, events.TopicOrder, events.Event{
		Type:   events.TypeOrderCreated,
		UserID: run.user.ID,
		Data:   map[string]any{"orderId": run.order.ID, "total": run.order.Total, "charge": run.order.Charge},
	})
}
