package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"shop-api/internal/core/auth"
	"shop-api/internal/core/authz"
	"shop-api/internal/core/credential"
	"shop-api/internal/core/events"
	"shop-api/internal/core/mail"
	"shop-api/internal/core/payment"
	"shop-api/internal/domain"
	"shop-api/internal/repo"
	"shop-api/internal/testutil"
)

type fakeGateway struct {
	mu       sync.Mutex
	reqs     []payment.ChargeRequest
	err      error
	amount   int64 // 非 0 时覆盖返回金额
	onCharge func()
}

func (g *fakeGateway) Charge(_ context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	g.mu.Unlock()
	if g.onCharge != nil {
		g.onCharge()
	}
	if g.err != nil {
		return nil, g.err
	}
	amt := req.Amount
	if g.amount != 0 {
		amt = g.amount
	}
	return &payment.Charge{ID: "ch_test", Amount: amt}, nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, _ string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// countingUsers 记录重置相关的存储访问
type countingUsers struct {
	domain.UserRepository
	lookups int
}

func (c *countingUsers) ResetPassword(ctx context.Context, token string, now time.Time, hash string) (*domain.User, error) {
	c.lookups++
	return c.UserRepository.ResetPassword(ctx, token, now, hash)
}

type failingOrders struct{ domain.OrderRepository }

func (failingOrders) Create(context.Context, *domain.Order) error { return errors.New("disk full") }

type failingCartClear struct{ domain.CartRepository }

func (failingCartClear) DeleteByIDs(context.Context, string, []string) (int64, error) {
	return 0, errors.New("connection reset")
}

type env struct {
	svc     *Services
	deps    Deps
	users   *countingUsers
	gateway *fakeGateway
	mailer  *fakeMailer
	events  *fakePublisher
	logs    *observer.ObservedLogs
}

func newEnv(t *testing.T, tweak ...func(*Deps)) *env {
	t.Helper()
	db := testutil.NewDB(t)
	core, logs := observer.New(zap.InfoLevel)
	e := &env{
		users:   &countingUsers{UserRepository: repo.NewUserRepo(db)},
		gateway: &fakeGateway{},
		mailer:  &fakeMailer{},
		events:  &fakePublisher{},
		logs:    logs,
	}
	e.deps = Deps{
		Users:       e.users,
		Items:       repo.NewItemRepo(db),
		Carts:       repo.NewCartRepo(db),
		Orders:      repo.NewOrderRepo(db),
		Creds:       credential.NewManager(0, 0),
		Sessions:    auth.NewSessions("test-secret", "shop-api"),
		Mailer:      e.mailer,
		Gateway:     e.gateway,
		Events:      e.events,
		Logger:      zap.New(core),
		FrontendURL: "http://localhost:7777",
		MailFrom:    "shop@example.com",
		Currency:    "USD",
	}
	for _, f := range tweak {
		f(&e.deps)
	}
	e.svc = New(e.deps)
	return e
}

// signup 注册并返回带权限的身份
func (e *env) signup(t *testing.T, email string, perms ...domain.Permission) authz.Identity {
	t.Helper()
	res, err := e.svc.Accounts.Signup(context.Background(), SignupInput{Email: email, Name: "n", Password: "pw-" + email})
	require.NoError(t, err)
	if len(perms) > 0 {
		require.NoError(t, e.users.UpdatePermissions(context.Background(), res.User.ID, perms))
	} else {
		perms = res.User.Permissions
	}
	return authz.Identity{UserID: res.User.ID, Permissions: perms}
}

func (e *env) item(t *testing.T, owner authz.Identity, title string, price int64) *domain.Item {
	t.Helper()
	it, err := e.svc.Items.Create(context.Background(), owner, ItemInput{Title: title, Price: price})
	require.NoError(t, err)
	return it
}

func assertKind(t *testing.T, err error, k Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, k, KindOf(err), "error: %v", err)
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "x", PublicMessage(err))

	wrapped := &CheckoutFailure{State: StateCharging, Err: Upstream("declined", errors.New("card"))}
	assert.Equal(t, KindUpstream, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, ErrUpstream)

	assert.Equal(t, KindForbidden, KindOf(guard(authz.ErrForbidden)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal error", PublicMessage(errors.New("secret detail")))
	assert.Equal(t, "db failed", PublicMessage(Internal("db failed", errors.New("secret detail"))))
}
