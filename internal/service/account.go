package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"shop-api/internal/core/authz"
	"shop-api/internal/core/events"
	"shop-api/internal/core/mail"
	"shop-api/internal/domain"
	"shop-api/pkg/utils"
)

type Accounts struct {
	d Deps
	l *zap.Logger
}

// AuthResult 建立身份的操作返回用户与新会话令牌
type AuthResult struct {
	User  *domain.User
	Token string
}

type SignupInput struct {
	Email    string
	Name     string
	Password string
}

type ResetInput struct {
	ResetToken      string
	Password        string
	ConfirmPassword string
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (a *Accounts) issue(u *domain.User) (*AuthResult, error) {
	tok, err := a.d.Sessions.Issue(u.ID)
	if err != nil {
		return nil, Internal("issue session failed", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}

func (a *Accounts) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, Validation("email and password are required")
	}
	hash, err := a.d.Creds.HashPassword(in.Password)
	if err != nil {
		return nil, Internal("hash password failed", err)
	}
	u := &domain.User{
		ID:          utils.NewID(),
		Email:       email,
		Name:        strings.TrimSpace(in.Name),
		Password:    hash,
		Permissions: []domain.Permission{domain.PermUser},
	}
	if err := a.d.Users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, Validation("an account with that email already exists")
		}
		return nil, storeErr("create user", err)
	}
	a.l.Info("user signed up", zap.String("user_id", u.ID))
	events.Emit(ctx, a.d.Events, a.l, events.TopicUser, events.Event{
		Type: events.TypeUserSignedUp, UserID: u.ID,
	})
	return a.issue(u)
}

// Signin 未知邮箱 NotFound，密码错误 Validation
func (a *Accounts) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := a.d.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeErr("find user", err)
	}
	if u == nil {
		return nil, NotFound("no user found for email " + normalizeEmail(email))
	}
	if !a.d.Creds.VerifyPassword(password, u.Password) {
		return nil, Validation("invalid password")
	}
	return a.issue(u)
}

// Signout 会话无服务端状态，清除 cookie 由传输层完成
func (a *Accounts) Signout() Message { return Message{Message: "Goodbye!"} }

func (a *Accounts) RequestReset(ctx context.Context, email string) (Message, error) {
	email = normalizeEmail(email)
	u, err := a.d.Users.FindByEmail(ctx, email)
	if err != nil {
		return Message{}, storeErr("find user", err)
	}
	if u == nil {
		return Message{}, NotFound("no user found for email " + email)
	}
	tok, exp, err := a.d.Creds.IssueResetToken()
	if err != nil {
		return Message{}, Internal("generate reset token failed", err)
	}
	if err := a.d.Users.SetResetToken(ctx, u.ID, tok, exp); err != nil {
		return Message{}, storeErr("save reset token", err)
	}

	// 邮件失败不影响令牌签发
	html, err := mail.ResetEmail(a.d.FrontendURL, tok, "Shop")
	if err == nil {
		err = a.d.Mailer.Send(ctx, mail.Message{From: a.d.MailFrom, To: u.Email, Subject: "Your Password Reset Token", HTML: html})
	}
	if err != nil {
		a.l.Error("send reset email failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	return Message{Message: "Thanks!"}, nil
}

// ResetPassword 两次密码不一致时在任何查询之前返回 Validation
func (a *Accounts) ResetPassword(ctx context.Context, in ResetInput) (*AuthResult, error) {
	if in.Password != in.ConfirmPassword {
		return nil, Validation("your passwords don't match")
	}
	if in.Password == "" || in.ResetToken == "" {
		return nil, Validation("reset token and password are required")
	}
	hash, err := a.d.Creds.HashPassword(in.Password)
	if err != nil {
		return nil, Internal("hash password failed", err)
	}
	u, err := a.d.Users.ResetPassword(ctx, in.ResetToken, a.d.Creds.Clock(), hash)
	if err != nil {
		return nil, storeErr("reset password", err)
	}
	if u == nil {
		return nil, Validation("reset token is invalid or expired")
	}
	a.l.Info("password reset", zap.String("user_id", u.ID))
	return a.issue(u)
}

func (a *Accounts) UpdatePermissions(ctx context.Context, id authz.Identity, userID string, tags []string) (*domain.User, error) {
	if err := guard(authz.RequirePermission(id, domain.PermAdmin, domain.PermPermissionUpdate)); err != nil {
		return nil, err
	}
	perms, err := domain.ParsePermissions(tags)
	if err != nil {
		return nil, Validation(err.Error())
	}
	u, err := a.d.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("find user", err)
	}
	if u == nil {
		return nil, NotFound("user not found")
	}
	if err := a.d.Users.UpdatePermissions(ctx, u.ID, perms); err != nil {
		return nil, storeErr("update permissions", err)
	}
	u.Permissions = perms
	a.l.Info("permissions updated",
		zap.String("actor", id.UserID),
		zap.String("user_id", u.ID),
		zap.Any("permissions", perms))
	return u, nil
}

// Me 匿名返回 nil, nil
func (a *Accounts) Me(ctx context.Context, id authz.Identity) (*domain.User, error) {
	if !id.IsAuthenticated() {
		return nil, nil
	}
	u, err := a.d.Users.FindByID(ctx, id.UserID)
	if err != nil {
		return nil, storeErr("find user", err)
	}
	return u, nil
}

func (a *Accounts) Users(ctx context.Context, id authz.Identity) ([]domain.User, error) {
	if err := guard(authz.RequirePermission(id, domain.PermAdmin, domain.PermPermissionUpdate)); err != nil {
		return nil, err
	}
	users, err := a.d.Users.List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

// Identify 会话令牌 -> 身份；令牌缺失/无效或用户不存在均视为匿名
func (a *Accounts) Identify(ctx context.Context, token string) authz.Identity {
	if token == "" {
		return authz.Anonymous()
	}
	uid, err := a.d.Sessions.Parse(token)
	if err != nil {
		return authz.Anonymous()
	}
	u, err := a.d.Users.FindByID(ctx, uid)
	if err != nil {
		a.l.Warn("load session user failed", zap.String("user_id", uid), zap.Error(err))
		return authz.Anonymous()
	}
	if u == nil {
		return authz.Anonymous()
	}
	return authz.Identity{UserID: u.ID, Permissions: u.Permissions}
}
