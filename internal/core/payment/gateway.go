// Package payment 支付网关
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"
)

type ChargeRequest struct {
	Amount         int64 // 最小货币单位
	Currency       string
	Token          string
	IdempotencyKey string // 可选
	Description    string
}

type Charge struct {
	ID     string
	Amount int64
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// DeclinedError 网关明确拒绝（卡被拒、参数错误等）
type DeclinedError struct {
	Code string
	Msg  string
}

func (e *DeclinedError) Error() string {
	if e.Code == "" {
		return "payment declined: " + e.Msg
	}
	return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Msg)
}

type StripeGateway struct {
	client charge.Client
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return NewStripeGatewayWithBackend(secretKey, stripe.GetBackend(stripe.APIBackend))
}

func NewStripeGatewayWithBackend(secretKey string, b stripe.Backend) *StripeGateway {
	return &StripeGateway{client: charge.Client{B: b, Key: secretKey}}
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if req.Amount <= 0 {
		return nil, errors.New("charge amount must be positive")
	}
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if err := params.SetSource(req.Token); err != nil {
		return nil, &DeclinedError{Msg: err.Error()}
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	ch, err := g.client.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && (se.Type == stripe.ErrorTypeCard || se.Type == stripe.ErrorTypeInvalidRequest) {
			return nil, &DeclinedError{Code: string(se.Code), Msg: se.Msg}
		}
		return nil, fmt.Errorf("stripe charge: %w", err)
	}
	return &Charge{ID: ch.ID, Amount: ch.Amount}, nil
}
