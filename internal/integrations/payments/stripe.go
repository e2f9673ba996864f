package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway депозиты через PaymentIntent с ручным списанием:
// Authorize создает intent, Capture списывает, Void отменяет, Refund возвращает.
type StripeGateway struct {
	api *client.API
	log Logger
}

// NewStripeGateway создает шлюз. backends == nil означает боевые адреса Stripe.
func NewStripeGateway(secretKey string, backends *stripe.Backends, log Logger) *StripeGateway {
	return &StripeGateway{
		api: client.New(secretKey, backends),
		log: log,
	}
}

func (g *StripeGateway) Authorize(ctx context.Context, req AuthorizeRequest) (*Authorization, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount),
		Currency:      stripe.String(req.Currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(req.CustomerEmail)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.log.Error("Stripe authorize failed: amount=%d, error=%v", req.Amount, err)
		return nil, fmt.Errorf("%w: %v", ErrAuthorizeFailed, err)
	}

	return &Authorization{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) Capture(ctx context.Context, authorizationID string, amount int64) error {
	params := &stripe.PaymentIntentCaptureParams{
		AmountToCapture: stripe.Int64(amount),
	}
	params.Context = ctx

	if _, err := g.api.PaymentIntents.Capture(authorizationID, params); err != nil {
		g.log.Error("Stripe capture failed: authorization_id=%s, error=%v", authorizationID, err)
		return wrapStripeError(ErrCaptureFailed, err)
	}
	return nil
}

func (g *StripeGateway) Void(ctx context.Context, authorizationID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx

	if _, err := g.api.PaymentIntents.Cancel(authorizationID, params); err != nil {
		g.log.Error("Stripe void failed: authorization_id=%s, error=%v", authorizationID, err)
		return wrapStripeError(ErrVoidFailed, err)
	}
	return nil
}

func (g *StripeGateway) Refund(ctx context.Context, authorizationID string, amount int64) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(authorizationID),
		Amount:        stripe.Int64(amount),
	}
	params.Context = ctx

	if _, err := g.api.Refunds.New(params); err != nil {
		g.log.Error("Stripe refund failed: authorization_id=%s, error=%v", authorizationID, err)
		return wrapStripeError(ErrRefundFailed, err)
	}
	return nil
}

func wrapStripeError(sentinel, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
		return fmt.Errorf("%w: %w: %s", sentinel, ErrAuthorizationNotFound, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
