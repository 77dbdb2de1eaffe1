package commands

import (
	"context"
	"time"
)

// PaymentIntent is the gateway's handle for an online charge.
type PaymentIntent struct {
	Ref         string
	CheckoutURL string
	ExpiresAt   time.Time
}

// GatewayEvent is a verified callback from the payment provider.
type GatewayEvent struct {
	Ref      string
	Approved bool
	Amount   int64
	FailCode string
}

// PaymentGateway abstracts the online payment provider.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, ref string, amount int64, currency string) (*PaymentIntent, error)
	// ValidateCallback authenticates a raw webhook payload and extracts the
	// settlement event. Tampered or malformed payloads must error.
	ValidateCallback(ctx context.Context, payload []byte, signature string) (*GatewayEvent, error)
}
