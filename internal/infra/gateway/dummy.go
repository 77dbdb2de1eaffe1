// Package gateway implements the online payment provider port. The dummy
// implementation signs and verifies callbacks with an HMAC shared secret and
// stands in for a real provider in development and tests.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"finca-reservations/internal/pkg/clock"
	"finca-reservations/internal/pkg/config"
	"finca-reservations/internal/pkg/errs"
	"finca-reservations/internal/usecase/commands"
)

var (
	ErrBadSignature = errs.New("webhook signature mismatch")
	ErrBadPayload   = errs.New("malformed webhook payload")
)

type DummyGateway struct {
	secret      []byte
	checkoutURL string
	clock       clock.Clock
}

func NewDummyGateway(cfg config.GatewayConfig, clk clock.Clock) commands.PaymentGateway {
	return &DummyGateway{
		secret:      []byte(cfg.Secret),
		checkoutURL: cfg.CheckoutURL,
		clock:       clk,
	}
}

func (g *DummyGateway) CreateIntent(ctx context.Context, ref string, amount int64, currency string) (*commands.PaymentIntent, error) {
	return &commands.PaymentIntent{
		Ref:         ref,
		CheckoutURL: fmt.Sprintf("%s/%s?amount=%d&currency=%s", g.checkoutURL, ref, amount, currency),
		ExpiresAt:   g.clock.Now().Add(time.Hour),
	}, nil
}

type callbackPayload struct {
	Ref      string `json:"ref"`
	Approved bool   `json:"approved"`
	Amount   int64  `json:"amount"`
	FailCode string `json:"fail_code"`
}

func (g *DummyGateway) ValidateCallback(ctx context.Context, payload []byte, signature string) (*commands.GatewayEvent, error) {
	if !hmac.Equal([]byte(g.Sign(payload)), []byte(signature)) {
		return nil, ErrBadSignature
	}

	var body callbackPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, errs.Mark(err, ErrBadPayload)
	}
	if body.Ref == "" {
		return nil, ErrBadPayload
	}

	return &commands.GatewayEvent{
		Ref:      body.Ref,
		Approved: body.Approved,
		Amount:   body.Amount,
		FailCode: body.FailCode,
	}, nil
}

// Sign computes the hex HMAC-SHA256 of a payload. Exposed so tests and local
// tooling can produce valid callbacks.
func (g *DummyGateway) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
