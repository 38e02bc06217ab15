// Package mock simulates a payment processor. The decline rule is
// deterministic so integration tests can force failures without a live
// network: any amount whose last two digits are 13 is declined.
package mock

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tabwise/epos/internal/gateway"
)

const (
	providerName = "mock"

	intentPrefix = "pi_"
	secretPrefix = "secret_"

	declineReason = "Insufficient funds"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return providerName
}

func (f *Factory) NewGateway() (gateway.Gateway, error) {
	return &Gateway{}, nil
}

type Gateway struct{}

func (g *Gateway) Provider() string {
	return providerName
}

func (g *Gateway) CreateIntent(ctx context.Context, amount int64, currency string) (*gateway.Intent, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = gateway.DefaultCurrency
	}

	return &gateway.Intent{
		IntentID:     intentPrefix + randomToken(),
		ClientSecret: secretPrefix + randomToken(),
		Amount:       amount,
		Currency:     currency,
		Status:       gateway.StatusRequiresConfirmation,
	}, nil
}

func (g *Gateway) Confirm(ctx context.Context, intentID string, amount int64) (*gateway.ConfirmResult, error) {
	if amount%100 == 13 {
		return &gateway.ConfirmResult{
			Status: gateway.StatusFailed,
			Reason: declineReason,
		}, nil
	}
	return &gateway.ConfirmResult{Status: gateway.StatusSucceeded}, nil
}

// randomToken returns 8 hex characters from a fresh uuid, matching the
// shape of processor identifiers without being guessable or sequential.
func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
