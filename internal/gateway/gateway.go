// Package gateway abstracts the external payment processor behind a
// two-call interface: create an intent, then confirm it.
package gateway

import (
	"context"
	"errors"
)

const (
	StatusRequiresConfirmation = "requires_confirmation"
	StatusSucceeded            = "succeeded"
	StatusFailed               = "failed"
)

const DefaultCurrency = "gbp"

// Intent is a freshly created payment attempt. The intent id stays
// internal; only the client secret is ever handed to a payer.
type Intent struct {
	IntentID     string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

// ConfirmResult reports the processor's decision for an intent.
type ConfirmResult struct {
	Status string
	Reason string
}

// Gateway is a payment processor. Calls are synchronous and not
// retried by callers.
type Gateway interface {
	Provider() string
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
	Confirm(ctx context.Context, intentID string, amount int64) (*ConfirmResult, error)
}

// Factory builds a gateway for its provider name.
type Factory interface {
	Provider() string
	NewGateway() (Gateway, error)
}

var ErrProviderNotFound = errors.New("payment provider not found")
