package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service interface {
	// CreateIntent starts (or idempotently re-issues) a payment intent
	// for a tab's current total.
	CreateIntent(ctx context.Context, tabID string) (*IntentResponse, error)
	// TakePayment confirms the intent identified by the client secret.
	// Safe to call repeatedly after a success.
	TakePayment(ctx context.Context, tabID, clientSecret string) (*PaymentResponse, error)
}

type IntentResponse struct {
	ClientSecret string `json:"client_secret"`
	Status       Status `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type PaymentResponse struct {
	Status      Status     `json:"status"`
	Amount      int64      `json:"amount"`
	Currency    string     `json:"currency"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
}

var (
	ErrInvalidID = errors.New("invalid_id")
	ErrNotFound  = errors.New("not_found")
	// ErrEmptyTab rejects intents for tabs without items.
	ErrEmptyTab = errors.New("empty_tab")
	// ErrSecretNotFound covers both expired and never-issued secrets;
	// callers cannot tell the difference.
	ErrSecretNotFound = errors.New("secret_not_found_or_expired")
	// ErrAlreadyFailed is terminal: a new intent must be created.
	ErrAlreadyFailed = errors.New("payment_already_failed")
	ErrDeclined      = errors.New("payment_declined")
)

// DeclinedError carries the gateway's decline reason so the boundary
// can surface a distinct payment-required response.
type DeclinedError struct {
	Reason string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Reason)
}

func (e *DeclinedError) Is(target error) bool {
	return target == ErrDeclined
}
