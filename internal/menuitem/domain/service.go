package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
}

type CreateRequest struct {
	Name string `json:"name"`
	// UnitPrice is in minor units (pence).
	UnitPrice int64 `json:"unit_price"`
	// VATRatePercent is a percentage with up to two decimal places,
	// e.g. 20 or 5.5.
	VATRatePercent float64        `json:"vat_rate_percent"`
	Metadata       map[string]any `json:"metadata"`
}

type Response struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	UnitPrice      int64          `json:"unit_price"`
	VATRatePercent float64        `json:"vat_rate_percent"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidPrice   = errors.New("invalid_unit_price")
	ErrInvalidVATRate = errors.New("invalid_vat_rate")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	// ErrNameExists reports a code collision: codes are slugs of the
	// name, so two names that slugify identically clash.
	ErrNameExists = errors.New("name_exists")
)
