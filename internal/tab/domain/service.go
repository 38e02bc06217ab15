package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TabResponse, error)
	AddItem(ctx context.Context, tabID string, req AddItemRequest) (*AddItemResponse, error)
	Get(ctx context.Context, tabID string) (*TabResponse, error)
}

type CreateRequest struct {
	TableNumber int `json:"table_number"`
	Covers      int `json:"covers"`
}

type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Qty        int    `json:"qty"`
}

type TabResponse struct {
	ID            string         `json:"id"`
	TableNumber   int            `json:"table_number"`
	Covers        int            `json:"covers"`
	Status        Status         `json:"status"`
	OpenedAt      time.Time      `json:"opened_at"`
	ClosedAt      *time.Time     `json:"closed_at"`
	Subtotal      int64          `json:"subtotal"`
	ServiceCharge int64          `json:"service_charge"`
	VATTotal      int64          `json:"vat_total"`
	Total         int64          `json:"total"`
	Items         []ItemResponse `json:"items"`
}

type ItemResponse struct {
	ID             string  `json:"id"`
	MenuItemID     string  `json:"menu_item_id"`
	MenuItemName   string  `json:"menu_item_name"`
	Qty            int     `json:"qty"`
	UnitPrice      int64   `json:"unit_price"`
	VATRatePercent float64 `json:"vat_rate_percent"`
	VATAmount      int64   `json:"vat_amount"`
	LineTotal      int64   `json:"line_total"`
}

type TotalsResponse struct {
	Subtotal      int64 `json:"subtotal"`
	ServiceCharge int64 `json:"service_charge"`
	VATTotal      int64 `json:"vat_total"`
	Total         int64 `json:"total"`
}

type AddItemResponse struct {
	Item      ItemResponse   `json:"item"`
	TabTotals TotalsResponse `json:"tab_totals"`
}

var (
	ErrInvalidTableNumber = errors.New("invalid_table_number")
	ErrInvalidCovers      = errors.New("invalid_covers")
	ErrInvalidQty         = errors.New("invalid_qty")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrTabNotOpen         = errors.New("tab_not_open")
)
