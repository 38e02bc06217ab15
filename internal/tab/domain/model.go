package domain

import (
	"time"

	"github.com/tabwise/epos/internal/money"
)

type Status string

const (
	StatusOpen Status = "open"
	StatusPaid Status = "paid"
)

// Tab is an open bill for a table. The four total columns are derived
// caches: they always equal a full recomputation over the tab's items.
type Tab struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	TableNumber   int        `json:"table_number" gorm:"column:table_number;not null"`
	Covers        int        `json:"covers" gorm:"not null"`
	Status        Status     `json:"status" gorm:"type:text;not null;default:'open';index"`
	OpenedAt      time.Time  `json:"opened_at" gorm:"not null"`
	ClosedAt      *time.Time `json:"closed_at"`
	Subtotal      int64      `json:"subtotal" gorm:"not null;default:0"`
	ServiceCharge int64      `json:"service_charge" gorm:"column:service_charge;not null;default:0"`
	VATTotal      int64      `json:"vat_total" gorm:"column:vat_total;not null;default:0"`
	Total         int64      `json:"total" gorm:"not null;default:0"`

	Items []TabItem `json:"items" gorm:"foreignKey:TabID;constraint:OnDelete:CASCADE"`
}

func (Tab) TableName() string { return "tabs" }

// TabItem is an immutable line on a tab. Price, VAT rate and the menu
// item name are snapshots taken at add time.
type TabItem struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	TabID        int64         `json:"tab_id" gorm:"column:tab_id;not null;index"`
	MenuItemID   int64         `json:"menu_item_id" gorm:"column:menu_item_id;not null"`
	MenuItemName string        `json:"menu_item_name" gorm:"column:menu_item_name;type:text;not null"`
	Qty          int           `json:"qty" gorm:"not null"`
	UnitPrice    int64         `json:"unit_price" gorm:"column:unit_price;not null"`
	VATRate      money.VATRate `json:"vat_rate" gorm:"column:vat_rate;not null"`
	VATAmount    int64         `json:"vat_amount" gorm:"column:vat_amount;not null"`
	LineTotal    int64         `json:"line_total" gorm:"column:line_total;not null"`
	CreatedAt    time.Time     `json:"created_at" gorm:"not null"`
}

func (TabItem) TableName() string { return "tab_items" }

// Lines converts stored items into calculator input.
func (t *Tab) Lines() []money.Line {
	lines := make([]money.Line, 0, len(t.Items))
	for _, item := range t.Items {
		lines = append(lines, money.Line{
			VATAmount: item.VATAmount,
			LineTotal: item.LineTotal,
		})
	}
	return lines
}
