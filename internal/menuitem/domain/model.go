package domain

import (
	"time"

	"github.com/tabwise/epos/internal/money"
	"gorm.io/datatypes"
)

// MenuItem is a priced menu entry. Unit price and VAT rate are
// snapshotted onto tab lines at add time, so editing a menu item never
// retroactively changes an existing line.
type MenuItem struct {
	ID        int64             `json:"id" gorm:"primaryKey"`
	Code      string            `json:"code" gorm:"type:text;not null;uniqueIndex:ux_menu_items_code"`
	Name      string            `json:"name" gorm:"type:text;not null"`
	UnitPrice int64             `json:"unit_price" gorm:"column:unit_price;not null"`
	VATRate   money.VATRate     `json:"vat_rate" gorm:"column:vat_rate;not null"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MenuItem) TableName() string { return "menu_items" }
