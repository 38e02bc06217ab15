package domain

import "time"

type Status string

const (
	// StatusRequiresConfirmation is the only non-terminal state.
	StatusRequiresConfirmation Status = "requires_confirmation"
	StatusSucceeded            Status = "succeeded"
	StatusFailed               Status = "failed"
)

// Payment records one payment attempt against a tab. A tab may
// accumulate several rows over time but holds at most one in
// requires_confirmation. Rows are created on intent creation, mutated
// only by confirmation and never deleted.
type Payment struct {
	ID    int64 `json:"id" gorm:"primaryKey"`
	TabID int64 `json:"tab_id" gorm:"column:tab_id;not null;index"`
	// PaymentIntentID is internal only; callers see the client secret.
	PaymentIntentID string     `json:"-" gorm:"column:payment_intent_id;type:text;not null;uniqueIndex:ux_payments_intent"`
	Amount          int64      `json:"amount" gorm:"not null"`
	Currency        string     `json:"currency" gorm:"type:text;not null;default:'gbp'"`
	Status          Status     `json:"status" gorm:"type:text;not null;index"`
	FailureReason   *string    `json:"failure_reason" gorm:"column:failure_reason;type:text"`
	CreatedAt       time.Time  `json:"created_at" gorm:"not null"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
}

func (Payment) TableName() string { return "payments" }

func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
