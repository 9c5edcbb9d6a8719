package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subscription plans and statuses.
const (
	PlanBasic   = "basic"
	PlanPremium = "premium"

	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
)

// Payment statuses.
const (
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Subscription is the billing plan attached to one account.
type Subscription struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AccountID  uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	Account    Account   `gorm:"constraint:OnDelete:CASCADE" json:"account"`
	Plan       string    `gorm:"size:10;default:basic" json:"plan"`
	Status     string    `gorm:"size:20" json:"status"`
	ExpiryDate time.Time `gorm:"type:date" json:"expiry_date"`
}

// PaymentRecord is an immutable ledger entry for one payment attempt. The
// gateway's raw response is kept alongside the normalised fields.
type PaymentRecord struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	AccountID     uint              `gorm:"not null;index" json:"account_id"`
	Account       Account           `gorm:"constraint:OnDelete:CASCADE" json:"account"`
	Amount        float64           `gorm:"not null" json:"amount"`
	TransactionID string            `gorm:"size:100;uniqueIndex;not null" json:"transaction_id"`
	Status        string            `gorm:"size:20;not null" json:"status"`
	Metadata      datatypes.JSONMap `json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
}
