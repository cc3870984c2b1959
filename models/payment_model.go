package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records the transaction reference behind a subscription purchase.
// The gateway call itself happens outside this system.
type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SubscriptionID uuid.UUID  `gorm:"not null;unique" json:"subscription_id"`
	Amount         float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency       string     `gorm:"size:3;default:'EGP'" json:"currency"`
	Provider       string     `gorm:"size:50;not null" json:"provider"`
	ProviderTxnID  *string    `gorm:"size:255;unique" json:"provider_txn_id"`

	Subscription Subscription `gorm:"foreignkey:SubscriptionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
