package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deposit is a processed wallet top-up. One row per Stripe PaymentIntent
// (unique index gives webhook idempotency).
type Deposit struct {
	DepositID             uuid.UUID       `gorm:"column:deposit_id;type:uuid;primaryKey" json:"deposit_id"`
	StripePaymentIntentID string          `gorm:"column:stripe_payment_intent_id;not null;uniqueIndex" json:"stripe_payment_intent_id"`
	StripeEventID         string          `gorm:"column:stripe_event_id" json:"stripe_event_id"`
	UserID                uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Currency              string          `gorm:"column:currency;type:varchar(10);not null" json:"currency"`
	Amount                decimal.Decimal `gorm:"column:amount;type:numeric(30,10);not null" json:"amount"`
	AmountPaidCents       int             `gorm:"column:amount_paid_cents;not null" json:"amount_paid_cents"`
	Status                string          `gorm:"column:status;type:varchar(30)" json:"status"`
	RawPaymentIntent      datatypes.JSON  `gorm:"column:raw_payment_intent;type:jsonb" json:"-"`
	CreatedAt             time.Time       `json:"created_at"`
}

func (Deposit) TableName() string {
	return "Deposits"
}

func (d *Deposit) BeforeCreate(tx *gorm.DB) error {
	if d.DepositID == uuid.Nil {
		d.DepositID = uuid.New()
	}
	return nil
}
