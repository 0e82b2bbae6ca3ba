package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds one user's settlement balance in one currency. Balances only move
// inside purchase/deposit transactions and never go negative.
type Wallet struct {
	WalletID  uuid.UUID       `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_wallet_user_currency" json:"user_id"`
	Currency  string          `gorm:"column:currency;type:varchar(10);not null;uniqueIndex:idx_wallet_user_currency" json:"currency"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(30,10);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "Wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == uuid.Nil {
		w.WalletID = uuid.New()
	}
	return nil
}
