package wallets

import (
	"context"

	"wavemint-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// GetBalances returns the user's wallets across all currencies.
func (s *Service) GetBalances(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("currency ASC").
		Find(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

// DepositInput describes a confirmed top-up from the payment provider.
type DepositInput struct {
	PaymentIntentID string
	EventID         string
	UserID          uuid.UUID
	Currency        string
	Amount          decimal.Decimal
	AmountPaidCents int
	Status          string
	Raw             []byte
}

// ProcessDeposit records the deposit and credits the wallet in one transaction.
// Idempotent per PaymentIntent: a replayed webhook is a no-op.
func (s *Service) ProcessDeposit(ctx context.Context, in DepositInput) error {
	if !domain.AcceptedCurrencies[in.Currency] {
		return domain.ErrInvalidCurrency
	}
	if !in.Amount.IsPositive() {
		return domain.ErrInvalidPrice
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Deposit
		if err := tx.Where("stripe_payment_intent_id = ?", in.PaymentIntentID).First(&existing).Error; err == nil {
			return nil // already processed
		}

		deposit := domain.Deposit{
			StripePaymentIntentID: in.PaymentIntentID,
			StripeEventID:         in.EventID,
			UserID:                in.UserID,
			Currency:              in.Currency,
			Amount:                in.Amount,
			AmountPaidCents:       in.AmountPaidCents,
			Status:                in.Status,
			RawPaymentIntent:      datatypes.JSON(in.Raw),
		}
		if err := tx.Create(&deposit).Error; err != nil {
			return err
		}

		var wallet domain.Wallet
		err := tx.Where("user_id = ? AND currency = ?", in.UserID, in.Currency).First(&wallet).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&domain.Wallet{
				UserID:   in.UserID,
				Currency: in.Currency,
				Balance:  in.Amount,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&wallet).Update("balance", gorm.Expr("balance + ?", in.Amount)).Error
	})
}
