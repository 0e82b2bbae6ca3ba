package trading

import (
	"context"
	"encoding/json"
	"time"

	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service settles purchases. TreasuryID is the account that accrues the
// marketplace fee on every sale.
type Service struct {
	DB         *gorm.DB
	TreasuryID uuid.UUID
}

// Purchase validates a purchase against the listing and settles it atomically:
// listing → sold, asset owner → buyer, one SaleRecord, and the wallet movements
// for buyer, seller, creator and treasury. Preconditions are checked in order
// and the first failure wins. The conditional status update is the single
// serialization point: of two concurrent purchases exactly one sees
// RowsAffected == 1, the other gets ErrListingNotActive.
func (s *Service) Purchase(ctx context.Context, buyerID, listingID uuid.UUID) (*domain.SaleRecord, error) {
	var sale *domain.SaleRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing domain.Listing
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrListingNotFound
			}
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrListingNotActive
		}
		if buyerID == listing.SellerID {
			return domain.ErrSelfPurchase
		}

		var buyerWallet domain.Wallet
		if err := tx.Where("user_id = ? AND currency = ?", buyerID, listing.Currency).First(&buyerWallet).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrInsufficientFunds
			}
			return err
		}
		if buyerWallet.Balance.LessThan(listing.Price) {
			return domain.ErrInsufficientFunds
		}

		split, err := pricing.Split(listing.Price, listing.RoyaltyPercentage)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		// Conditional transition active → sold; a lost race fails here, never after.
		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listingID, domain.ListingStatusActive).
			Updates(map[string]interface{}{"status": domain.ListingStatusSold, "sold_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListingNotActive
		}

		var asset domain.Asset
		if err := tx.Where("asset_id = ?", listing.AssetID).First(&asset).Error; err != nil {
			return err
		}
		if err := tx.Model(&asset).Update("owner_id", buyerID).Error; err != nil {
			return err
		}

		// Conditional debit so a concurrent spend from the same wallet cannot
		// slip past the funds check above on a stale read.
		debit := tx.Model(&domain.Wallet{}).
			Where("wallet_id = ? AND balance >= ?", buyerWallet.WalletID, listing.Price).
			Update("balance", gorm.Expr("balance - ?", listing.Price))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return domain.ErrInsufficientFunds
		}
		if err := creditWallet(tx, listing.SellerID, listing.Currency, split.SellerProceeds); err != nil {
			return err
		}
		// Creator may equal seller; the credits combine on the same wallet row.
		if err := creditWallet(tx, asset.CreatorID, listing.Currency, split.RoyaltyFee); err != nil {
			return err
		}
		if err := creditWallet(tx, s.TreasuryID, listing.Currency, split.MarketplaceFee); err != nil {
			return err
		}

		sale = &domain.SaleRecord{
			ListingID:      listing.ListingID,
			AssetID:        listing.AssetID,
			SellerID:       listing.SellerID,
			BuyerID:        buyerID,
			Price:          listing.Price,
			Currency:       listing.Currency,
			MarketplaceFee: split.MarketplaceFee,
			RoyaltyFee:     split.RoyaltyFee,
			SellerProceeds: split.SellerProceeds,
			CompletedAt:    now,
		}
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"buyer_id":        buyerID,
			"price":           listing.Price,
			"marketplace_fee": split.MarketplaceFee,
			"royalty_fee":     split.RoyaltyFee,
			"seller_proceeds": split.SellerProceeds,
		})
		return tx.Create(&domain.ListingEvent{
			ListingID: listing.ListingID,
			EventType: domain.ListingEventSold,
			EventData: datatypes.JSON(eventData),
			ActorID:   &buyerID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// creditWallet adds amount to the user's wallet in the given currency, creating
// the wallet row on first credit.
func creditWallet(tx *gorm.DB, userID uuid.UUID, currency string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	var wallet domain.Wallet
	err := tx.Where("user_id = ? AND currency = ?", userID, currency).First(&wallet).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.Wallet{
			UserID:   userID,
			Currency: currency,
			Balance:  amount,
		}).Error
	}
	if err != nil {
		return err
	}
	// In-database addition: concurrent credits on the same row must not lose
	// an update to a stale in-memory balance.
	return tx.Model(&wallet).Update("balance", gorm.Expr("balance + ?", amount)).Error
}
