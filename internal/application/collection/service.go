package collection

import (
	"context"

	"wavemint-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the read side of the ledger: pure projections over assets,
// listings and sale records. No write capability.
type Service struct {
	DB *gorm.DB
}

// GetOwned returns the user's assets that are not currently listed. Ownership
// does not change while listed, but the UI treats listed and unlisted as
// mutually exclusive views.
func (s *Service) GetOwned(ctx context.Context, userID uuid.UUID) ([]domain.Asset, error) {
	listed := s.DB.Model(&domain.Listing{}).
		Select("asset_id").
		Where("status = ?", domain.ListingStatusActive)

	var assets []domain.Asset
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND asset_id NOT IN (?)", userID, listed).
		Order("created_at DESC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (s *Service) GetActiveListings(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).
		Where("seller_id = ? AND status = ?", userID, domain.ListingStatusActive).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *Service) GetSalesHistory(ctx context.Context, userID uuid.UUID) ([]domain.SaleRecord, error) {
	var sales []domain.SaleRecord
	if err := s.DB.WithContext(ctx).
		Where("seller_id = ?", userID).
		Order("completed_at DESC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *Service) GetPurchaseHistory(ctx context.Context, userID uuid.UUID) ([]domain.SaleRecord, error) {
	var purchases []domain.SaleRecord
	if err := s.DB.WithContext(ctx).
		Where("buyer_id = ?", userID).
		Order("completed_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
