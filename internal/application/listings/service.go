package listings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"wavemint-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateListingInput struct {
	SellerID          uuid.UUID
	AssetID           uuid.UUID
	Price             decimal.Decimal
	Currency          string
	RoyaltyPercentage decimal.Decimal
	DurationDays      int
}

var maxRoyalty = decimal.NewFromInt(50)

// CreateListing puts an owned, unlisted asset up for sale. Validation errors are
// returned before any database work so the caller gets immediate feedback.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if !in.Price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}
	if in.RoyaltyPercentage.IsNegative() || in.RoyaltyPercentage.GreaterThan(maxRoyalty) {
		return nil, domain.ErrInvalidRoyalty
	}
	if !domain.AcceptedCurrencies[in.Currency] {
		return nil, domain.ErrInvalidCurrency
	}
	if !domain.AllowedListingDurations[in.DurationDays] {
		return nil, domain.ErrInvalidDuration
	}

	var listing *domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset domain.Asset
		if err := tx.Where("asset_id = ?", in.AssetID).First(&asset).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrAssetNotFound
			}
			return err
		}
		if asset.OwnerID != in.SellerID {
			return domain.ErrAssetNotOwned
		}

		// One active listing per asset. The count gives the friendly error on
		// the common path; the partial unique index is what actually holds
		// under concurrent creates (see isDuplicateActiveListing below).
		var existing int64
		if err := tx.Model(&domain.Listing{}).
			Where("asset_id = ? AND status = ?", in.AssetID, domain.ListingStatusActive).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrAssetAlreadyListed
		}

		now := time.Now().UTC()
		expiresAt := now.Add(time.Duration(in.DurationDays) * 24 * time.Hour)
		listing = &domain.Listing{
			SellerID:          in.SellerID,
			AssetID:           in.AssetID,
			Price:             in.Price,
			Currency:          in.Currency,
			RoyaltyPercentage: in.RoyaltyPercentage,
			Status:            domain.ListingStatusActive,
			CreatedAt:         now,
			ExpiresAt:         &expiresAt,
		}
		if err := tx.Create(listing).Error; err != nil {
			if isDuplicateActiveListing(err) {
				return domain.ErrAssetAlreadyListed
			}
			return err
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"price":              listing.Price,
			"currency":           listing.Currency,
			"royalty_percentage": listing.RoyaltyPercentage,
			"duration_days":      in.DurationDays,
		})
		return tx.Create(&domain.ListingEvent{
			ListingID: listing.ListingID,
			EventType: domain.ListingEventCreated,
			EventData: datatypes.JSON(eventData),
			ActorID:   &in.SellerID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// isDuplicateActiveListing recognizes a violation of
// idx_one_active_listing_per_asset across drivers: postgres names the index,
// sqlite names the column.
func isDuplicateActiveListing(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "idx_one_active_listing_per_asset") ||
		strings.Contains(msg, "UNIQUE constraint failed: Listings.asset_id")
}

// CancelListing transitions an active listing to cancelled. Only the seller may
// cancel, and only while the listing is still active.
func (s *Service) CancelListing(ctx context.Context, sellerID, listingID uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrListingNotFound
			}
			return err
		}
		if listing.SellerID != sellerID {
			return domain.ErrNotListingOwner
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrListingNotActive
		}

		// Conditional transition: a concurrent purchase wins the race, not us.
		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listingID, domain.ListingStatusActive).
			Update("status", domain.ListingStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListingNotActive
		}
		listing.Status = domain.ListingStatusCancelled

		eventData, _ := json.Marshal(map[string]interface{}{"price": listing.Price})
		return tx.Create(&domain.ListingEvent{
			ListingID: listing.ListingID,
			EventType: domain.ListingEventCancelled,
			EventData: datatypes.JSON(eventData),
			ActorID:   &sellerID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ExpireListings transitions every active listing whose expires_at has passed to
// expired. Idempotent: a second run with the same now is a no-op. Returns the
// number of listings transitioned.
func (s *Service) ExpireListings(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var due []domain.Listing
		if err := tx.
			Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", domain.ListingStatusActive, now).
			Find(&due).Error; err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}

		for _, l := range due {
			// Conditional per row: a purchase racing the sweep may have
			// flipped the listing to sold since the read above.
			res := tx.Model(&domain.Listing{}).
				Where("listing_id = ? AND status = ?", l.ListingID, domain.ListingStatusActive).
				Update("status", domain.ListingStatusExpired)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			expired++

			eventData, _ := json.Marshal(map[string]interface{}{"expired_at": l.ExpiresAt})
			if err := tx.Create(&domain.ListingEvent{
				ListingID: l.ListingID,
				EventType: domain.ListingEventExpired,
				EventData: datatypes.JSON(eventData),
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return expired, err
}

func (s *Service) GetListing(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// ActiveListingFilters narrows the marketplace browse view.
type ActiveListingFilters struct {
	Currency *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

func (s *Service) GetActiveListings(ctx context.Context, f ActiveListingFilters) ([]domain.Listing, error) {
	q := s.DB.WithContext(ctx).Where("status = ?", domain.ListingStatusActive)
	if f.Currency != nil && *f.Currency != "" {
		q = q.Where("currency = ?", *f.Currency)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	var out []domain.Listing
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetSellerActiveListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).
		Where("seller_id = ? AND status = ?", sellerID, domain.ListingStatusActive).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetSellerClosedListings returns sold, cancelled and expired listings.
func (s *Service) GetSellerClosedListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).
		Where("seller_id = ? AND status <> ?", sellerID, domain.ListingStatusActive).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
