package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing statuses. Transitions are one-directional: active → sold | cancelled | expired.
const (
	ListingStatusActive    = "active"
	ListingStatusSold      = "sold"
	ListingStatusCancelled = "cancelled"
	ListingStatusExpired   = "expired"
)

// Settlement currencies (closed set).
const (
	CurrencyTON   = "TON"
	CurrencyUSDT  = "USDT"
	CurrencyAudio = "AUDIO"
)

// AcceptedCurrencies is the closed set of currencies a listing may settle in.
var AcceptedCurrencies = map[string]bool{
	CurrencyTON:   true,
	CurrencyUSDT:  true,
	CurrencyAudio: true,
}

// AllowedListingDurations are the listing durations (days) a seller may pick.
var AllowedListingDurations = map[int]bool{7: true, 14: true, 30: true, 60: true, 90: true}

// Listing is an offer to sell one owned asset at a fixed price.
// At most one active listing may exist per asset, enforced by the partial
// unique index idx_one_active_listing_per_asset.
type Listing struct {
	ListingID         uuid.UUID       `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	SellerID          uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	AssetID           uuid.UUID       `gorm:"column:asset_id;type:uuid;not null;uniqueIndex:idx_one_active_listing_per_asset,where:status = 'active'" json:"asset_id"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(30,10);not null" json:"price"`
	Currency          string          `gorm:"column:currency;type:varchar(10);not null" json:"currency"`
	RoyaltyPercentage decimal.Decimal `gorm:"column:royalty_percentage;type:numeric(5,2);not null" json:"royalty_percentage"`
	Status            string          `gorm:"column:status;type:varchar(16);not null;default:'active';index" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	ExpiresAt         *time.Time      `gorm:"column:expires_at" json:"expires_at"`
	SoldAt            *time.Time      `gorm:"column:sold_at" json:"sold_at"`
}

func (Listing) TableName() string {
	return "Listings"
}

// BeforeCreate sets listing_id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}
