package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRecord is the immutable record of one completed transfer. Created exactly once
// per successful purchase, never updated or deleted.
// marketplace_fee + royalty_fee + seller_proceeds == price, exactly.
type SaleRecord struct {
	SaleID          uuid.UUID       `gorm:"column:sale_id;type:uuid;primaryKey" json:"sale_id"`
	ListingID       uuid.UUID       `gorm:"column:listing_id;type:uuid;not null" json:"listing_id"`
	AssetID         uuid.UUID       `gorm:"column:asset_id;type:uuid;not null" json:"asset_id"`
	SellerID        uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	BuyerID         uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(30,10);not null" json:"price"`
	Currency        string          `gorm:"column:currency;type:varchar(10);not null" json:"currency"`
	MarketplaceFee  decimal.Decimal `gorm:"column:marketplace_fee;type:numeric(30,10);not null" json:"marketplace_fee"`
	RoyaltyFee      decimal.Decimal `gorm:"column:royalty_fee;type:numeric(30,10);not null" json:"royalty_fee"`
	SellerProceeds  decimal.Decimal `gorm:"column:seller_proceeds;type:numeric(30,10);not null" json:"seller_proceeds"`
	CompletedAt     time.Time       `gorm:"column:completed_at;not null;index" json:"completed_at"`
}

func (SaleRecord) TableName() string {
	return "SaleRecords"
}

func (s *SaleRecord) BeforeCreate(tx *gorm.DB) error {
	if s.SaleID == uuid.Nil {
		s.SaleID = uuid.New()
	}
	return nil
}
