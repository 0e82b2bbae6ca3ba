package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Asset is a minted music collectible. owner_id is the only mutable field after mint;
// the ledger reassigns it atomically on sale. creator_id is the original minter and
// the royalty recipient for every resale.
type Asset struct {
	AssetID       uuid.UUID      `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	OwnerID       uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	CreatorID     uuid.UUID      `gorm:"column:creator_id;type:uuid;not null" json:"creator_id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	ArtistName    string         `gorm:"column:artist_name" json:"artist_name"`
	AudiusTrackID *string        `gorm:"column:audius_track_id;index" json:"audius_track_id"`
	ArtworkURL    string         `gorm:"column:artwork_url" json:"artwork_url"`
	Tier          string         `gorm:"column:tier;type:varchar(20);default:'standard'" json:"tier"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Asset) TableName() string {
	return "Assets"
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == uuid.Nil {
		a.AssetID = uuid.New()
	}
	return nil
}
