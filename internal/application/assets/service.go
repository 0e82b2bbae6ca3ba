package assets

import (
	"context"
	"encoding/json"
	"errors"

	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/infrastructure/audius"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrTitleRequired = errors.New("Title is required")

// CatalogClient resolves track metadata from the streaming catalog. Nil disables
// catalog lookups (mint still works with caller-supplied metadata).
type CatalogClient interface {
	GetTrack(ctx context.Context, trackID string) (*audius.Track, error)
}

type Service struct {
	DB      *gorm.DB
	Catalog CatalogClient
}

type MintInput struct {
	CreatorID     uuid.UUID
	Title         string
	ArtistName    string
	Tier          string
	ArtworkURL    string
	AudiusTrackID *string
	Metadata      json.RawMessage
}

// Mint creates a new asset owned by (and credited to) the caller. When a track
// id is supplied and the catalog client is configured, missing display fields
// are filled from the catalog and the raw track payload becomes the opaque
// metadata blob.
func (s *Service) Mint(ctx context.Context, in MintInput) (*domain.Asset, error) {
	if in.AudiusTrackID != nil && *in.AudiusTrackID != "" && s.Catalog != nil {
		track, err := s.Catalog.GetTrack(ctx, *in.AudiusTrackID)
		if err != nil {
			return nil, err
		}
		if in.Title == "" {
			in.Title = track.Title
		}
		if in.ArtistName == "" {
			in.ArtistName = track.ArtistName
		}
		if in.ArtworkURL == "" {
			in.ArtworkURL = track.ArtworkURL
		}
		if len(in.Metadata) == 0 {
			in.Metadata = track.Raw
		}
	}
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.Tier == "" {
		in.Tier = "standard"
	}
	if len(in.Metadata) == 0 {
		in.Metadata = json.RawMessage("{}")
	}

	asset := &domain.Asset{
		OwnerID:       in.CreatorID,
		CreatorID:     in.CreatorID,
		Title:         in.Title,
		ArtistName:    in.ArtistName,
		AudiusTrackID: in.AudiusTrackID,
		ArtworkURL:    in.ArtworkURL,
		Tier:          in.Tier,
		Metadata:      datatypes.JSON(in.Metadata),
	}
	if err := s.DB.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *Service) GetAsset(ctx context.Context, assetID uuid.UUID) (*domain.Asset, error) {
	var asset domain.Asset
	if err := s.DB.WithContext(ctx).Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// SyncCatalog refreshes artist and artwork fields for assets linked to a catalog
// track. Returns how many assets were updated; individual lookup failures skip
// the asset rather than aborting the sweep.
func (s *Service) SyncCatalog(ctx context.Context) (int, error) {
	if s.Catalog == nil {
		return 0, nil
	}

	var linked []domain.Asset
	if err := s.DB.WithContext(ctx).
		Where("audius_track_id IS NOT NULL").
		Find(&linked).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, asset := range linked {
		track, err := s.Catalog.GetTrack(ctx, *asset.AudiusTrackID)
		if err != nil {
			continue
		}
		changes := map[string]interface{}{}
		if track.ArtistName != "" && track.ArtistName != asset.ArtistName {
			changes["artist_name"] = track.ArtistName
		}
		if track.ArtworkURL != "" && track.ArtworkURL != asset.ArtworkURL {
			changes["artwork_url"] = track.ArtworkURL
		}
		if len(changes) == 0 {
			continue
		}
		if err := s.DB.WithContext(ctx).Model(&domain.Asset{}).
			Where("asset_id = ?", asset.AssetID).
			Updates(changes).Error; err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
