package assets

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/infrastructure/audius"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCatalog struct {
	tracks map[string]*audius.Track
}

func (f *fakeCatalog) GetTrack(ctx context.Context, trackID string) (*audius.Track, error) {
	if t, ok := f.tracks[trackID]; ok {
		return t, nil
	}
	return nil, errors.New("track not found")
}

func setupAssetsTest(t *testing.T, catalog CatalogClient) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Asset{}))
	return &Service{DB: db, Catalog: catalog}, db
}

func TestMint_Basic(t *testing.T) {
	svc, _ := setupAssetsTest(t, nil)
	creator := uuid.New()

	asset, err := svc.Mint(context.Background(), MintInput{
		CreatorID:  creator,
		Title:      "Midnight Run",
		ArtistName: "Ava Stone",
	})
	require.NoError(t, err)

	assert.Equal(t, creator, asset.OwnerID)
	assert.Equal(t, creator, asset.CreatorID)
	assert.Equal(t, "standard", asset.Tier, "tier defaults")
	assert.JSONEq(t, "{}", string(asset.Metadata))
}

func TestMint_TitleRequired(t *testing.T) {
	svc, _ := setupAssetsTest(t, nil)

	_, err := svc.Mint(context.Background(), MintInput{CreatorID: uuid.New()})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestMint_FillsFromCatalog(t *testing.T) {
	trackID := "D7KyD"
	catalog := &fakeCatalog{tracks: map[string]*audius.Track{
		trackID: {
			ID:         trackID,
			Title:      "Neon Tide",
			ArtistName: "Koral",
			ArtworkURL: "https://cdn.example.com/neon-tide.jpg",
			Raw:        json.RawMessage(`{"id":"D7KyD","title":"Neon Tide"}`),
		},
	}}
	svc, _ := setupAssetsTest(t, catalog)

	asset, err := svc.Mint(context.Background(), MintInput{
		CreatorID:     uuid.New(),
		AudiusTrackID: &trackID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Neon Tide", asset.Title)
	assert.Equal(t, "Koral", asset.ArtistName)
	assert.Equal(t, "https://cdn.example.com/neon-tide.jpg", asset.ArtworkURL)
	assert.JSONEq(t, `{"id":"D7KyD","title":"Neon Tide"}`, string(asset.Metadata))
}

func TestMint_CallerFieldsWinOverCatalog(t *testing.T) {
	trackID := "D7KyD"
	catalog := &fakeCatalog{tracks: map[string]*audius.Track{
		trackID: {ID: trackID, Title: "Neon Tide", ArtistName: "Koral"},
	}}
	svc, _ := setupAssetsTest(t, catalog)

	asset, err := svc.Mint(context.Background(), MintInput{
		CreatorID:     uuid.New(),
		Title:         "My Own Title",
		AudiusTrackID: &trackID,
	})
	require.NoError(t, err)
	assert.Equal(t, "My Own Title", asset.Title)
	assert.Equal(t, "Koral", asset.ArtistName)
}

func TestMint_CatalogLookupFailure(t *testing.T) {
	trackID := "missing"
	svc, _ := setupAssetsTest(t, &fakeCatalog{})

	_, err := svc.Mint(context.Background(), MintInput{
		CreatorID:     uuid.New(),
		Title:         "Track",
		AudiusTrackID: &trackID,
	})
	assert.Error(t, err)
}

func TestGetAsset_NotFound(t *testing.T) {
	svc, _ := setupAssetsTest(t, nil)

	_, err := svc.GetAsset(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestSyncCatalog(t *testing.T) {
	linkedID := "D7KyD"
	staleID := "gone"
	catalog := &fakeCatalog{tracks: map[string]*audius.Track{
		linkedID: {ID: linkedID, ArtistName: "Koral", ArtworkURL: "https://cdn.example.com/new.jpg"},
	}}
	svc, db := setupAssetsTest(t, catalog)
	creator := uuid.New()

	linked := &domain.Asset{OwnerID: creator, CreatorID: creator, Title: "Neon Tide", ArtistName: "Old Name", AudiusTrackID: &linkedID, Tier: "standard", Metadata: []byte("{}")}
	stale := &domain.Asset{OwnerID: creator, CreatorID: creator, Title: "Gone", AudiusTrackID: &staleID, Tier: "standard", Metadata: []byte("{}")}
	unlinked := &domain.Asset{OwnerID: creator, CreatorID: creator, Title: "Local Only", Tier: "standard", Metadata: []byte("{}")}
	require.NoError(t, db.Create(linked).Error)
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Create(unlinked).Error)

	updated, err := svc.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated, "failed lookups are skipped, unlinked assets ignored")

	var got domain.Asset
	require.NoError(t, db.Where("asset_id = ?", linked.AssetID).First(&got).Error)
	assert.Equal(t, "Koral", got.ArtistName)
	assert.Equal(t, "https://cdn.example.com/new.jpg", got.ArtworkURL)
}

func TestSyncCatalog_NoClient(t *testing.T) {
	svc, _ := setupAssetsTest(t, nil)

	updated, err := svc.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Zero(t, updated)
}
