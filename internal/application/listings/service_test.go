package listings

import (
	"context"
	"testing"
	"time"

	"wavemint-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupListingsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Asset{}, &domain.Listing{}, &domain.ListingEvent{}))
	return &Service{DB: db}, db
}

func seedAsset(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *domain.Asset {
	asset := &domain.Asset{
		OwnerID:   ownerID,
		CreatorID: ownerID,
		Title:     "Midnight Drive",
		Tier:      "standard",
		Metadata:  []byte("{}"),
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}

func validInput(sellerID, assetID uuid.UUID) CreateListingInput {
	return CreateListingInput{
		SellerID:          sellerID,
		AssetID:           assetID,
		Price:             decimal.NewFromInt(10),
		Currency:          domain.CurrencyTON,
		RoyaltyPercentage: decimal.NewFromInt(5),
		DurationDays:      30,
	}
}

func TestCreateListing_Success(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	before := time.Now().UTC()
	listing, err := svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	require.NoError(t, err)

	assert.Equal(t, domain.ListingStatusActive, listing.Status)
	assert.Equal(t, seller, listing.SellerID)
	require.NotNil(t, listing.ExpiresAt)
	wantExpiry := before.Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, wantExpiry, *listing.ExpiresAt, 5*time.Second)

	var events []domain.ListingEvent
	require.NoError(t, db.Where("listing_id = ?", listing.ListingID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ListingEventCreated, events[0].EventType)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, seller, *events[0].ActorID)
}

func TestCreateListing_Validation(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	cases := []struct {
		name    string
		mutate  func(*CreateListingInput)
		wantErr error
	}{
		{"zero price", func(in *CreateListingInput) { in.Price = decimal.Zero }, domain.ErrInvalidPrice},
		{"negative price", func(in *CreateListingInput) { in.Price = decimal.NewFromInt(-1) }, domain.ErrInvalidPrice},
		{"royalty above cap", func(in *CreateListingInput) { in.RoyaltyPercentage = decimal.NewFromFloat(50.01) }, domain.ErrInvalidRoyalty},
		{"negative royalty", func(in *CreateListingInput) { in.RoyaltyPercentage = decimal.NewFromInt(-1) }, domain.ErrInvalidRoyalty},
		{"unknown currency", func(in *CreateListingInput) { in.Currency = "DOGE" }, domain.ErrInvalidCurrency},
		{"unsupported duration", func(in *CreateListingInput) { in.DurationDays = 45 }, domain.ErrInvalidDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(seller, asset.AssetID)
			tc.mutate(&in)
			_, err := svc.CreateListing(context.Background(), in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// No listing rows should exist after the failed attempts.
	var count int64
	require.NoError(t, db.Model(&domain.Listing{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateListing_AssetNotFound(t *testing.T) {
	svc, _ := setupListingsTest(t)
	_, err := svc.CreateListing(context.Background(), validInput(uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestCreateListing_AssetNotOwned(t *testing.T) {
	svc, db := setupListingsTest(t)
	owner := uuid.New()
	asset := seedAsset(t, db, owner)

	_, err := svc.CreateListing(context.Background(), validInput(uuid.New(), asset.AssetID))
	assert.ErrorIs(t, err, domain.ErrAssetNotOwned)
}

func TestCreateListing_AlreadyListed(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	_, err := svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	require.NoError(t, err)

	_, err = svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	assert.ErrorIs(t, err, domain.ErrAssetAlreadyListed)
}

func TestCancelListing_Success(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	listing, err := svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	require.NoError(t, err)

	cancelled, err := svc.CancelListing(context.Background(), seller, listing.ListingID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusCancelled, cancelled.Status)

	var events []domain.ListingEvent
	require.NoError(t, db.Where("listing_id = ? AND event_type = ?", listing.ListingID, domain.ListingEventCancelled).Find(&events).Error)
	assert.Len(t, events, 1)
}

func TestCancelListing_NotOwner(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	listing, err := svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	require.NoError(t, err)

	_, err = svc.CancelListing(context.Background(), uuid.New(), listing.ListingID)
	assert.ErrorIs(t, err, domain.ErrNotListingOwner)
}

func TestCancelListing_AlreadyCancelled(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	listing, err := svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	require.NoError(t, err)

	_, err = svc.CancelListing(context.Background(), seller, listing.ListingID)
	require.NoError(t, err)

	_, err = svc.CancelListing(context.Background(), seller, listing.ListingID)
	assert.ErrorIs(t, err, domain.ErrListingNotActive)
}

func TestCancelListing_NotFound(t *testing.T) {
	svc, _ := setupListingsTest(t)
	_, err := svc.CancelListing(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestRelistAfterCancel(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	listing, err := svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	require.NoError(t, err)
	_, err = svc.CancelListing(context.Background(), seller, listing.ListingID)
	require.NoError(t, err)

	// Cancelling frees the asset for a new listing.
	relisted, err := svc.CreateListing(context.Background(), validInput(seller, asset.AssetID))
	require.NoError(t, err)
	assert.NotEqual(t, listing.ListingID, relisted.ListingID)
}

func TestExpireListings(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()
	assetA := seedAsset(t, db, seller)
	assetB := seedAsset(t, db, seller)

	inA := validInput(seller, assetA.AssetID)
	inA.DurationDays = 7
	listingA, err := svc.CreateListing(context.Background(), inA)
	require.NoError(t, err)

	inB := validInput(seller, assetB.AssetID)
	inB.DurationDays = 90
	listingB, err := svc.CreateListing(context.Background(), inB)
	require.NoError(t, err)

	// Sweep at day 8: only the 7-day listing is due.
	sweepAt := time.Now().UTC().Add(8 * 24 * time.Hour)
	n, err := svc.ExpireListings(context.Background(), sweepAt)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var a, b domain.Listing
	require.NoError(t, db.First(&a, "listing_id = ?", listingA.ListingID).Error)
	require.NoError(t, db.First(&b, "listing_id = ?", listingB.ListingID).Error)
	assert.Equal(t, domain.ListingStatusExpired, a.Status)
	assert.Equal(t, domain.ListingStatusActive, b.Status)

	// The expiry event is recorded with no actor (system sweep).
	var events []domain.ListingEvent
	require.NoError(t, db.Where("listing_id = ? AND event_type = ?", listingA.ListingID, domain.ListingEventExpired).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].ActorID)

	// Replaying the sweep is a no-op.
	n, err = svc.ExpireListings(context.Background(), sweepAt)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestGetActiveListings_Filters(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()

	prices := []struct {
		price    int64
		currency string
	}{
		{5, domain.CurrencyTON},
		{20, domain.CurrencyTON},
		{10, domain.CurrencyUSDT},
	}
	for _, p := range prices {
		asset := seedAsset(t, db, seller)
		in := validInput(seller, asset.AssetID)
		in.Price = decimal.NewFromInt(p.price)
		in.Currency = p.currency
		_, err := svc.CreateListing(context.Background(), in)
		require.NoError(t, err)
	}

	all, err := svc.GetActiveListings(context.Background(), ActiveListingFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ton := domain.CurrencyTON
	byCurrency, err := svc.GetActiveListings(context.Background(), ActiveListingFilters{Currency: &ton})
	require.NoError(t, err)
	assert.Len(t, byCurrency, 2)

	min := decimal.NewFromInt(6)
	max := decimal.NewFromInt(25)
	byPrice, err := svc.GetActiveListings(context.Background(), ActiveListingFilters{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Len(t, byPrice, 2)
}

func TestActiveListingUniqueIndex(t *testing.T) {
	_, db := setupListingsTest(t)
	seller := uuid.New()
	asset := seedAsset(t, db, seller)

	first := &domain.Listing{
		SellerID:          seller,
		AssetID:           asset.AssetID,
		Price:             decimal.NewFromInt(10),
		Currency:          domain.CurrencyTON,
		RoyaltyPercentage: decimal.Zero,
		Status:            domain.ListingStatusActive,
	}
	require.NoError(t, db.Create(first).Error)

	// A second active row for the same asset is rejected by the database
	// itself, regardless of any pre-checks above it.
	second := &domain.Listing{
		SellerID:          seller,
		AssetID:           asset.AssetID,
		Price:             decimal.NewFromInt(12),
		Currency:          domain.CurrencyTON,
		RoyaltyPercentage: decimal.Zero,
		Status:            domain.ListingStatusActive,
	}
	err := db.Create(second).Error
	require.Error(t, err)
	assert.True(t, isDuplicateActiveListing(err), "unique violation maps to the domain error: %v", err)

	// Closed rows do not occupy the index slot.
	closed := &domain.Listing{
		SellerID:          seller,
		AssetID:           asset.AssetID,
		Price:             decimal.NewFromInt(8),
		Currency:          domain.CurrencyTON,
		RoyaltyPercentage: decimal.Zero,
		Status:            domain.ListingStatusCancelled,
	}
	assert.NoError(t, db.Create(closed).Error)
}

func TestExpireListings_SkipsSoldListing(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := uuid.New()

	in := validInput(seller, seedAsset(t, db, seller).AssetID)
	in.DurationDays = 7
	stillActive, err := svc.CreateListing(context.Background(), in)
	require.NoError(t, err)

	in = validInput(seller, seedAsset(t, db, seller).AssetID)
	in.DurationDays = 7
	sold, err := svc.CreateListing(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Listing{}).
		Where("listing_id = ?", sold.ListingID).
		Update("status", domain.ListingStatusSold).Error)

	expired, err := svc.ExpireListings(context.Background(), time.Now().UTC().Add(8*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	// No EXPIRED event for the sold listing.
	var events []domain.ListingEvent
	require.NoError(t, db.Where("event_type = ?", domain.ListingEventExpired).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, stillActive.ListingID, events[0].ListingID)
}
