package listings

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	listsvc "wavemint-backend/internal/application/listings"
	"wavemint-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupListingsHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Asset{}, &domain.Listing{}, &domain.ListingEvent{}))
	return &Handlers{Service: &listsvc.Service{DB: db}}, db
}

func appWithUser(h func(app *fiber.App), userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":      userID.String(),
			"display_name": "Seller",
			"email":        "seller@example.com",
			"role":         domain.RoleUser,
		})
		return c.Next()
	})
	h(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestCreateListing_HTTP(t *testing.T) {
	h, db := setupListingsHandlers(t)
	seller := uuid.New()
	asset := &domain.Asset{OwnerID: seller, CreatorID: seller, Title: "Track", Tier: "standard", Metadata: []byte("{}")}
	require.NoError(t, db.Create(asset).Error)

	app := appWithUser(func(a *fiber.App) { a.Post("/create-listing", h.CreateListing) }, seller)

	payload := map[string]interface{}{
		"asset_id":           asset.AssetID.String(),
		"price":              "10",
		"currency":           domain.CurrencyTON,
		"royalty_percentage": "5",
		"duration_days":      30,
	}
	code := postJSON(t, app, "/create-listing", payload)
	assert.Equal(t, fiber.StatusCreated, code)

	// A second create for the same asset conflicts.
	code = postJSON(t, app, "/create-listing", payload)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestCreateListing_HTTPValidation(t *testing.T) {
	h, db := setupListingsHandlers(t)
	seller := uuid.New()
	asset := &domain.Asset{OwnerID: seller, CreatorID: seller, Title: "Track", Tier: "standard", Metadata: []byte("{}")}
	require.NoError(t, db.Create(asset).Error)

	app := appWithUser(func(a *fiber.App) { a.Post("/create-listing", h.CreateListing) }, seller)

	cases := []struct {
		name     string
		payload  map[string]interface{}
		wantCode int
	}{
		{
			"bad asset uuid",
			map[string]interface{}{"asset_id": "nope", "price": "10", "currency": "TON", "royalty_percentage": "0", "duration_days": 7},
			fiber.StatusBadRequest,
		},
		{
			"bad currency",
			map[string]interface{}{"asset_id": asset.AssetID.String(), "price": "10", "currency": "DOGE", "royalty_percentage": "0", "duration_days": 7},
			fiber.StatusBadRequest,
		},
		{
			"royalty above cap",
			map[string]interface{}{"asset_id": asset.AssetID.String(), "price": "10", "currency": "TON", "royalty_percentage": "51", "duration_days": 7},
			fiber.StatusBadRequest,
		},
		{
			"unknown asset",
			map[string]interface{}{"asset_id": uuid.NewString(), "price": "10", "currency": "TON", "royalty_percentage": "0", "duration_days": 7},
			fiber.StatusNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code := postJSON(t, app, "/create-listing", tc.payload)
			assert.Equal(t, tc.wantCode, code)
		})
	}
}

func TestCreateListing_NotOwner(t *testing.T) {
	h, db := setupListingsHandlers(t)
	owner := uuid.New()
	asset := &domain.Asset{OwnerID: owner, CreatorID: owner, Title: "Track", Tier: "standard", Metadata: []byte("{}")}
	require.NoError(t, db.Create(asset).Error)

	app := appWithUser(func(a *fiber.App) { a.Post("/create-listing", h.CreateListing) }, uuid.New())

	code := postJSON(t, app, "/create-listing", map[string]interface{}{
		"asset_id": asset.AssetID.String(), "price": "10", "currency": "TON", "royalty_percentage": "0", "duration_days": 7,
	})
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestCancelListing_HTTP(t *testing.T) {
	h, db := setupListingsHandlers(t)
	seller := uuid.New()
	asset := &domain.Asset{OwnerID: seller, CreatorID: seller, Title: "Track", Tier: "standard", Metadata: []byte("{}")}
	require.NoError(t, db.Create(asset).Error)

	app := appWithUser(func(a *fiber.App) {
		a.Post("/create-listing", h.CreateListing)
		a.Post("/cancel-listing/:listing_id", h.CancelListing)
	}, seller)

	body, _ := json.Marshal(map[string]interface{}{
		"asset_id": asset.AssetID.String(), "price": "10", "currency": "TON", "royalty_percentage": "0", "duration_days": 7,
	})
	req := httptest.NewRequest("POST", "/create-listing", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data domain.Listing `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	req = httptest.NewRequest("POST", "/cancel-listing/"+created.Data.ListingID.String(), nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Cancelling again conflicts.
	req = httptest.NewRequest("POST", "/cancel-listing/"+created.Data.ListingID.String(), nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetListing_InvalidUUID(t *testing.T) {
	h, _ := setupListingsHandlers(t)
	app := fiber.New()
	app.Get("/get-listing/:listing_id", h.GetListing)

	req := httptest.NewRequest("GET", "/get-listing/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetActiveListings_BadFilter(t *testing.T) {
	h, _ := setupListingsHandlers(t)
	app := fiber.New()
	app.Get("/get-active-listings", h.GetActiveListings)

	req := httptest.NewRequest("GET", "/get-active-listings?min_price=abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
