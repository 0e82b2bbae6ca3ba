package listings

import (
	"errors"

	listsvc "wavemint-backend/internal/application/listings"
	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/middleware"
	"wavemint-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *listsvc.Service
}

type createListingRequest struct {
	AssetID           string          `json:"asset_id"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency"`
	RoyaltyPercentage decimal.Decimal `json:"royalty_percentage"`
	DurationDays      int             `json:"duration_days"`
}

// statusMap maps domain errors to HTTP status codes.
var statusMap = map[error]int{
	domain.ErrInvalidPrice:       fiber.StatusBadRequest,
	domain.ErrInvalidRoyalty:     fiber.StatusBadRequest,
	domain.ErrInvalidDuration:    fiber.StatusBadRequest,
	domain.ErrInvalidCurrency:    fiber.StatusBadRequest,
	domain.ErrAssetNotFound:      fiber.StatusNotFound,
	domain.ErrAssetNotOwned:      fiber.StatusForbidden,
	domain.ErrAssetAlreadyListed: fiber.StatusConflict,
	domain.ErrListingNotFound:    fiber.StatusNotFound,
	domain.ErrNotListingOwner:    fiber.StatusForbidden,
	domain.ErrListingNotActive:   fiber.StatusConflict,
}

func respondError(c *fiber.Ctx, err error) error {
	for sentinel, code := range statusMap {
		if errors.Is(err, sentinel) {
			return response.Error(c, sentinel.Error(), code, nil)
		}
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// CreateListing POST /api/v1/listings/create-listing
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var req createListingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return response.Error(c, "Invalid asset_id format", fiber.StatusBadRequest, nil)
	}
	sellerID := actorID(c)
	if sellerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	listing, err := h.Service.CreateListing(c.Context(), listsvc.CreateListingInput{
		SellerID:          sellerID,
		AssetID:           assetID,
		Price:             req.Price,
		Currency:          req.Currency,
		RoyaltyPercentage: req.RoyaltyPercentage,
		DurationDays:      req.DurationDays,
	})
	if err != nil {
		return respondError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

// CancelListing POST /api/v1/listings/cancel-listing/:listing_id
func (h *Handlers) CancelListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	sellerID := actorID(c)
	if sellerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	listing, err := h.Service.CancelListing(c.Context(), sellerID, listingID)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Listing cancelled successfully", listing, nil)
}

// GetListing GET /api/v1/listings/get-listing/:listing_id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.GetListing(c.Context(), listingID)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", listing, nil)
}

// GetActiveListings GET /api/v1/listings/get-active-listings
// Optional query filters: currency, min_price, max_price.
func (h *Handlers) GetActiveListings(c *fiber.Ctx) error {
	var filters listsvc.ActiveListingFilters
	if cur := c.Query("currency"); cur != "" {
		filters.Currency = &cur
	}
	if raw := c.Query("min_price"); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return response.Error(c, "Invalid min_price format", fiber.StatusBadRequest, nil)
		}
		filters.MinPrice = &p
	}
	if raw := c.Query("max_price"); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return response.Error(c, "Invalid max_price format", fiber.StatusBadRequest, nil)
		}
		filters.MaxPrice = &p
	}

	listings, err := h.Service.GetActiveListings(c.Context(), filters)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Active listings fetched", listings, nil)
}

// GetMyActiveListings GET /api/v1/listings/get-my-active-listings
func (h *Handlers) GetMyActiveListings(c *fiber.Ctx) error {
	sellerID := actorID(c)
	if sellerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetSellerActiveListings(c.Context(), sellerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Active listings fetched", listings, nil)
}

// GetMyClosedListings GET /api/v1/listings/get-my-closed-listings
func (h *Handlers) GetMyClosedListings(c *fiber.Ctx) error {
	sellerID := actorID(c)
	if sellerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetSellerClosedListings(c.Context(), sellerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Closed listings fetched", listings, nil)
}

func actorID(c *fiber.Ctx) uuid.UUID {
	u := middleware.GetUser(c)
	m, ok := u.(map[string]interface{})
	if !ok {
		return uuid.Nil
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}
