package assets

import (
	"encoding/json"

	assetssvc "wavemint-backend/internal/application/assets"
	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/middleware"
	"wavemint-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *assetssvc.Service
}

type mintRequest struct {
	Title         string          `json:"title"`
	ArtistName    string          `json:"artist_name"`
	Tier          string          `json:"tier"`
	ArtworkURL    string          `json:"artwork_url"`
	AudiusTrackID *string         `json:"audius_track_id"`
	Metadata      json.RawMessage `json:"metadata"`
}

// Mint POST /api/v1/assets/mint — create a new asset owned by the caller.
func (h *Handlers) Mint(c *fiber.Ctx) error {
	creatorID := actorID(c)
	if creatorID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req mintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	asset, err := h.Service.Mint(c.Context(), assetssvc.MintInput{
		CreatorID:     creatorID,
		Title:         req.Title,
		ArtistName:    req.ArtistName,
		Tier:          req.Tier,
		ArtworkURL:    req.ArtworkURL,
		AudiusTrackID: req.AudiusTrackID,
		Metadata:      req.Metadata,
	})
	if err != nil {
		if err == assetssvc.ErrTitleRequired {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Asset minted successfully", asset, nil)
}

// GetAsset GET /api/v1/assets/get-asset/:asset_id
func (h *Handlers) GetAsset(c *fiber.Ctx) error {
	assetID, err := uuid.Parse(c.Params("asset_id"))
	if err != nil {
		return response.Error(c, "Invalid asset_id format", fiber.StatusBadRequest, nil)
	}
	asset, err := h.Service.GetAsset(c.Context(), assetID)
	if err != nil {
		if err == domain.ErrAssetNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Asset fetched successfully", asset, nil)
}

// SyncCatalog POST /api/v1/assets/sync-catalog — admin-only refresh of
// catalog-linked asset metadata.
func (h *Handlers) SyncCatalog(c *fiber.Ctx) error {
	updated, err := h.Service.SyncCatalog(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Catalog sync completed", fiber.Map{"updated": updated}, nil)
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
