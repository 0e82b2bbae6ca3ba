package collection

import (
	collsvc "wavemint-backend/internal/application/collection"
	"wavemint-backend/internal/middleware"
	"wavemint-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *collsvc.Service
}

// GetOwned GET /api/v1/collection/owned — unlisted assets the user owns.
func (h *Handlers) GetOwned(c *fiber.Ctx) error {
	userID := actorID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	assets, err := h.Service.GetOwned(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Owned assets fetched", assets, nil)
}

// GetListed GET /api/v1/collection/listed — user's active listings.
func (h *Handlers) GetListed(c *fiber.Ctx) error {
	userID := actorID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetActiveListings(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listed assets fetched", listings, nil)
}

// GetSales GET /api/v1/collection/sales — sales where the user was seller.
func (h *Handlers) GetSales(c *fiber.Ctx) error {
	userID := actorID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	sales, err := h.Service.GetSalesHistory(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Sales history fetched", sales, nil)
}

// GetPurchases GET /api/v1/collection/purchases — sales where the user was buyer.
func (h *Handlers) GetPurchases(c *fiber.Ctx) error {
	userID := actorID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	purchases, err := h.Service.GetPurchaseHistory(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Purchase history fetched", purchases, nil)
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
