package listingevents

import (
	eventsvc "wavemint-backend/internal/application/listingevents"
	"wavemint-backend/internal/middleware"
	"wavemint-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *eventsvc.Service
}

// GetListingEvents GET /api/v1/listing-events/get-listing-events/:listing_id
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	events, err := h.Service.GetListingEvents(c.Context(), listingID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listing events fetched", events, nil)
}

// GetMyEvents GET /api/v1/listing-events/get-my-events
func (h *Handlers) GetMyEvents(c *fiber.Ctx) error {
	u := middleware.GetUser(c)
	m, ok := u.(map[string]interface{})
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	idStr, _ := m["user_id"].(string)
	actorID, err := uuid.Parse(idStr)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	events, err := h.Service.GetActorEvents(c.Context(), actorID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Events fetched", events, nil)
}
