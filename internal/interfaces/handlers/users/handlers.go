package users

import (
	"context"
	"time"

	"wavemint-backend/internal/application/emails"
	usersvc "wavemint-backend/internal/application/users"
	"wavemint-backend/internal/middleware"
	"wavemint-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for user endpoints.
type Handlers struct {
	Service *usersvc.Service
	Mailer  emails.Sender
}

// Register POST /api/v1/users/register — create an account and send the
// welcome email out-of-band.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req usersvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Register(c.Context(), req)
	if err != nil {
		switch err {
		case usersvc.ErrNameRequired, usersvc.ErrInvalidEmailFmt, usersvc.ErrInvalidPassword:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case usersvc.ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	if h.Mailer != nil {
		go func(email, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if err := h.Mailer.SendWelcome(ctx, email, name); err != nil {
				log.Warn().Err(err).Str("email", email).Msg("welcome email failed")
			}
		}(user.Email, user.DisplayName)
	}

	return response.SuccessCreated(c, "Account created successfully", fiber.Map{
		"user": fiber.Map{
			"user_id":      user.UserID.String(),
			"display_name": user.DisplayName,
			"email":        user.Email,
			"role":         user.Role,
		},
	}, nil)
}

// Profile GET /api/v1/users/profile — return the logged-in user's profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	userID := actorID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	user, err := h.Service.GetProfile(c.Context(), userID)
	if err != nil {
		if err == usersvc.ErrUserNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Profile fetched successfully", user, nil)
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
