package trading

import (
	"context"
	"errors"
	"time"

	assetssvc "wavemint-backend/internal/application/assets"
	"wavemint-backend/internal/application/emails"
	tradesvc "wavemint-backend/internal/application/trading"
	usersvc "wavemint-backend/internal/application/users"
	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/middleware"
	"wavemint-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *tradesvc.Service
	Users   *usersvc.Service
	Assets  *assetssvc.Service
	Mailer  emails.Sender
}

var statusMap = map[error]int{
	domain.ErrListingNotFound:   fiber.StatusNotFound,
	domain.ErrListingNotActive:  fiber.StatusConflict,
	domain.ErrSelfPurchase:      fiber.StatusBadRequest,
	domain.ErrInsufficientFunds: fiber.StatusPaymentRequired,
}

// Purchase POST /api/v1/trading/purchase/:listing_id — settle the listing
// against the buyer's wallet.
func (h *Handlers) Purchase(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	buyerID := actorID(c)
	if buyerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	sale, err := h.Service.Purchase(c.Context(), buyerID, listingID)
	if err != nil {
		for sentinel, code := range statusMap {
			if errors.Is(err, sentinel) {
				return response.Error(c, sentinel.Error(), code, nil)
			}
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	h.notifySeller(sale)

	return response.Success(c, "Purchase completed successfully", sale, nil)
}

// notifySeller sends the sale receipt out-of-band; a mail failure never fails
// the settled purchase.
func (h *Handlers) notifySeller(sale *domain.SaleRecord) {
	if h.Mailer == nil || h.Users == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		seller, err := h.Users.GetProfile(ctx, sale.SellerID)
		if err != nil {
			log.Warn().Err(err).Str("seller_id", sale.SellerID.String()).Msg("sale receipt: seller lookup failed")
			return
		}
		title := sale.AssetID.String()
		if h.Assets != nil {
			if asset, err := h.Assets.GetAsset(ctx, sale.AssetID); err == nil {
				title = asset.Title
			}
		}
		receipt := emails.SaleReceipt{
			AssetTitle:     title,
			Price:          sale.Price,
			Currency:       sale.Currency,
			MarketplaceFee: sale.MarketplaceFee,
			RoyaltyFee:     sale.RoyaltyFee,
			SellerProceeds: sale.SellerProceeds,
		}
		if err := h.Mailer.SendSaleReceipt(ctx, seller.Email, receipt); err != nil {
			log.Warn().Err(err).Str("seller_id", sale.SellerID.String()).Msg("sale receipt email failed")
		}
	}()
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
