package wallets

import (
	"strings"

	walletsvc "wavemint-backend/internal/application/wallets"
	"wavemint-backend/internal/domain"
	"wavemint-backend/internal/middleware"
	"wavemint-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type Handlers struct {
	Service       *walletsvc.Service
	StripeCreator StripePaymentIntentCreator
}

// StripePaymentIntentCreator abstracts Stripe PaymentIntent creation for testability.
type StripePaymentIntentCreator interface {
	Create(amountCents int64, currency string, metadata map[string]string) (*StripePaymentIntentResult, error)
}

type StripePaymentIntentResult struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// RealStripeCreator uses the Stripe Go SDK to create PaymentIntents.
type RealStripeCreator struct {
	SecretKey string
}

func (r *RealStripeCreator) Create(amountCents int64, currency string, metadata map[string]string) (*StripePaymentIntentResult, error) {
	if r.SecretKey == "" {
		return nil, fiber.NewError(501, "Stripe integration pending")
	}
	stripe.Key = r.SecretKey
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Metadata: metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &StripePaymentIntentResult{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// GetBalances GET /api/v1/wallets/balances
func (h *Handlers) GetBalances(c *fiber.Ctx) error {
	userID := actorID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	balances, err := h.Service.GetBalances(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Balances fetched successfully", balances, nil)
}

type depositIntentRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// CreateDepositIntent POST /api/v1/wallets/deposit-intent — creates a Stripe
// PaymentIntent for a wallet top-up. The wallet is only credited when the
// payment_intent.succeeded webhook lands.
func (h *Handlers) CreateDepositIntent(c *fiber.Ctx) error {
	userID := actorID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req depositIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	currency := strings.ToUpper(req.Currency)
	if !domain.AcceptedCurrencies[currency] {
		return response.Error(c, domain.ErrInvalidCurrency.Error(), fiber.StatusBadRequest, nil)
	}
	if !req.Amount.IsPositive() {
		return response.Error(c, "Amount must be a positive number", fiber.StatusBadRequest, nil)
	}

	if h.StripeCreator == nil {
		return response.Error(c, "Stripe not configured", fiber.StatusInternalServerError, nil)
	}

	// Card charge is denominated in USD cents regardless of the wallet
	// currency being topped up.
	amountCents := req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	pi, err := h.StripeCreator.Create(amountCents, "usd", map[string]string{
		"user_id":  userID.String(),
		"currency": currency,
		"amount":   req.Amount.String(),
	})
	if err != nil {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		return response.Error(c, err.Error(), code, nil)
	}

	return response.Success(c, "Deposit intent created", fiber.Map{
		"payment_intent_id": pi.ID,
		"client_secret":     pi.ClientSecret,
	}, nil)
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
