package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	walletsvc "wavemint-backend/internal/application/wallets"
	"wavemint-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func setupWebhook(t *testing.T) (*WebhookHandler, *gorm.DB, *fiber.App) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Wallet{}, &domain.Deposit{}))

	wh := &WebhookHandler{
		Wallets:       &walletsvc.Service{DB: db},
		WebhookSecret: testWebhookSecret,
	}
	app := fiber.New()
	app.Post("/stripe/webhook", wh.HandleWebhook)
	return wh, db, app
}

func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func succeededEvent(userID uuid.UUID, piID, currency, amount string) []byte {
	obj := map[string]interface{}{
		"id":              piID,
		"amount_received": 2500,
		"currency":        "usd",
		"status":          "succeeded",
		"metadata": map[string]string{
			"user_id":  userID.String(),
			"currency": currency,
			"amount":   amount,
		},
	}
	rawObj, _ := json.Marshal(obj)
	event, _ := json.Marshal(map[string]interface{}{
		"id":   "evt_" + piID,
		"type": "payment_intent.succeeded",
		"data": map[string]interface{}{"object": json.RawMessage(rawObj)},
	})
	return event
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, sig string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set("Stripe-Signature", sig)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestWebhook_MissingSignature(t *testing.T) {
	_, _, app := setupWebhook(t)

	payload := succeededEvent(uuid.New(), "pi_1", "USDT", "25")
	code := postWebhook(t, app, payload, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestWebhook_BadSignature(t *testing.T) {
	_, _, app := setupWebhook(t)

	payload := succeededEvent(uuid.New(), "pi_1", "USDT", "25")
	code := postWebhook(t, app, payload, signPayload(payload, "whsec_other_secret"))
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestWebhook_EmptyBody(t *testing.T) {
	_, _, app := setupWebhook(t)

	code := postWebhook(t, app, nil, "t=1,v1=deadbeef")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestWebhook_SucceededCreditsWallet(t *testing.T) {
	_, db, app := setupWebhook(t)
	userID := uuid.New()

	payload := succeededEvent(userID, "pi_hook_1", "USDT", "25")
	code := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, code)

	var wallet domain.Wallet
	require.NoError(t, db.Where("user_id = ? AND currency = ?", userID, domain.CurrencyUSDT).First(&wallet).Error)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(25)), "balance is %s", wallet.Balance)
}

func TestWebhook_ReplayIsNoOp(t *testing.T) {
	_, db, app := setupWebhook(t)
	userID := uuid.New()

	payload := succeededEvent(userID, "pi_hook_2", "USDT", "25")
	for i := 0; i < 2; i++ {
		code := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))
		assert.Equal(t, fiber.StatusOK, code)
	}

	var wallet domain.Wallet
	require.NoError(t, db.Where("user_id = ? AND currency = ?", userID, domain.CurrencyUSDT).First(&wallet).Error)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(25)))

	var deposits int64
	require.NoError(t, db.Model(&domain.Deposit{}).Count(&deposits).Error)
	assert.EqualValues(t, 1, deposits)
}

func TestWebhook_MissingMetadataIsIgnored(t *testing.T) {
	_, db, app := setupWebhook(t)

	obj, _ := json.Marshal(map[string]interface{}{
		"id": "pi_no_meta", "status": "succeeded", "metadata": map[string]string{},
	})
	payload, _ := json.Marshal(map[string]interface{}{
		"id": "evt_no_meta", "type": "payment_intent.succeeded",
		"data": map[string]interface{}{"object": json.RawMessage(obj)},
	})
	code := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, code)

	var deposits int64
	require.NoError(t, db.Model(&domain.Deposit{}).Count(&deposits).Error)
	assert.Zero(t, deposits)
}

func TestWebhook_OtherEventTypesAcknowledged(t *testing.T) {
	_, _, app := setupWebhook(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"id": "evt_other", "type": "charge.refunded",
		"data": map[string]interface{}{"object": json.RawMessage(`{}`)},
	})
	code := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, code)
}

func TestWebhook_NoWalletServiceConfigured(t *testing.T) {
	wh := &WebhookHandler{WebhookSecret: testWebhookSecret}
	app := fiber.New()
	app.Post("/stripe/webhook", wh.HandleWebhook)

	// A valid top-up event with no database wired is acknowledged, not a crash.
	payload := succeededEvent(uuid.New(), "pi_no_db", "USDT", "25")
	code := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, code)
}
