package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender   `json:"sender"`
	To          []BrevoTo     `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
	ReplyTo     *BrevoReplyTo `json:"replyTo,omitempty"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type BrevoReplyTo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SaleReceipt carries the settlement figures for the seller's receipt email.
type SaleReceipt struct {
	AssetTitle     string
	Price          decimal.Decimal
	Currency       string
	MarketplaceFee decimal.Decimal
	RoyaltyFee     decimal.Decimal
	SellerProceeds decimal.Decimal
}

// Sender sends transactional emails (welcome, sale receipt). Nil = no-op.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, displayName string) error
	SendSaleReceipt(ctx context.Context, toEmail string, receipt SaleReceipt) error
}

// BrevoClient sends emails via the Brevo (Sendinblue) API. Configured from
// SENDINBLUE_API_KEY and MAIL_FROM; an empty key makes every send a no-op.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@wavemint.io"
}

// send sends one email via Brevo API.
func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "WaveMint"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
		ReplyTo:     &BrevoReplyTo{Email: "support@wavemint.io", Name: "WaveMint Support"},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome sends the welcome email after account creation.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, displayName string) error {
	if c.APIKey == "" {
		return nil
	}
	if displayName == "" {
		displayName = "there"
	}
	content := welcomeContent(displayName)
	return c.send(ctx, toEmail, "Welcome to WaveMint!", EmailLayout(content))
}

// SendSaleReceipt notifies the seller that their listing settled.
func (c *BrevoClient) SendSaleReceipt(ctx context.Context, toEmail string, receipt SaleReceipt) error {
	if c.APIKey == "" {
		return nil
	}
	content := saleReceiptContent(receipt)
	subject := fmt.Sprintf("Your track %q just sold", receipt.AssetTitle)
	return c.send(ctx, toEmail, subject, EmailLayout(content))
}

func welcomeContent(displayName string) string {
	marketURL := "https://wavemint.io/"
	return fmt.Sprintf(`
    <h1>Welcome to WaveMint, %s!</h1>
    <p>Your account has been created. You can now mint your tracks, list them on the marketplace and build your collection.</p>
    <center>
      <a href="%s" class="wavemint-button">Explore the Marketplace</a>
    </center>
    <p style="margin-top: 20px; font-size: 14px; color: #666;">
      If you did not sign up for this account, please contact our support team immediately.
    </p>`, displayName, marketURL)
}

func saleReceiptContent(r SaleReceipt) string {
	return fmt.Sprintf(`
    <h1>Sold: %s</h1>
    <p>Your listing has been purchased. Here is the settlement breakdown:</p>
    <table class="sale-table" role="presentation" width="100%%" cellpadding="0" cellspacing="0">
      <tr><td>Sale price</td><td align="right">%s %s</td></tr>
      <tr><td>Marketplace fee</td><td align="right">-%s %s</td></tr>
      <tr><td>Creator royalty</td><td align="right">-%s %s</td></tr>
      <tr><td><strong>Your proceeds</strong></td><td align="right"><strong>%s %s</strong></td></tr>
    </table>
    <p style="margin-top: 20px;">The proceeds have been credited to your %s wallet.</p>`,
		r.AssetTitle,
		r.Price.StringFixed(2), r.Currency,
		r.MarketplaceFee.StringFixed(2), r.Currency,
		r.RoyaltyFee.StringFixed(2), r.Currency,
		r.SellerProceeds.StringFixed(2), r.Currency,
		r.Currency)
}
