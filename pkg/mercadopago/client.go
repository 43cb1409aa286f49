// Package mercadopago is a small Mercado Pago client covering recurring
// subscriptions (preapprovals) and webhook verification. It talks to the REST
// API directly.
package mercadopago

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.mercadopago.com"

// Preapproval statuses reported by Mercado Pago.
const (
	StatusPending    = "pending"
	StatusAuthorized = "authorized"
	StatusPaused     = "paused"
	StatusCancelled  = "cancelled"
)

// ErrNotConfigured is returned when no access token or webhook secret is set.
var ErrNotConfigured = errors.New("mercadopago: not configured")

// PreapprovalParams describes a monthly subscription to create.
type PreapprovalParams struct {
	Reason            string  // shown to the payer
	ExternalReference string  // our user id
	PayerEmail        string
	Amount            float64 // monthly charge in BRL
	BackURL           string
}

// Preapproval is the subset of the preapproval resource we use.
type Preapproval struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	InitPoint         string `json:"init_point"`
	ExternalReference string `json:"external_reference"`
	NextPaymentDate   string `json:"next_payment_date"`
}

// NextPayment parses NextPaymentDate; ok is false when absent or malformed.
func (p Preapproval) NextPayment() (t time.Time, ok bool) {
	if p.NextPaymentDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, p.NextPaymentDate)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05.000-07:00", p.NextPaymentDate)
	}
	return t, err == nil
}

// Notification is a webhook body.
type Notification struct {
	ID     json.Number `json:"id"`
	Type   string      `json:"type"`
	Action string      `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Client is the Mercado Pago API surface the subscription service needs.
type Client interface {
	CreatePreapproval(ctx context.Context, params PreapprovalParams) (Preapproval, error)
	GetPreapproval(ctx context.Context, id string) (Preapproval, error)
	CancelPreapproval(ctx context.Context, id string) error
	// VerifyWebhookSignature checks the x-signature header for a notification
	// about dataID carrying the x-request-id header.
	VerifyWebhookSignature(dataID, requestID, sigHeader string) error
	ParseNotification(payload []byte) (Notification, error)
}

// RealClient calls the Mercado Pago REST API.
type RealClient struct {
	AccessToken   string
	WebhookSecret string
	BaseURL       string
	httpClient    *http.Client
	now           func() time.Time
}

// NewClient creates a RealClient against DefaultBaseURL.
func NewClient(accessToken, webhookSecret string) *RealClient {
	return &RealClient{
		AccessToken:   accessToken,
		WebhookSecret: webhookSecret,
		BaseURL:       DefaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		now:           time.Now,
	}
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *RealClient) do(ctx context.Context, method, path string, body any, out any) error {
	if c.AccessToken == "" {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e apiError
		_ = json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		return fmt.Errorf("mercadopago %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreatePreapproval starts a pending monthly subscription and returns the
// checkout URL in InitPoint.
func (c *RealClient) CreatePreapproval(ctx context.Context, params PreapprovalParams) (Preapproval, error) {
	if params.Amount <= 0 {
		return Preapproval{}, errors.New("mercadopago: amount must be greater than 0")
	}
	body := map[string]any{
		"reason":             params.Reason,
		"external_reference": params.ExternalReference,
		"payer_email":        params.PayerEmail,
		"back_url":           params.BackURL,
		"status":             StatusPending,
		"auto_recurring": map[string]any{
			"frequency":          1,
			"frequency_type":     "months",
			"transaction_amount": params.Amount,
			"currency_id":        "BRL",
		},
	}
	var p Preapproval
	if err := c.do(ctx, http.MethodPost, "/preapproval", body, &p); err != nil {
		return Preapproval{}, err
	}
	if p.ID == "" || p.InitPoint == "" {
		return Preapproval{}, errors.New("mercadopago: empty preapproval in response")
	}
	return p, nil
}

// GetPreapproval fetches the current state of a subscription.
func (c *RealClient) GetPreapproval(ctx context.Context, id string) (Preapproval, error) {
	var p Preapproval
	if err := c.do(ctx, http.MethodGet, "/preapproval/"+id, nil, &p); err != nil {
		return Preapproval{}, err
	}
	return p, nil
}

// CancelPreapproval cancels a subscription.
func (c *RealClient) CancelPreapproval(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/preapproval/"+id, map[string]string{"status": StatusCancelled}, nil)
}

// VerifyWebhookSignature validates "ts=<unix>,v1=<hex>" against the manifest
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
func (c *RealClient) VerifyWebhookSignature(dataID, requestID, sigHeader string) error {
	if c.WebhookSecret == "" {
		return ErrNotConfigured
	}

	var ts, v1 string
	for _, part := range strings.Split(sigHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = v
		case "v1":
			v1 = v
		}
	}
	if ts == "" || v1 == "" {
		return errors.New("mercadopago: invalid signature header format")
	}

	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errors.New("mercadopago: invalid timestamp in signature header")
	}
	// ts is documented in seconds but some notifications carry milliseconds.
	if sec > 1e12 {
		sec /= 1000
	}
	if c.now().Sub(time.Unix(sec, 0)) > 5*time.Minute {
		return errors.New("mercadopago: webhook timestamp too old")
	}

	if !hmac.Equal([]byte(v1), []byte(SignManifest(c.WebhookSecret, dataID, requestID, ts))) {
		return errors.New("mercadopago: signature verification failed")
	}
	return nil
}

// SignManifest computes the v1 signature Mercado Pago sends for a
// notification.
func SignManifest(secret, dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		b.WriteString("id:" + strings.ToLower(dataID) + ";")
	}
	if requestID != "" {
		b.WriteString("request-id:" + requestID + ";")
	}
	b.WriteString("ts:" + ts + ";")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseNotification decodes a webhook body.
func (c *RealClient) ParseNotification(payload []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return Notification{}, err
	}
	return n, nil
}
