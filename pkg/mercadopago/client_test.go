package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRealClient_VerifyWebhookSignature_Valid(t *testing.T) {
	secret := "mp_webhook_secret"
	c := NewClient("APP_USR-test", secret)

	ts := fmt.Sprintf("%d", time.Now().Unix())
	sig := SignManifest(secret, "123456", "req-1", ts)
	header := fmt.Sprintf("ts=%s,v1=%s", ts, sig)

	if err := c.VerifyWebhookSignature("123456", "req-1", header); err != nil {
		t.Fatalf("expected valid signature to pass, got: %v", err)
	}
}

func TestRealClient_VerifyWebhookSignature_MillisecondTimestamp(t *testing.T) {
	secret := "mp_webhook_secret"
	c := NewClient("APP_USR-test", secret)

	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	header := fmt.Sprintf("ts=%s, v1=%s", ts, SignManifest(secret, "abc", "req-1", ts))

	if err := c.VerifyWebhookSignature("abc", "req-1", header); err != nil {
		t.Fatalf("expected valid signature to pass, got: %v", err)
	}
}

func TestRealClient_VerifyWebhookSignature_Invalid(t *testing.T) {
	c := NewClient("APP_USR-test", "mp_webhook_secret")
	ts := fmt.Sprintf("%d", time.Now().Unix())

	if err := c.VerifyWebhookSignature("123", "req-1", "ts="+ts+",v1=wrongsignature"); err == nil {
		t.Error("expected error for invalid signature")
	}
}

func TestRealClient_VerifyWebhookSignature_OtherDataID(t *testing.T) {
	secret := "mp_webhook_secret"
	c := NewClient("APP_USR-test", secret)
	ts := fmt.Sprintf("%d", time.Now().Unix())
	header := fmt.Sprintf("ts=%s,v1=%s", ts, SignManifest(secret, "123", "req-1", ts))

	if err := c.VerifyWebhookSignature("999", "req-1", header); err == nil {
		t.Error("expected error when data id does not match the signature")
	}
}

func TestRealClient_VerifyWebhookSignature_ExpiredTimestamp(t *testing.T) {
	secret := "mp_webhook_secret"
	c := NewClient("APP_USR-test", secret)

	// 10 minutes old
	ts := fmt.Sprintf("%d", time.Now().Add(-10*time.Minute).Unix())
	header := fmt.Sprintf("ts=%s,v1=%s", ts, SignManifest(secret, "123", "req-1", ts))

	if err := c.VerifyWebhookSignature("123", "req-1", header); err == nil {
		t.Error("expected error for expired timestamp")
	}
}

func TestRealClient_VerifyWebhookSignature_BadHeader(t *testing.T) {
	c := NewClient("APP_USR-test", "mp_webhook_secret")
	for _, h := range []string{"", "v1=abc", "ts=123", "ts=abc,v1=def"} {
		if err := c.VerifyWebhookSignature("123", "req-1", h); err == nil {
			t.Errorf("expected error for header %q", h)
		}
	}
}

func TestRealClient_VerifyWebhookSignature_NotConfigured(t *testing.T) {
	c := NewClient("APP_USR-test", "")
	if err := c.VerifyWebhookSignature("123", "req-1", "ts=123,v1=abc"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSignManifest_LowercasesDataID(t *testing.T) {
	if SignManifest("s", "ABC", "r", "1") != SignManifest("s", "abc", "r", "1") {
		t.Error("data id should be lowercased before signing")
	}
}

func TestRealClient_CreatePreapproval(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/preapproval" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer APP_USR-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":         "pre_1",
			"status":     "pending",
			"init_point": "https://www.mercadopago.com.br/subscriptions/checkout?preapproval_id=pre_1",
		})
	}))
	defer srv.Close()

	c := NewClient("APP_USR-test", "")
	c.BaseURL = srv.URL

	p, err := c.CreatePreapproval(context.Background(), PreapprovalParams{
		Reason:            "Plano mensal",
		ExternalReference: "user-1",
		PayerEmail:        "a@example.com",
		Amount:            29.9,
		BackURL:           "https://app.example.com/assinatura",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "pre_1" || p.InitPoint == "" {
		t.Errorf("unexpected preapproval %+v", p)
	}
	if got["external_reference"] != "user-1" {
		t.Errorf("external_reference: got %v", got["external_reference"])
	}
	rec, _ := got["auto_recurring"].(map[string]any)
	if rec["currency_id"] != "BRL" || rec["transaction_amount"] != 29.9 {
		t.Errorf("unexpected auto_recurring %v", rec)
	}
}

func TestRealClient_CreatePreapproval_InvalidAmount(t *testing.T) {
	c := NewClient("APP_USR-test", "")
	if _, err := c.CreatePreapproval(context.Background(), PreapprovalParams{Amount: 0}); err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestRealClient_NotConfigured(t *testing.T) {
	c := NewClient("", "")
	if _, err := c.GetPreapproval(context.Background(), "pre_1"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRealClient_GetPreapproval_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"preapproval not found"}`))
	}))
	defer srv.Close()

	c := NewClient("APP_USR-test", "")
	c.BaseURL = srv.URL
	if _, err := c.GetPreapproval(context.Background(), "missing"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestRealClient_CancelPreapproval(t *testing.T) {
	var method, status string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		status = body["status"]
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("APP_USR-test", "")
	c.BaseURL = srv.URL
	if err := c.CancelPreapproval(context.Background(), "pre_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodPut || status != StatusCancelled {
		t.Errorf("got %s with status %q", method, status)
	}
}

func TestPreapproval_NextPayment(t *testing.T) {
	p := Preapproval{NextPaymentDate: "2026-11-14T10:00:00.000-03:00"}
	got, ok := p.NextPayment()
	if !ok {
		t.Fatal("expected a parsed date")
	}
	if got.UTC().Hour() != 13 || got.Day() != 14 {
		t.Errorf("unexpected time %v", got)
	}
	if _, ok := (Preapproval{}).NextPayment(); ok {
		t.Error("expected ok=false for empty date")
	}
}

func TestRealClient_ParseNotification(t *testing.T) {
	c := NewClient("", "")
	n, err := c.ParseNotification([]byte(`{"id":12345,"type":"subscription_preapproval","action":"updated","data":{"id":"pre_1"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Type != "subscription_preapproval" || n.Data.ID != "pre_1" {
		t.Errorf("unexpected notification %+v", n)
	}
	if _, err := c.ParseNotification([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}
