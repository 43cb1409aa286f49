package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/scytherma/loginshp-sub000/internal/model"
)

func TestSubscriptionKey(t *testing.T) {
	if got := subscriptionKey("u-1"); got != "subscription:u-1" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestEntry_KeepsPreapprovalID(t *testing.T) {
	end := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sub := model.Subscription{
		UserID:           "u-1",
		Status:           model.SubscriptionActive,
		PreapprovalID:    "pre-123",
		CurrentPeriodEnd: &end,
	}
	data, err := json.Marshal(entry{Subscription: sub, PreapprovalID: sub.PreapprovalID})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.PreapprovalID != "pre-123" {
		t.Errorf("PreapprovalID: want pre-123, got %q", e.PreapprovalID)
	}
	if e.Status != model.SubscriptionActive || e.UserID != "u-1" {
		t.Errorf("unexpected subscription %+v", e.Subscription)
	}
	if e.CurrentPeriodEnd == nil || !e.CurrentPeriodEnd.Equal(end) {
		t.Errorf("CurrentPeriodEnd: want %v, got %v", end, e.CurrentPeriodEnd)
	}
}

func TestNewRedisSubscriptionCache_DefaultTTL(t *testing.T) {
	c := NewRedisSubscriptionCache(nil, 0)
	if c.ttl != DefaultTTL {
		t.Errorf("want %v, got %v", DefaultTTL, c.ttl)
	}
}
