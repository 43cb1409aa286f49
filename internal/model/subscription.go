package model

import "time"

// Subscription statuses. A missing row behaves like a fresh "free" trial.
const (
	SubscriptionFree    = "free"
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// Subscription tracks a user's access to the paid calculators.
type Subscription struct {
	UserID           string     `json:"user_id"`
	Status           string     `json:"status"` // "free" | "active" | "expired"
	PreapprovalID    string     `json:"-"`      // Mercado Pago preapproval id
	TrialEndsAt      time.Time  `json:"trial_ends_at"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EffectiveStatus resolves the stored status against the clock: a trial or a
// paid period that has ended reads as expired.
func (s *Subscription) EffectiveStatus(now time.Time) string {
	switch s.Status {
	case SubscriptionActive:
		if s.CurrentPeriodEnd != nil && now.After(*s.CurrentPeriodEnd) {
			return SubscriptionExpired
		}
		return SubscriptionActive
	case SubscriptionFree:
		if now.After(s.TrialEndsAt) {
			return SubscriptionExpired
		}
		return SubscriptionFree
	default:
		return SubscriptionExpired
	}
}

// HasAccess reports whether the calculators are unlocked at now.
func (s *Subscription) HasAccess(now time.Time) bool {
	return s.EffectiveStatus(now) != SubscriptionExpired
}
