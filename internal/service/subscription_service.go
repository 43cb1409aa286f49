package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/scytherma/loginshp-sub000/internal/cache"
	"github.com/scytherma/loginshp-sub000/internal/model"
	"github.com/scytherma/loginshp-sub000/internal/repository"
	"github.com/scytherma/loginshp-sub000/pkg/mercadopago"
)

// DefaultTrialDays is the length of the free trial for new users.
const DefaultTrialDays = 7

// SubscriptionCache is the read-through cache in front of the subscription
// table. Get returns cache.ErrMiss when the key is absent.
type SubscriptionCache interface {
	Get(ctx context.Context, userID string) (*model.Subscription, error)
	Set(ctx context.Context, sub *model.Subscription) error
	Invalidate(ctx context.Context, userID string) error
}

// AccessInfo is a subscription resolved against the clock.
type AccessInfo struct {
	Status        string              `json:"status"` // effective status
	Allowed       bool                `json:"allowed"`
	TrialDaysLeft int                 `json:"trial_days_left"`
	Subscription  *model.Subscription `json:"subscription"`
}

// SubscriptionConfig holds the plan settings.
type SubscriptionConfig struct {
	TrialDays   int
	PlanAmount  float64 // monthly price in BRL
	PlanReason  string
	FrontendURL string
}

// SubscriptionService gates the calculators behind a trial or a paid plan.
type SubscriptionService interface {
	// Access returns the user's subscription, starting a trial on first use.
	Access(ctx context.Context, userID string) (*AccessInfo, error)
	// CreateCheckout creates a Mercado Pago preapproval and returns its checkout URL.
	CreateCheckout(ctx context.Context, userID, email string) (string, error)
	// Cancel cancels the user's paid subscription.
	Cancel(ctx context.Context, userID string) error
	// ProcessWebhook verifies a Mercado Pago notification and applies it.
	ProcessWebhook(ctx context.Context, payload []byte, sigHeader, requestID string) error
}

// SubscriptionServiceImpl implements SubscriptionService.
type SubscriptionServiceImpl struct {
	repo   repository.SubscriptionRepository
	cache  SubscriptionCache // optional, nil = always hit the repository
	client mercadopago.Client
	cfg    SubscriptionConfig
	now    func() time.Time
}

// NewSubscriptionService creates a SubscriptionServiceImpl. cache may be nil.
func NewSubscriptionService(repo repository.SubscriptionRepository, cache SubscriptionCache, client mercadopago.Client, cfg SubscriptionConfig) SubscriptionService {
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = DefaultTrialDays
	}
	if cfg.PlanReason == "" {
		cfg.PlanReason = "Precificador - plano mensal"
	}
	return &SubscriptionServiceImpl{
		repo:   repo,
		cache:  cache,
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *SubscriptionServiceImpl) Access(ctx context.Context, userID string) (*AccessInfo, error) {
	sub, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(sub), nil
}

func (s *SubscriptionServiceImpl) resolve(sub *model.Subscription) *AccessInfo {
	now := s.now()
	info := &AccessInfo{
		Status:       sub.EffectiveStatus(now),
		Subscription: sub,
	}
	info.Allowed = info.Status != model.SubscriptionExpired
	if info.Status == model.SubscriptionFree {
		info.TrialDaysLeft = int(math.Ceil(sub.TrialEndsAt.Sub(now).Hours() / 24))
	}
	return info
}

// load reads through the cache, creating the trial row for a first-time user.
func (s *SubscriptionServiceImpl) load(ctx context.Context, userID string) (*model.Subscription, error) {
	if s.cache != nil {
		sub, err := s.cache.Get(ctx, userID)
		if err == nil {
			return sub, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.WarnContext(ctx, "subscription cache get failed", "user_id", userID, "error", err)
		}
	}

	sub, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		trialEnds := s.now().AddDate(0, 0, s.cfg.TrialDays)
		sub, err = s.repo.CreateTrial(ctx, userID, trialEnds)
		if errors.Is(err, repository.ErrDuplicate) {
			// another request created it first
			sub, err = s.repo.GetByUserID(ctx, userID)
		}
		if err == nil {
			slog.InfoContext(ctx, "trial started", "user_id", userID, "trial_ends_at", sub.TrialEndsAt)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sub); err != nil {
			slog.WarnContext(ctx, "subscription cache set failed", "user_id", userID, "error", err)
		}
	}
	return sub, nil
}

func (s *SubscriptionServiceImpl) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		slog.WarnContext(ctx, "subscription cache invalidate failed", "user_id", userID, "error", err)
	}
}

func (s *SubscriptionServiceImpl) CreateCheckout(ctx context.Context, userID, email string) (string, error) {
	info, err := s.Access(ctx, userID)
	if err != nil {
		return "", err
	}
	if info.Status == model.SubscriptionActive {
		return "", ErrAlreadySubscribed
	}

	p, err := s.client.CreatePreapproval(ctx, mercadopago.PreapprovalParams{
		Reason:            s.cfg.PlanReason,
		ExternalReference: userID,
		PayerEmail:        email,
		Amount:            s.cfg.PlanAmount,
		BackURL:           s.cfg.FrontendURL + "/assinatura?status=retorno",
	})
	if err != nil {
		return "", fmt.Errorf("create preapproval: %w", err)
	}
	if err := s.repo.SetPreapproval(ctx, userID, p.ID); err != nil {
		return "", err
	}
	s.invalidate(ctx, userID)
	return p.InitPoint, nil
}

func (s *SubscriptionServiceImpl) Cancel(ctx context.Context, userID string) error {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNoSubscription
	}
	if err != nil {
		return err
	}
	if sub.PreapprovalID == "" {
		return ErrNoSubscription
	}
	if err := s.client.CancelPreapproval(ctx, sub.PreapprovalID); err != nil {
		return fmt.Errorf("cancel preapproval: %w", err)
	}
	if err := s.repo.UpdateStatus(ctx, userID, s.stoppedStatus(sub), sub.CurrentPeriodEnd); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *SubscriptionServiceImpl) ProcessWebhook(ctx context.Context, payload []byte, sigHeader, requestID string) error {
	n, err := s.client.ParseNotification(payload)
	if err != nil {
		return fmt.Errorf("parse notification: %w", err)
	}
	if err := s.client.VerifyWebhookSignature(n.Data.ID, requestID, sigHeader); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	switch n.Type {
	case "subscription_preapproval", "preapproval":
		return s.handlePreapproval(ctx, n.Data.ID)
	}
	slog.DebugContext(ctx, "mercadopago notification ignored", "type", n.Type, "action", n.Action)
	return nil
}

func (s *SubscriptionServiceImpl) handlePreapproval(ctx context.Context, preapprovalID string) error {
	if preapprovalID == "" {
		return errors.New("mercadopago webhook: missing data.id")
	}
	p, err := s.client.GetPreapproval(ctx, preapprovalID)
	if err != nil {
		return fmt.Errorf("get preapproval: %w", err)
	}

	userID := p.ExternalReference
	if userID == "" {
		sub, err := s.repo.GetByPreapprovalID(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("find subscription for preapproval %s: %w", p.ID, err)
		}
		userID = sub.UserID
	}

	var (
		status    string
		periodEnd *time.Time
	)
	switch p.Status {
	case mercadopago.StatusAuthorized:
		status = model.SubscriptionActive
		if t, ok := p.NextPayment(); ok {
			periodEnd = &t
		}
	case mercadopago.StatusCancelled, mercadopago.StatusPaused:
		status = model.SubscriptionExpired
		sub, err := s.repo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if sub != nil {
			status = s.stoppedStatus(sub)
			periodEnd = sub.CurrentPeriodEnd
		}
	default:
		// pending: the payer has not finished checkout
		return nil
	}

	if err := s.repo.SetPreapproval(ctx, userID, p.ID); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, userID, status, periodEnd); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	slog.InfoContext(ctx, "subscription updated", "user_id", userID, "status", status, "preapproval_id", p.ID)
	return nil
}

// stoppedStatus is the status of a subscription whose billing has stopped:
// a paid period already running stays usable until it ends.
func (s *SubscriptionServiceImpl) stoppedStatus(sub *model.Subscription) string {
	if sub.CurrentPeriodEnd != nil && s.now().Before(*sub.CurrentPeriodEnd) {
		return model.SubscriptionActive
	}
	return model.SubscriptionExpired
}
