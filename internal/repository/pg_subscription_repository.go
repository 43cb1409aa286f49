package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scytherma/loginshp-sub000/internal/model"
)

const pgUniqueViolation = "23505"

// PgSubscriptionRepository is the PostgreSQL SubscriptionRepository.
type PgSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubscriptionRepository creates a PgSubscriptionRepository.
func NewPgSubscriptionRepository(pool *pgxpool.Pool) *PgSubscriptionRepository {
	return &PgSubscriptionRepository{pool: pool}
}

// Ping implements DB.
func (r *PgSubscriptionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const subscriptionSelectCols = `user_id, status, COALESCE(preapproval_id, ''), trial_ends_at,
	current_period_end, created_at, updated_at`

func scanSubscription(scan func(...any) error) (*model.Subscription, error) {
	var s model.Subscription
	err := scan(&s.UserID, &s.Status, &s.PreapprovalID, &s.TrialEndsAt, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByUserID fetches the user's subscription.
func (r *PgSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subscriptionSelectCols+` FROM subscriptions WHERE user_id = $1`, userID)
	return scanSubscription(row.Scan)
}

// GetByPreapprovalID finds the subscription a Mercado Pago preapproval belongs to.
func (r *PgSubscriptionRepository) GetByPreapprovalID(ctx context.Context, preapprovalID string) (*model.Subscription, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+subscriptionSelectCols+` FROM subscriptions WHERE preapproval_id = $1`, preapprovalID)
	return scanSubscription(row.Scan)
}

// CreateTrial inserts a free trial row.
func (r *PgSubscriptionRepository) CreateTrial(ctx context.Context, userID string, trialEndsAt time.Time) (*model.Subscription, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO subscriptions (user_id, status, trial_ends_at)
		 VALUES ($1, $2, $3)
		 RETURNING `+subscriptionSelectCols,
		userID, model.SubscriptionFree, trialEndsAt,
	)
	s, err := scanSubscription(row.Scan)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return nil, ErrDuplicate
	}
	return s, err
}

// SetPreapproval links a pending Mercado Pago preapproval to the user.
func (r *PgSubscriptionRepository) SetPreapproval(ctx context.Context, userID, preapprovalID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET preapproval_id=$1, updated_at=NOW() WHERE user_id=$2`,
		preapprovalID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus sets the status and, when given, the end of the paid period.
func (r *PgSubscriptionRepository) UpdateStatus(ctx context.Context, userID, status string, periodEnd *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions
		 SET status=$1, current_period_end=COALESCE($2, current_period_end), updated_at=NOW()
		 WHERE user_id=$3`,
		status, periodEnd, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
