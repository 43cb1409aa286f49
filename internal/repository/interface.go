package repository

import (
	"context"
	"time"

	"github.com/scytherma/loginshp-sub000/internal/model"
)

// DB checks that the database connection is alive.
type DB interface {
	Ping(ctx context.Context) error
}

// SubscriptionRepository persists one subscription row per user.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Subscription, error)
	GetByPreapprovalID(ctx context.Context, preapprovalID string) (*model.Subscription, error)
	// CreateTrial inserts a free trial row; ErrDuplicate if the user has one.
	CreateTrial(ctx context.Context, userID string, trialEndsAt time.Time) (*model.Subscription, error)
	SetPreapproval(ctx context.Context, userID, preapprovalID string) error
	UpdateStatus(ctx context.Context, userID, status string, periodEnd *time.Time) error
}
