package repository

import (
	"context"

	"github.com/scytherma/loginshp-sub000/internal/model"
)

// ExtraCostPresetRepository persists a user's saved extra-cost rows.
type ExtraCostPresetRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*model.ExtraCostPreset, error)
	GetByID(ctx context.Context, id string) (*model.ExtraCostPreset, error)
	Create(ctx context.Context, preset *model.ExtraCostPreset) error
	Update(ctx context.Context, preset *model.ExtraCostPreset) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, userID string, ids []string) error
}
