package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/scytherma/loginshp-sub000/internal/model"
	"github.com/scytherma/loginshp-sub000/internal/pricing"
	"github.com/scytherma/loginshp-sub000/internal/repository"
)

const maxPresetLabelLen = 80

// ExtraCostPresetService manages a user's saved extra-cost rows.
type ExtraCostPresetService interface {
	List(ctx context.Context, userID string) ([]*model.ExtraCostPreset, error)
	Create(ctx context.Context, userID, label string, value float64, unit string) (*model.ExtraCostPreset, error)
	Update(ctx context.Context, id, userID string, patch model.ExtraCostPresetPatch) error
	Delete(ctx context.Context, id, userID string) error
	Reorder(ctx context.Context, userID string, ids []string) error
}

// ExtraCostPresetServiceImpl implements ExtraCostPresetService.
type ExtraCostPresetServiceImpl struct {
	repo repository.ExtraCostPresetRepository
}

// NewExtraCostPresetService creates an ExtraCostPresetServiceImpl.
func NewExtraCostPresetService(repo repository.ExtraCostPresetRepository) ExtraCostPresetService {
	return &ExtraCostPresetServiceImpl{repo: repo}
}

// List returns the user's presets, or the defaults if they have none.
func (s *ExtraCostPresetServiceImpl) List(ctx context.Context, userID string) ([]*model.ExtraCostPreset, error) {
	presets, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(presets) == 0 {
		return model.DefaultExtraCostPresets(), nil
	}
	return presets, nil
}

func (s *ExtraCostPresetServiceImpl) Create(ctx context.Context, userID, label string, value float64, unit string) (*model.ExtraCostPreset, error) {
	label, err := validLabel(label)
	if err != nil {
		return nil, err
	}
	if err := validPresetValue(value, unit); err != nil {
		return nil, err
	}
	preset := &model.ExtraCostPreset{
		UserID: userID,
		Label:  label,
		Value:  value,
		Unit:   unit,
	}
	if err := s.repo.Create(ctx, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

// Update applies patch to a preset owned by userID.
func (s *ExtraCostPresetServiceImpl) Update(ctx context.Context, id, userID string, patch model.ExtraCostPresetPatch) error {
	preset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if preset.UserID != userID {
		return ErrForbidden
	}
	if patch.Label != nil {
		label, err := validLabel(*patch.Label)
		if err != nil {
			return err
		}
		preset.Label = label
	}
	if patch.Value != nil {
		preset.Value = *patch.Value
	}
	if patch.Unit != nil {
		preset.Unit = *patch.Unit
	}
	if err := validPresetValue(preset.Value, preset.Unit); err != nil {
		return err
	}
	return s.repo.Update(ctx, preset)
}

// Delete removes a preset owned by userID.
func (s *ExtraCostPresetServiceImpl) Delete(ctx context.Context, id, userID string) error {
	preset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if preset.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *ExtraCostPresetServiceImpl) Reorder(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids must not be empty", ErrInvalidInput)
	}
	return s.repo.Reorder(ctx, userID, ids)
}

func validLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fmt.Errorf("%w: label is required", ErrInvalidInput)
	}
	if len([]rune(label)) > maxPresetLabelLen {
		return "", fmt.Errorf("%w: label too long", ErrInvalidInput)
	}
	return label, nil
}

func validPresetValue(value float64, unit string) error {
	switch pricing.Unit(unit) {
	case pricing.UnitCurrency, pricing.UnitPercentage:
	default:
		return fmt.Errorf("%w: unit must be 'currency' or 'percentage'", ErrInvalidInput)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%w: value must be a non-negative number", ErrInvalidInput)
	}
	if pricing.Unit(unit) == pricing.UnitPercentage && value > 100 {
		return fmt.Errorf("%w: percentage must not exceed 100", ErrInvalidInput)
	}
	return nil
}
