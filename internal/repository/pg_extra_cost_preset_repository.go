package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scytherma/loginshp-sub000/internal/model"
)

// PgExtraCostPresetRepository is the PostgreSQL ExtraCostPresetRepository.
type PgExtraCostPresetRepository struct {
	pool *pgxpool.Pool
}

// NewPgExtraCostPresetRepository creates a PgExtraCostPresetRepository.
func NewPgExtraCostPresetRepository(pool *pgxpool.Pool) *PgExtraCostPresetRepository {
	return &PgExtraCostPresetRepository{pool: pool}
}

const presetSelectCols = `id, user_id, label, value, unit, sort_order, created_at, updated_at`

func scanPreset(scan func(...any) error) (*model.ExtraCostPreset, error) {
	var p model.ExtraCostPreset
	if err := scan(&p.ID, &p.UserID, &p.Label, &p.Value, &p.Unit, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUserID returns the user's presets in display order.
func (r *PgExtraCostPresetRepository) ListByUserID(ctx context.Context, userID string) ([]*model.ExtraCostPreset, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+presetSelectCols+`
		 FROM extra_cost_presets WHERE user_id = $1 ORDER BY sort_order, created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*model.ExtraCostPreset
	for rows.Next() {
		p, err := scanPreset(rows.Scan)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// validID reports whether id can match the uuid column; anything else is
// ErrNotFound rather than a cast error from PostgreSQL.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GetByID fetches one preset.
func (r *PgExtraCostPresetRepository) GetByID(ctx context.Context, id string) (*model.ExtraCostPreset, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+presetSelectCols+` FROM extra_cost_presets WHERE id = $1`, id)
	p, err := scanPreset(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a preset at the end of the user's list.
func (r *PgExtraCostPresetRepository) Create(ctx context.Context, preset *model.ExtraCostPreset) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO extra_cost_presets (user_id, label, value, unit, sort_order)
		 VALUES ($1, $2, $3, $4,
		         (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM extra_cost_presets WHERE user_id = $1))
		 RETURNING id, sort_order, created_at, updated_at`,
		preset.UserID, preset.Label, preset.Value, preset.Unit,
	).Scan(&preset.ID, &preset.SortOrder, &preset.CreatedAt, &preset.UpdatedAt)
}

// Update saves label, value and unit.
func (r *PgExtraCostPresetRepository) Update(ctx context.Context, preset *model.ExtraCostPreset) error {
	if !validID(preset.ID) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE extra_cost_presets SET label=$1, value=$2, unit=$3, updated_at=NOW() WHERE id=$4`,
		preset.Label, preset.Value, preset.Unit, preset.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a preset.
func (r *PgExtraCostPresetRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM extra_cost_presets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder sets sort_order from the position in ids, touching only rows the
// user owns. Malformed ids are skipped.
func (r *PgExtraCostPresetRepository) Reorder(ctx context.Context, userID string, ids []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, id := range ids {
		if !validID(id) {
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE extra_cost_presets SET sort_order=$1, updated_at=NOW() WHERE id=$2 AND user_id=$3`,
			i, id, userID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
