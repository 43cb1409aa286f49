package model

import "time"

// ExtraCostPreset is a saved extra-cost row the user can drop into a
// calculator.
type ExtraCostPreset struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"` // "currency" | "percentage"
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExtraCostPresetPatch holds fields that can be updated on a preset.
type ExtraCostPresetPatch struct {
	Label *string
	Value *float64
	Unit  *string
}

// DefaultExtraCostPresets returns the rows offered to a user who has not
// saved any presets yet.
func DefaultExtraCostPresets() []*ExtraCostPreset {
	return []*ExtraCostPreset{
		{Label: "Embalagem", Value: 0, Unit: "currency", SortOrder: 0},
		{Label: "Etiqueta / nota fiscal", Value: 0, Unit: "currency", SortOrder: 1},
		{Label: "Perdas e avarias", Value: 0, Unit: "percentage", SortOrder: 2},
	}
}
