// Package calculator holds the state of one open calculator: the values the
// user has typed so far and the result computed from them.
package calculator

import (
	"errors"
	"math"

	"github.com/scytherma/loginshp-sub000/internal/money"
	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

// ErrNoSuchExtraCost is returned when removing a row that does not exist.
var ErrNoSuchExtraCost = errors.New("calculator: extra cost index out of range")

// Session is one calculator instance. Sessions share nothing, so any number
// of them (one per browser tab, per request, per CLI run) can coexist. A
// Session is not safe for concurrent use.
type Session struct {
	schedule pricing.FeeSchedule
	input    pricing.Input
	result   pricing.Result
}

// New starts a cleared session for the given fee schedule.
func New(schedule pricing.FeeSchedule) *Session {
	s := &Session{schedule: schedule, input: pricing.Clear()}
	s.recompute()
	return s
}

func (s *Session) recompute() {
	s.result = pricing.Compute(s.input, s.schedule)
}

// Input returns a copy of the current input snapshot.
func (s *Session) Input() pricing.Input {
	in := s.input
	in.ExtraCosts = append([]pricing.ExtraCost(nil), s.input.ExtraCosts...)
	return in
}

// Schedule returns the active fee schedule.
func (s *Session) Schedule() pricing.FeeSchedule { return s.schedule }

// Result returns the result of the last mutation.
func (s *Session) Result() pricing.Result { return s.result }

// SetSchedule swaps the fee schedule, e.g. when the free-shipping toggle or
// a Mercado Livre tier changes.
func (s *Session) SetSchedule(fs pricing.FeeSchedule) {
	s.schedule = fs
	s.recompute()
}

// SetProductCost parses raw as a currency amount.
func (s *Session) SetProductCost(raw string) {
	s.input.ProductCost = money.Parse(raw)
	s.recompute()
}

// SetTaxRate parses raw as a percentage and clamps it to [0, 100].
func (s *Session) SetTaxRate(raw string) {
	s.input.TaxRate = clampPercent(money.Parse(raw))
	s.recompute()
}

// SetVariableExpenses parses raw as a currency amount.
func (s *Session) SetVariableExpenses(raw string) {
	s.input.VariableExpenses = money.Parse(raw)
	s.recompute()
}

// SetTargetMargin moves the margin slider; values are clamped to [0, 100].
func (s *Session) SetTargetMargin(percent float64) {
	s.input.TargetMarginPercent = clampPercent(percent)
	s.recompute()
}

// IncrementMultiplier adds one unit to the product bundle.
func (s *Session) IncrementMultiplier() {
	s.input.Multiplier++
	s.recompute()
}

// DecrementMultiplier removes one unit, never going below 1.
func (s *Session) DecrementMultiplier() {
	if s.input.Multiplier > 1 {
		s.input.Multiplier--
	}
	s.recompute()
}

// SetMultiplier sets the bundle size directly; values below 1 become 1.
func (s *Session) SetMultiplier(n int) {
	if n < 1 {
		n = 1
	}
	s.input.Multiplier = n
	s.recompute()
}

// AddExtraCost appends a cost row and returns its index.
func (s *Session) AddExtraCost(label, raw string, unit pricing.Unit) int {
	if unit != pricing.UnitPercentage {
		unit = pricing.UnitCurrency
	}
	s.input.ExtraCosts = append(s.input.ExtraCosts, pricing.ExtraCost{
		Label: label,
		Value: money.Parse(raw),
		Unit:  unit,
	})
	s.recompute()
	return len(s.input.ExtraCosts) - 1
}

// RemoveExtraCost deletes the row at i, keeping the order of the others.
func (s *Session) RemoveExtraCost(i int) error {
	if i < 0 || i >= len(s.input.ExtraCosts) {
		return ErrNoSuchExtraCost
	}
	s.input.ExtraCosts = append(s.input.ExtraCosts[:i:i], s.input.ExtraCosts[i+1:]...)
	s.recompute()
	return nil
}

// Clear resets every field; the fee schedule is kept.
func (s *Session) Clear() {
	s.input = pricing.Clear()
	s.recompute()
}

// clampPercent maps NaN and infinities to 0, like the engine does.
func clampPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
