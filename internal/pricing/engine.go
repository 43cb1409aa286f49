// Package pricing solves the sale price that yields a target profit margin on
// a marketplace, after the platform's commission, fixed fees and taxes.
package pricing

import (
	"errors"
	"math"
)

// Unit tells how an ExtraCost value is applied.
type Unit string

const (
	UnitCurrency   Unit = "currency"   // absolute amount added to the cost
	UnitPercentage Unit = "percentage" // percent of productCost × multiplier
)

// Platform identifies a marketplace fee schedule.
type Platform string

const (
	PlatformShopee       Platform = "shopee"
	PlatformMercadoLivre Platform = "mercadolivre"
)

// Status describes whether a Result carries a usable price.
type Status string

const (
	StatusOK      Status = "ok"
	StatusEmpty   Status = "empty"   // no cost entered yet
	StatusInvalid Status = "invalid" // proportional deductions reach 100%
)

// minDenominator keeps the solved price finite when the deductions get
// arbitrarily close to 100%.
const minDenominator = 1e-9

// ErrDeductionsTooHigh is reported by Result.Err when commission, tax and the
// target margin together leave no room for the product cost.
var ErrDeductionsTooHigh = errors.New("pricing: commission, tax and margin reach 100% of the sale price")

// ErrOutOfRange is reported by Result.Err when the amounts are too large to
// yield a finite price.
var ErrOutOfRange = errors.New("pricing: amounts too large to price")

// ExtraCost is one user-entered cost line.
type ExtraCost struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Input is the full set of values behind one calculation.
type Input struct {
	ProductCost         float64     `json:"product_cost"`
	Multiplier          int         `json:"multiplier"`
	TaxRate             float64     `json:"tax_rate"`
	VariableExpenses    float64     `json:"variable_expenses"`
	ExtraCosts          []ExtraCost `json:"extra_costs"`
	TargetMarginPercent float64     `json:"target_margin_percent"`
}

// FeeSchedule is what a marketplace charges on each sale.
type FeeSchedule interface {
	Platform() Platform
	// CommissionRate is the fraction of the sale price kept by the platform.
	CommissionRate() float64
	// FixedFee is a flat amount charged per sale regardless of price.
	FixedFee() float64
}

// Result holds the solved price and the metrics derived from it.
type Result struct {
	Platform               Platform `json:"platform"`
	Status                 Status   `json:"status"`
	SalePrice              float64  `json:"sale_price"`
	ProfitPerSale          float64  `json:"profit_per_sale"`
	CommissionAmount       float64  `json:"commission_amount"`
	FixedFeeAmount         float64  `json:"fixed_fee_amount"`
	PlatformFeeAmount      float64  `json:"platform_fee_amount"`
	TaxAmount              float64  `json:"tax_amount"`
	TotalProductCost       float64  `json:"total_product_cost"`
	ReturnOnProductPercent float64  `json:"return_on_product_percent"`
	MarkupPercent          float64  `json:"markup_percent"`
	MarkupMultiple         float64  `json:"markup_multiple"`

	err error
}

// Err returns why an invalid result has no price, ErrDeductionsTooHigh or
// ErrOutOfRange, and nil otherwise.
func (r Result) Err() error {
	if r.Status != StatusInvalid {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return ErrDeductionsTooHigh
}

// outOfRange is the invalid result for sums that overflowed.
func outOfRange(p Platform, total float64) Result {
	if !finite(total) {
		total = 0
	}
	return Result{Platform: p, Status: StatusInvalid, TotalProductCost: total, err: ErrOutOfRange}
}

func (r Result) finite() bool {
	for _, v := range []float64{
		r.SalePrice, r.ProfitPerSale, r.CommissionAmount, r.FixedFeeAmount,
		r.PlatformFeeAmount, r.TaxAmount, r.TotalProductCost,
		r.ReturnOnProductPercent, r.MarkupPercent, r.MarkupMultiple,
	} {
		if !finite(v) {
			return false
		}
	}
	return true
}

// Clear returns the input a freshly reset calculator starts from.
func Clear() Input {
	return Input{Multiplier: 1}
}

// Normalize returns a copy of in with every field forced into its documented
// range: amounts non-negative and finite, multiplier at least 1, tax and
// margin within [0, 100].
func (in Input) Normalize() Input {
	out := in
	out.ProductCost = nonNegative(in.ProductCost)
	if out.Multiplier < 1 {
		out.Multiplier = 1
	}
	out.TaxRate = clampPercent(in.TaxRate)
	out.VariableExpenses = nonNegative(in.VariableExpenses)
	out.TargetMarginPercent = clampPercent(in.TargetMarginPercent)

	out.ExtraCosts = nil
	if len(in.ExtraCosts) > 0 {
		out.ExtraCosts = make([]ExtraCost, len(in.ExtraCosts))
		for i, ec := range in.ExtraCosts {
			if ec.Unit != UnitPercentage {
				ec.Unit = UnitCurrency
			}
			ec.Value = nonNegative(ec.Value)
			out.ExtraCosts[i] = ec
		}
	}
	return out
}

// TotalProductCost is productCost × multiplier plus variable expenses and
// every extra cost line. It expects a normalized input.
func TotalProductCost(in Input) float64 {
	base := in.ProductCost * float64(in.Multiplier)
	total := base + in.VariableExpenses
	for _, ec := range in.ExtraCosts {
		switch ec.Unit {
		case UnitPercentage:
			total += base * ec.Value / 100
		default:
			total += ec.Value
		}
	}
	return total
}

// Compute solves the sale price for in under fs.
//
// Commission and tax are proportional to the unknown price, so
//
//	price = (totalProductCost + fixedFee) / (1 − commission − tax − margin)
//
// A zero total cost yields an empty result; a non-positive denominator or an
// overflowing sum yields an invalid one. No result carries NaN or infinite
// values.
func Compute(in Input, fs FeeSchedule) Result {
	in = in.Normalize()
	total := TotalProductCost(in)

	if !finite(total) {
		return outOfRange(fs.Platform(), total)
	}
	res := Result{Platform: fs.Platform(), TotalProductCost: total}
	if total <= 0 {
		res.Status = StatusEmpty
		return res
	}

	commission := clampFraction(fs.CommissionRate())
	fixed := nonNegative(fs.FixedFee())
	tax := in.TaxRate / 100
	margin := in.TargetMarginPercent / 100

	denom := 1 - commission - tax - margin
	if denom < minDenominator {
		res.Status = StatusInvalid
		return res
	}

	price := (total + fixed) / denom
	res.Status = StatusOK
	res.SalePrice = price
	res.CommissionAmount = price * commission
	res.FixedFeeAmount = fixed
	res.PlatformFeeAmount = res.CommissionAmount + fixed
	res.TaxAmount = price * tax
	res.ProfitPerSale = price - res.PlatformFeeAmount - res.TaxAmount - total
	res.MarkupPercent = (price - total) / total * 100
	res.MarkupMultiple = price / total
	res.ReturnOnProductPercent = res.ProfitPerSale / total * 100
	if !res.finite() {
		return outOfRange(fs.Platform(), total)
	}
	return res
}

// ProfitAt evaluates a sale at a fixed price instead of solving for one. The
// margin it implies is ProfitPerSale / SalePrice.
func ProfitAt(in Input, fs FeeSchedule, price float64) Result {
	in = in.Normalize()
	total := TotalProductCost(in)
	price = nonNegative(price)

	if !finite(total) {
		return outOfRange(fs.Platform(), total)
	}
	res := Result{Platform: fs.Platform(), TotalProductCost: total, SalePrice: price}
	if price == 0 {
		res.Status = StatusEmpty
		return res
	}

	commission := clampFraction(fs.CommissionRate())
	res.Status = StatusOK
	res.CommissionAmount = price * commission
	res.FixedFeeAmount = nonNegative(fs.FixedFee())
	res.PlatformFeeAmount = res.CommissionAmount + res.FixedFeeAmount
	res.TaxAmount = price * in.TaxRate / 100
	res.ProfitPerSale = price - res.PlatformFeeAmount - res.TaxAmount - total
	if total > 0 {
		res.MarkupPercent = (price - total) / total * 100
		res.MarkupMultiple = price / total
		res.ReturnOnProductPercent = res.ProfitPerSale / total * 100
	}
	if !res.finite() {
		return outOfRange(fs.Platform(), total)
	}
	return res
}

// MarginPercent returns ProfitPerSale / SalePrice × 100, or 0 without a price.
func (r Result) MarginPercent() float64 {
	if r.SalePrice <= 0 {
		return 0
	}
	return r.ProfitPerSale / r.SalePrice * 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

func clampPercent(v float64) float64 {
	v = nonNegative(v)
	if v > 100 {
		return 100
	}
	return v
}

func clampFraction(v float64) float64 {
	v = nonNegative(v)
	if v > 1 {
		return 1
	}
	return v
}
