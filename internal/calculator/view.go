package calculator

import (
	"errors"

	"github.com/scytherma/loginshp-sub000/internal/money"
	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

// View is a Result rendered for display.
type View struct {
	Status                 pricing.Status `json:"status"`
	SalePrice              string         `json:"sale_price"`
	ProfitPerSale          string         `json:"profit_per_sale"`
	CommissionAmount       string         `json:"commission_amount"`
	FixedFeeAmount         string         `json:"fixed_fee_amount"`
	PlatformFeeAmount      string         `json:"platform_fee_amount"`
	TaxAmount              string         `json:"tax_amount"`
	TotalProductCost       string         `json:"total_product_cost"`
	ReturnOnProductPercent string         `json:"return_on_product_percent"`
	MarkupPercent          string         `json:"markup_percent"`
	MarkupMultiple         string         `json:"markup_multiple"`
	Message                string         `json:"message,omitempty"`
}

// Render formats r the way the calculator shows it.
func Render(r pricing.Result) View {
	v := View{
		Status:                 r.Status,
		SalePrice:              money.Format(r.SalePrice),
		ProfitPerSale:          money.Format(r.ProfitPerSale),
		CommissionAmount:       money.Format(r.CommissionAmount),
		FixedFeeAmount:         money.Format(r.FixedFeeAmount),
		PlatformFeeAmount:      money.Format(r.PlatformFeeAmount),
		TaxAmount:              money.Format(r.TaxAmount),
		TotalProductCost:       money.Format(r.TotalProductCost),
		ReturnOnProductPercent: money.FormatPercent(r.ReturnOnProductPercent),
		MarkupPercent:          money.FormatPercent(r.MarkupPercent),
		MarkupMultiple:         money.FormatMultiple(r.MarkupMultiple),
	}
	switch err := r.Err(); {
	case errors.Is(err, pricing.ErrOutOfRange):
		v.Message = "Valores grandes demais para calcular um preço."
	case err != nil:
		v.Message = "Comissão, impostos e margem somam 100% ou mais do preço de venda."
	}
	return v
}

// View renders the session's current result.
func (s *Session) View() View { return Render(s.result) }
