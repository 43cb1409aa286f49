package handler

import (
	"net/http"

	"github.com/scytherma/loginshp-sub000/internal/dre"
	"github.com/scytherma/loginshp-sub000/internal/money"
)

// DREHandler serves the income statement calculator.
type DREHandler struct{}

func NewDREHandler() *DREHandler {
	return &DREHandler{}
}

type dreRequest struct {
	GrossRevenue        string `json:"gross_revenue"`
	SalesTaxRate        string `json:"sales_tax_rate"`
	ReturnsAndDiscounts string `json:"returns_and_discounts"`
	CostOfGoodsSold     string `json:"cost_of_goods_sold"`
	MarketplaceFees     string `json:"marketplace_fees"`
	ShippingCosts       string `json:"shipping_costs"`
	OperatingExpenses   string `json:"operating_expenses"`
	IncomeTaxRate       string `json:"income_tax_rate"`
}

type dreResponse struct {
	Statement dre.Statement     `json:"statement"`
	View      map[string]string `json:"view"`
}

// Compute handles POST /api/dre.
func (h *DREHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req dreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	st := dre.Compute(dre.Input{
		GrossRevenue:        money.Parse(req.GrossRevenue),
		SalesTaxRate:        money.Parse(req.SalesTaxRate),
		ReturnsAndDiscounts: money.Parse(req.ReturnsAndDiscounts),
		CostOfGoodsSold:     money.Parse(req.CostOfGoodsSold),
		MarketplaceFees:     money.Parse(req.MarketplaceFees),
		ShippingCosts:       money.Parse(req.ShippingCosts),
		OperatingExpenses:   money.Parse(req.OperatingExpenses),
		IncomeTaxRate:       money.Parse(req.IncomeTaxRate),
	})

	writeJSON(w, http.StatusOK, dreResponse{Statement: st, View: renderStatement(st)})
}

func renderStatement(st dre.Statement) map[string]string {
	return map[string]string{
		"gross_revenue":               money.Format(st.GrossRevenue),
		"sales_taxes":                 money.Format(st.SalesTaxes),
		"returns_and_discounts":       money.Format(st.ReturnsAndDiscounts),
		"net_revenue":                 money.Format(st.NetRevenue),
		"cost_of_goods_sold":          money.Format(st.CostOfGoodsSold),
		"gross_profit":                money.Format(st.GrossProfit),
		"variable_selling":            money.Format(st.VariableSelling),
		"contribution_margin":         money.Format(st.ContributionMargin),
		"operating_expenses":          money.Format(st.OperatingExpenses),
		"operating_profit":            money.Format(st.OperatingProfit),
		"income_taxes":                money.Format(st.IncomeTaxes),
		"net_profit":                  money.Format(st.NetProfit),
		"gross_margin_percent":        money.FormatPercent(st.GrossMarginPercent),
		"contribution_margin_percent": money.FormatPercent(st.ContributionMarginPercent),
		"operating_margin_percent":    money.FormatPercent(st.OperatingMarginPercent),
		"net_margin_percent":          money.FormatPercent(st.NetMarginPercent),
	}
}
