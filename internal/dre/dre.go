// Package dre builds a simplified DRE (Demonstração do Resultado do
// Exercício) for a marketplace seller.
package dre

import "math"

// Input holds one period's figures. Rates are percentages in [0, 100];
// everything else is a non-negative currency amount.
type Input struct {
	GrossRevenue        float64 `json:"gross_revenue"`
	SalesTaxRate        float64 `json:"sales_tax_rate"`
	ReturnsAndDiscounts float64 `json:"returns_and_discounts"`
	CostOfGoodsSold     float64 `json:"cost_of_goods_sold"`
	MarketplaceFees     float64 `json:"marketplace_fees"`
	ShippingCosts       float64 `json:"shipping_costs"`
	OperatingExpenses   float64 `json:"operating_expenses"`
	IncomeTaxRate       float64 `json:"income_tax_rate"`
}

// Statement is the resulting income statement.
type Statement struct {
	GrossRevenue        float64 `json:"gross_revenue"`
	SalesTaxes          float64 `json:"sales_taxes"`
	ReturnsAndDiscounts float64 `json:"returns_and_discounts"`
	NetRevenue          float64 `json:"net_revenue"`
	CostOfGoodsSold     float64 `json:"cost_of_goods_sold"`
	GrossProfit         float64 `json:"gross_profit"`
	VariableSelling     float64 `json:"variable_selling"`
	ContributionMargin  float64 `json:"contribution_margin"`
	OperatingExpenses   float64 `json:"operating_expenses"`
	OperatingProfit     float64 `json:"operating_profit"`
	IncomeTaxes         float64 `json:"income_taxes"`
	NetProfit           float64 `json:"net_profit"`

	GrossMarginPercent        float64 `json:"gross_margin_percent"`
	ContributionMarginPercent float64 `json:"contribution_margin_percent"`
	OperatingMarginPercent    float64 `json:"operating_margin_percent"`
	NetMarginPercent          float64 `json:"net_margin_percent"`
}

// Compute walks the statement top-down:
//
//	gross revenue − sales taxes − returns            = net revenue
//	net revenue − cost of goods sold                  = gross profit
//	gross profit − marketplace fees − shipping        = contribution margin
//	contribution margin − operating expenses          = operating profit
//	operating profit − income taxes                   = net profit
//
// Income tax applies only to a positive operating profit. Margins are
// relative to net revenue and are 0 when it is not positive.
func Compute(in Input) Statement {
	in = normalize(in)

	st := Statement{
		GrossRevenue:        in.GrossRevenue,
		SalesTaxes:          in.GrossRevenue * in.SalesTaxRate / 100,
		ReturnsAndDiscounts: in.ReturnsAndDiscounts,
		CostOfGoodsSold:     in.CostOfGoodsSold,
		VariableSelling:     in.MarketplaceFees + in.ShippingCosts,
		OperatingExpenses:   in.OperatingExpenses,
	}
	st.NetRevenue = st.GrossRevenue - st.SalesTaxes - st.ReturnsAndDiscounts
	st.GrossProfit = st.NetRevenue - st.CostOfGoodsSold
	st.ContributionMargin = st.GrossProfit - st.VariableSelling
	st.OperatingProfit = st.ContributionMargin - st.OperatingExpenses
	if st.OperatingProfit > 0 {
		st.IncomeTaxes = st.OperatingProfit * in.IncomeTaxRate / 100
	}
	st.NetProfit = st.OperatingProfit - st.IncomeTaxes

	if st.NetRevenue > 0 {
		st.GrossMarginPercent = st.GrossProfit / st.NetRevenue * 100
		st.ContributionMarginPercent = st.ContributionMargin / st.NetRevenue * 100
		st.OperatingMarginPercent = st.OperatingProfit / st.NetRevenue * 100
		st.NetMarginPercent = st.NetProfit / st.NetRevenue * 100
	}
	return st
}

func normalize(in Input) Input {
	in.GrossRevenue = amount(in.GrossRevenue)
	in.SalesTaxRate = rate(in.SalesTaxRate)
	in.ReturnsAndDiscounts = amount(in.ReturnsAndDiscounts)
	in.CostOfGoodsSold = amount(in.CostOfGoodsSold)
	in.MarketplaceFees = amount(in.MarketplaceFees)
	in.ShippingCosts = amount(in.ShippingCosts)
	in.OperatingExpenses = amount(in.OperatingExpenses)
	in.IncomeTaxRate = rate(in.IncomeTaxRate)
	return in
}

func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func rate(v float64) float64 {
	v = amount(v)
	if v > 100 {
		return 100
	}
	return v
}
