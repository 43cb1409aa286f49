package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scytherma/loginshp-sub000/internal/calculator"
	"github.com/scytherma/loginshp-sub000/internal/money"
	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

// calcFlags are the inputs shared by every marketplace calculator.
type calcFlags struct {
	cost       string
	multiplier int
	tax        string
	expenses   string
	margin     float64
	extras     []string
	price      string
}

func (f *calcFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.cost, "cost", "c", "", `product cost, e.g. "R$ 50,00"`)
	cmd.Flags().IntVar(&f.multiplier, "multiplier", 1, "units per listing (kits)")
	cmd.Flags().StringVar(&f.tax, "tax", "", "tax rate in percent")
	cmd.Flags().StringVar(&f.expenses, "expenses", "", "variable expenses per sale")
	cmd.Flags().Float64VarP(&f.margin, "margin", "m", 0, "target margin in percent")
	cmd.Flags().StringArrayVarP(&f.extras, "extra", "e", nil, `extra cost "label=value" or "label=value%" (repeatable)`)
	cmd.Flags().StringVar(&f.price, "at-price", "", "also report the profit at this sale price")
	_ = cmd.MarkFlagRequired("cost")
}

// parseExtra splits "Embalagem=2,50" or "Perdas=5%" into a label, the raw
// value and its unit.
func parseExtra(s string) (string, string, pricing.Unit, error) {
	i := strings.LastIndex(s, "=")
	if i < 0 {
		return "", "", "", fmt.Errorf("extra cost %q: expected label=value", s)
	}
	label, raw := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	if raw == "" {
		return "", "", "", fmt.Errorf("extra cost %q: missing value", s)
	}
	if strings.HasSuffix(raw, "%") {
		return label, strings.TrimSuffix(raw, "%"), pricing.UnitPercentage, nil
	}
	return label, raw, pricing.UnitCurrency, nil
}

func (f *calcFlags) session(fs pricing.FeeSchedule) (*calculator.Session, error) {
	s := calculator.New(fs)
	s.SetProductCost(f.cost)
	s.SetMultiplier(f.multiplier)
	s.SetTaxRate(f.tax)
	s.SetVariableExpenses(f.expenses)
	s.SetTargetMargin(f.margin)
	for _, e := range f.extras {
		label, raw, unit, err := parseExtra(e)
		if err != nil {
			return nil, err
		}
		s.AddExtraCost(label, raw, unit)
	}
	return s, nil
}

type calcOutput struct {
	Input         pricing.Input   `json:"input"`
	Result        pricing.Result  `json:"result"`
	View          calculator.View `json:"view"`
	MarginPercent float64         `json:"margin_percent"`
	AtPrice       *calcAtPrice    `json:"at_price,omitempty"`
	Details       []string        `json:"details,omitempty"`
}

type calcAtPrice struct {
	Result calculator.View `json:"result"`
	Margin float64         `json:"margin_percent"`
}

func (f *calcFlags) output(s *calculator.Session, details ...string) calcOutput {
	r := s.Result()
	out := calcOutput{
		Input:         s.Input(),
		Result:        r,
		View:          s.View(),
		MarginPercent: r.MarginPercent(),
		Details:       details,
	}
	if strings.TrimSpace(f.price) != "" {
		at := pricing.ProfitAt(out.Input, s.Schedule(), money.Parse(f.price))
		out.AtPrice = &calcAtPrice{Result: calculator.Render(at), Margin: at.MarginPercent()}
	}
	return out
}

func writeCalc(w io.Writer, out calcOutput) error {
	if asJSON {
		if err := printJSON(w, out); err != nil {
			return err
		}
		return out.Result.Err()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range out.Details {
		fmt.Fprintln(tw, d)
	}
	v := out.View
	switch out.Result.Status {
	case pricing.StatusEmpty:
		fmt.Fprintln(tw, "Informe o custo do produto.")
	case pricing.StatusInvalid:
		fmt.Fprintln(tw, v.Message)
		fmt.Fprintf(tw, "Custo total:\t%s\n", v.TotalProductCost)
	default:
		fmt.Fprintf(tw, "Preço de venda:\t%s\n", v.SalePrice)
		fmt.Fprintf(tw, "Lucro por venda:\t%s\t(%s)\n", v.ProfitPerSale, money.FormatPercent(out.MarginPercent))
		fmt.Fprintf(tw, "Comissão:\t%s\n", v.CommissionAmount)
		fmt.Fprintf(tw, "Taxa fixa / frete:\t%s\n", v.FixedFeeAmount)
		fmt.Fprintf(tw, "Impostos:\t%s\n", v.TaxAmount)
		fmt.Fprintf(tw, "Custo total:\t%s\n", v.TotalProductCost)
		fmt.Fprintf(tw, "Retorno sobre o produto:\t%s\n", v.ReturnOnProductPercent)
		fmt.Fprintf(tw, "Markup:\t%s\t(%s)\n", v.MarkupPercent, v.MarkupMultiple)
	}
	if out.AtPrice != nil {
		fmt.Fprintf(tw, "Lucro a %s:\t%s\t(%s)\n", out.AtPrice.Result.SalePrice, out.AtPrice.Result.ProfitPerSale, money.FormatPercent(out.AtPrice.Margin))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return out.Result.Err()
}
