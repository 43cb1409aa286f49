package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scytherma/loginshp-sub000/internal/dre"
	"github.com/scytherma/loginshp-sub000/internal/money"
)

func dreCmd() *cobra.Command {
	var raw struct {
		revenue, salesTax, returns, cogs, fees, shipping, opex, incomeTax string
	}
	cmd := &cobra.Command{
		Use:   "dre",
		Short: "Build a simplified income statement for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := dre.Compute(dre.Input{
				GrossRevenue:        money.Parse(raw.revenue),
				SalesTaxRate:        money.Parse(raw.salesTax),
				ReturnsAndDiscounts: money.Parse(raw.returns),
				CostOfGoodsSold:     money.Parse(raw.cogs),
				MarketplaceFees:     money.Parse(raw.fees),
				ShippingCosts:       money.Parse(raw.shipping),
				OperatingExpenses:   money.Parse(raw.opex),
				IncomeTaxRate:       money.Parse(raw.incomeTax),
			})
			if asJSON {
				return printJSON(cmd.OutOrStdout(), st)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			rows := []struct {
				label string
				value float64
			}{
				{"Receita bruta", st.GrossRevenue},
				{"(-) Impostos sobre vendas", st.SalesTaxes},
				{"(-) Devoluções e descontos", st.ReturnsAndDiscounts},
				{"Receita líquida", st.NetRevenue},
				{"(-) CMV", st.CostOfGoodsSold},
				{"Lucro bruto", st.GrossProfit},
				{"(-) Taxas e frete", st.VariableSelling},
				{"Margem de contribuição", st.ContributionMargin},
				{"(-) Despesas operacionais", st.OperatingExpenses},
				{"Resultado operacional", st.OperatingProfit},
				{"(-) IR / CSLL", st.IncomeTaxes},
				{"Lucro líquido", st.NetProfit},
			}
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t\n", r.label, money.Format(r.value))
			}
			fmt.Fprintf(tw, "Margem líquida\t%s\t\n", money.FormatPercent(st.NetMarginPercent))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&raw.revenue, "receita", "", "gross revenue")
	cmd.Flags().StringVar(&raw.salesTax, "imposto-vendas", "", "sales tax rate in percent")
	cmd.Flags().StringVar(&raw.returns, "devolucoes", "", "returns and discounts")
	cmd.Flags().StringVar(&raw.cogs, "cmv", "", "cost of goods sold")
	cmd.Flags().StringVar(&raw.fees, "taxas", "", "marketplace fees")
	cmd.Flags().StringVar(&raw.shipping, "frete", "", "shipping costs")
	cmd.Flags().StringVar(&raw.opex, "despesas", "", "operating expenses")
	cmd.Flags().StringVar(&raw.incomeTax, "imposto-renda", "", "income tax rate in percent")
	_ = cmd.MarkFlagRequired("receita")
	return cmd
}
