package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scytherma/loginshp-sub000/internal/money"
	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

// formatRate renders 0.115 as "11,5%".
func formatRate(r float64) string {
	s := strconv.FormatFloat(money.Round(r*100), 'f', -1, 64)
	return strings.Replace(s, ".", ",", 1) + "%"
}

func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tabelas",
		Aliases: []string{"tables"},
		Short:   "Print the marketplace fee tables",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, weights := pricing.Categories(), pricing.WeightBrackets()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"shopee": map[string]float64{
						"commission_rate":               pricing.ShopeeStandardCommission,
						"free_shipping_commission_rate": pricing.ShopeeFreeShippingCommission,
						"fixed_fee":                     pricing.ShopeeFixedFee,
					},
					"mercadolivre": map[string]any{
						"categories":              categories,
						"weights":                 weights,
						"free_shipping_threshold": pricing.FreeShippingThreshold,
					},
				})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SHOPEE")
			fmt.Fprintf(tw, "Comissão\t%s (frete grátis: %s)\n", formatRate(pricing.ShopeeStandardCommission), formatRate(pricing.ShopeeFreeShippingCommission))
			fmt.Fprintf(tw, "Taxa fixa\t%s\n\n", money.Format(pricing.ShopeeFixedFee))

			fmt.Fprintln(tw, "MERCADO LIVRE")
			fmt.Fprintln(tw, "CATEGORIA\tNOME\tCLÁSSICO\tPREMIUM")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Category, c.Name, formatRate(c.Classico), formatRate(c.Premium))
			}
			fmt.Fprintf(tw, "\nFRETE (a partir de %s)\tATÉ\tCUSTO\n", money.Format(pricing.FreeShippingThreshold))
			for _, w := range weights {
				fmt.Fprintf(tw, "%s\t%gg\t%s\n", w.Weight, w.MaxGrams, money.Format(w.Cost))
			}
			return tw.Flush()
		},
	}
}
