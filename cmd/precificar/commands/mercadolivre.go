package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

func mercadoLivreCmd() *cobra.Command {
	var (
		f            calcFlags
		category     string
		listing      string
		priceBracket string
		weight       string
		weightGrams  float64
	)
	cmd := &cobra.Command{
		Use:     "mercadolivre",
		Aliases: []string{"ml"},
		Short:   "Solve the Mercado Livre sale price for a target margin",
		Example: `  precificar ml --cost 100 --category informatica --weight-grams 800 --margin 15
  precificar ml --cost 100 --category moda --listing premium --price-bracket acima-79 --weight 1-2kg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commission := pricing.CommissionTier{Category: pricing.Category(category), Listing: pricing.Listing(listing)}
			if _, err := pricing.MercadoLivreCommission(commission); err != nil {
				return err
			}

			var shipping pricing.ShippingTier
			auto := weight == ""
			if auto {
				if weightGrams <= 0 {
					return fmt.Errorf("pass --weight-grams, or --weight with --price-bracket")
				}
				shipping = pricing.SuggestShipping(weightGrams, 0)
			} else {
				shipping = pricing.ShippingTier{Price: pricing.PriceBracket(priceBracket), Weight: pricing.WeightBracket(weight)}
			}
			schedule, err := pricing.NewMercadoLivre(commission, shipping)
			if err != nil {
				return err
			}

			s, err := f.session(schedule)
			if err != nil {
				return err
			}
			if auto {
				_, resolved, err := pricing.ComputeMercadoLivreAuto(s.Input(), commission, weightGrams)
				if err != nil {
					return err
				}
				schedule = resolved
				s.SetSchedule(schedule)
			}

			st := schedule.Shipping()
			details := []string{
				fmt.Sprintf("Anúncio:\t%s / %s\t(%s)", category, listing, formatRate(schedule.CommissionRate())),
				fmt.Sprintf("Frete:\t%s / %s", st.Price, st.Weight),
			}
			return writeCalc(cmd.OutOrStdout(), f.output(s, details...))
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&category, "category", "", "commission category (see `precificar tabelas`)")
	cmd.Flags().StringVar(&listing, "listing", string(pricing.ListingClassico), "classico or premium")
	cmd.Flags().StringVar(&priceBracket, "price-bracket", string(pricing.PriceAboveThreshold), "abaixo-79 or acima-79, with --weight")
	cmd.Flags().StringVar(&weight, "weight", "", "explicit shipping weight bracket")
	cmd.Flags().Float64Var(&weightGrams, "weight-grams", 0, "package weight; picks the shipping tier from the solved price")
	_ = cmd.MarkFlagRequired("category")
	cmd.MarkFlagsMutuallyExclusive("weight", "weight-grams")
	return cmd
}
