package commands

import (
	"github.com/spf13/cobra"

	"github.com/scytherma/loginshp-sub000/internal/pricing"
)

func shopeeCmd() *cobra.Command {
	var (
		f            calcFlags
		freeShipping bool
	)
	cmd := &cobra.Command{
		Use:   "shopee",
		Short: "Solve the Shopee sale price for a target margin",
		Example: `  precificar shopee --cost 50 --margin 20
  precificar shopee -c "R$ 32,90" --tax 6 -e "Embalagem=1,50" -e "Perdas=3%" --frete-gratis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.session(pricing.Shopee{FreeShippingProgram: freeShipping})
			if err != nil {
				return err
			}
			return writeCalc(cmd.OutOrStdout(), f.output(s))
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&freeShipping, "frete-gratis", false, "seller is in the free-shipping program (20% commission)")
	return cmd
}
