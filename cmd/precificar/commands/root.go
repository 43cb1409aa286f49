package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scytherma/loginshp-sub000/internal/logging"
)

var (
	asJSON   bool
	logLevel string
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "precificar",
		Short:         "Sale price and margin calculator for Shopee and Mercado Livre",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	root.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "DEBUG, INFO, WARN or ERROR")

	root.AddCommand(shopeeCmd(), mercadoLivreCmd(), dreCmd(), tablesCmd(), tokenCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
