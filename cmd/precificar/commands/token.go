package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/scytherma/loginshp-sub000/pkg/auth"
)

// tokenCmd signs a bearer token the API accepts, for calling a local server
// with AUTH_REQUIRED=true.
func tokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		email  string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development bearer token with SUPABASE_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("SUPABASE_JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("no secret: set SUPABASE_JWT_SECRET or pass --secret")
			}
			now := time.Now()
			tok, err := auth.SignToken(auth.Claims{
				Email: email,
				Role:  auth.Audience,
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   userID,
					IssuedAt:  jwt.NewNumericDate(now),
					ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				},
			}, []byte(secret))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (default $SUPABASE_JWT_SECRET)")
	cmd.Flags().StringVar(&userID, "sub", auth.DevUserID, "user id")
	cmd.Flags().StringVar(&email, "email", auth.DevEmail, "user email")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
