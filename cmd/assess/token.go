package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"psy-consensus/internal/service"
)

var (
	tokenClient string
	tokenScopes []string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un token de acceso para la API (usa API_JWT_SECRET)",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("API_JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("API_JWT_SECRET is not set")
		}
		token, err := service.NewJWTService(secret, tokenTTL).Issue(tokenClient, tokenScopes...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenClient, "client", "", "id del cliente")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scope", []string{service.ScopeReportsRead, service.ScopeReportsWrite}, "scopes del token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "vigencia del token")
	_ = tokenCmd.MarkFlagRequired("client")
}
