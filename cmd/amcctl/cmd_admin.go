package main

import (
	"fmt"

	"amc-backend/internal/auth"

	"github.com/spf13/cobra"
)

var totpIssuer string

// hashPasswordCmd prints a bcrypt hash for the admins section of the config
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for an admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

// totpSecretCmd enrolls an admin in authenticator-app 2FA
var totpSecretCmd = &cobra.Command{
	Use:   "totp-secret <email>",
	Short: "Generate an authenticator secret for an admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, url, err := auth.GenerateTOTPSecret(totpIssuer, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "secret: %s\nurl:    %s\n", secret, url)
		return nil
	},
}

func init() {
	totpSecretCmd.Flags().StringVar(&totpIssuer, "issuer", "AMC Service Tracker", "Issuer shown in the authenticator app")
}
