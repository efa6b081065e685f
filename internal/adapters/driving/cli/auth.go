package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the sign-in session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in through the identity provider",
	Long: `Sign in through the organisation's identity provider.

A browser window opens for the sign-in; the session is kept locally so
later commands run without another prompt until it expires.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if identityManager == nil {
			return errors.New("identity manager not configured")
		}
		token, err := identityManager.Login(cmd.Context())
		if err != nil {
			return err
		}
		if token.Account != "" {
			cmd.Printf("Signed in as %s\n", token.Account)
		} else {
			cmd.Println("Signed in.")
		}
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if identityManager == nil {
			return errors.New("identity manager not configured")
		}
		account, err := identityManager.Account(context.Background())
		if err != nil {
			return err
		}
		if account == "" {
			cmd.Println("Not signed in. Run 'stockctl auth login'.")
			return nil
		}
		cmd.Printf("Signed in as %s\n", account)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the current session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if identityManager == nil {
			return errors.New("identity manager not configured")
		}
		if err := identityManager.Logout(context.Background()); err != nil {
			return err
		}
		cmd.Println("Signed out.")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}
