// Package cli implements the stockctl command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/stockctl/internal/core/ports/driving"
	"github.com/custodia-labs/stockctl/internal/identity"
	"github.com/custodia-labs/stockctl/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// Services holds injected service implementations for CLI commands.
	inventoryService driving.InventoryService
	identityManager  *identity.Manager
)

// Services holds configuration for CLI commands.
type Services struct {
	Inventory driving.InventoryService
	Identity  *identity.Manager
}

// SetServices injects service implementations for CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	inventoryService = s.Inventory
	identityManager = s.Identity
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "stockctl",
	Short: "Authenticated CLI for the stock inventory backend",
	Long: `Stockctl is a command-line client for the stock inventory backend.

It signs in through the organisation's identity provider, keeps the session
between runs, and talks to the backend with automatic credential renewal and
endpoint fallback for older server versions.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
