package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Browse and manage warehouse addresses",
}

var locationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all warehouse addresses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		locations, err := inventoryService.ListLocations(context.Background())
		if err != nil {
			return err
		}
		for _, location := range locations {
			cmd.Printf("%4d  %s\n", location.ID, location.Label)
		}
		return nil
	},
}

var locationSearchCmd = &cobra.Command{
	Use:   "search [prefix]",
	Short: "Search warehouse addresses by prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		locations, err := inventoryService.SearchLocations(context.Background(), args[0])
		if err != nil {
			return err
		}
		if len(locations) == 0 {
			cmd.Println("No addresses found.")
			return nil
		}
		for _, location := range locations {
			cmd.Printf("%4d  %s\n", location.ID, location.Label)
		}
		return nil
	},
}

var locationAddCmd = &cobra.Command{
	Use:   "add [label]",
	Short: "Create a warehouse address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		location, err := inventoryService.CreateLocation(context.Background(), args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Created location %d (%s)\n", location.ID, location.Label)
		return nil
	},
}

func init() {
	locationCmd.AddCommand(locationListCmd)
	locationCmd.AddCommand(locationSearchCmd)
	locationCmd.AddCommand(locationAddCmd)
	rootCmd.AddCommand(locationCmd)
}
