package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Show backend lookup lists",
}

var lookupManufacturersCmd = &cobra.Command{
	Use:   "manufacturers",
	Short: "List manufacturers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		entries, err := inventoryService.Manufacturers(context.Background())
		if err != nil {
			return err
		}
		for _, entry := range entries {
			cmd.Printf("%4d  %s\n", entry.ID, entry.Name)
		}
		return nil
	},
}

var lookupFamiliesCmd = &cobra.Command{
	Use:   "families",
	Short: "List product families",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		entries, err := inventoryService.Families(context.Background())
		if err != nil {
			return err
		}
		for _, entry := range entries {
			cmd.Printf("%4d  %s\n", entry.ID, entry.Name)
		}
		return nil
	},
}

var lookupReasonsCmd = &cobra.Command{
	Use:   "reasons",
	Short: "List movement reasons",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		entries, err := inventoryService.MovementReasons(context.Background())
		if err != nil {
			return err
		}
		for _, entry := range entries {
			cmd.Printf("%4d  %s\n", entry.ID, entry.Name)
		}
		return nil
	},
}

func init() {
	lookupCmd.AddCommand(lookupManufacturersCmd)
	lookupCmd.AddCommand(lookupFamiliesCmd)
	lookupCmd.AddCommand(lookupReasonsCmd)
	rootCmd.AddCommand(lookupCmd)
}
