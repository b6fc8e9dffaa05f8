package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var seedWithAdmin bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo contacts, deals and activities into an empty store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(a)
		if isMemoryStore(a) {
			return errMemoryStore
		}

		if seedWithAdmin {
			if _, err := a.Auth.EnsureAdmin(ctx, a.Config.Auth.AdminEmail, a.Config.Auth.AdminPassword); err != nil {
				return err
			}
		}
		res, err := a.Seed(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedWithAdmin, "admin", true, "also create the configured admin user")
	rootCmd.AddCommand(seedCmd)
}
