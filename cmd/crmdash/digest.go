package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var digestTo string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Email the overdue and upcoming activity digest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(a)
		if err := withDemoData(ctx, a); err != nil {
			return err
		}

		n, err := a.Activities.Digest(ctx, digestTo)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "digest sent to %s: %d activities\n", digestTo, n)
		return nil
	},
}

func init() {
	digestCmd.Flags().StringVar(&digestTo, "to", "", "recipient email")
	_ = digestCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(digestCmd)
}
