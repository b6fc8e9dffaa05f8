package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the pipeline PDF report",
	Long: `Without --out the report is saved under files.root_dir with a
timestamped name. With --out it is written to that path ("-" is stdout).`,
	Args: cobra.NoArgs,
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

		switch reportOut {
		case "":
			path, err := a.Reports.SavePipeline(ctx, "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		case "-":
			return a.Reports.WritePipeline(ctx, cmd.OutOrStdout())
		}

		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", reportOut, err)
		}
		if err := a.Reports.WritePipeline(ctx, f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", reportOut, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reportOut)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file")
	rootCmd.AddCommand(reportCmd)
}
