package main

import (
	"fmt"

	"github.com/cannacraft/storefront/internal/harness"
	"github.com/cannacraft/storefront/modules/storefront"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write the standalone page for file:// access",
		Long: `Write the storefront page with its styles and script inlined, so it can be opened
straight from disk. The file is written to dir (default: current directory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			path, err := storefront.ExportFile(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), harness.FileURL(path))
			return nil
		},
	}
}
