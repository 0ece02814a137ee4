package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cannacraft/storefront/internal/report"
	"github.com/spf13/cobra"
)

func (c *cli) newHistoryCmd() *cobra.Command {
	var (
		limit   int
		asJSON  bool
		history string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("history") {
				conf.Results.History = history
			}
			if _, err := os.Stat(conf.Results.History); err != nil {
				return fmt.Errorf("no run history at %s", conf.Results.History)
			}

			h, err := report.OpenHistory(conf.Results.History)
			if err != nil {
				return err
			}
			defer h.Close()

			entries, err := h.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintf(out, "%-20s %-6s %-9s %6s %6s %6s %9s  %s\n", "STARTED", "RESULT", "MODE", "PASS", "FAIL", "SKIP", "DURATION", "RESULTS")
			for _, e := range entries {
				result := "PASS"
				if !e.OK {
					result = "FAIL"
				}
				fmt.Fprintf(out, "%-20s %-6s %-9s %6d %6d %6d %8.1fs  %s\n",
					e.Started.Format("2006-01-02 15:04:05"), result, e.Mode,
					e.Summary.Passed, e.Summary.Failed, e.Summary.Skipped, e.Duration().Seconds(), e.ResultsDir)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVar(&history, "history", "results/history.db", "sqlite database recording past runs")
	return cmd
}
