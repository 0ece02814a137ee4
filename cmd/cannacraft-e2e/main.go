// Cannacraft-e2e runs the storefront's browser suite and keeps a report of every run.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errRunFailed is returned when the suite ran but didn't pass. The report has already been written.
var errRunFailed = errors.New("browser suite failed")

type cli struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "cannacraft-e2e",
		Short: "Browser test runner for the Cannacraft storefront",
		Long: `cannacraft-e2e locates the storefront page, checks that it loads in headless Chrome,
runs the playwright browser suite against it, and writes an HTML/JSON report per run.

The page is served on a fixed local port when possible. If the port is taken by a running
storefront that one is reused, otherwise the page is exported and loaded from disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigFile, "TOML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(c.newRunCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(c.newHistoryCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the config file named by --config.
func (c *cli) loadConfig(cmd *cobra.Command) (*Config, error) {
	explicit := cmd.Flags().Changed("config")
	return loadConfig(c.configPath, explicit)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	if errors.Is(err, errRunFailed) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
