package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cannacraft/storefront/internal/harness"
	"github.com/cannacraft/storefront/internal/preflight"
	"github.com/cannacraft/storefront/internal/report"
	"github.com/spf13/cobra"
)

func (c *cli) newRunCmd() *cobra.Command {
	overrides := &flagOverrides{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the browser suite and write a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			overrides.apply(cmd, conf)
			return runSuite(cmd.Context(), cmd.OutOrStdout(), conf)
		},
	}
	overrides.register(cmd)
	return cmd
}

func runSuite(ctx context.Context, out io.Writer, conf *Config) error {
	run := report.NewRun(conf.Target.BaseURL, "")
	resultsDir := filepath.Join(conf.Results.Dir, fmt.Sprintf("run-%s-%s", run.Started.Format("2006-01-02_15-04-05"), run.ID.String()[:8]))
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	fmt.Fprintf(out, "Results will be saved to: %s\n", resultsDir)

	target, err := harness.Resolve(ctx, conf.harness())
	if err != nil {
		// Recorded like a preflight load failure: the suite can't pass without a page
		slog.Error("no page to test", "error", err)
		run.Preflight = &report.Preflight{Failure: err.Error()}
	} else {
		defer target.Close()
		fmt.Fprintf(out, "Testing %s (%s)\n", target.URL, target.Mode)
		run.Target, run.Mode = target.URL, string(target.Mode)

		if !conf.Preflight.Disabled {
			run.Preflight = runPreflight(ctx, target, conf, resultsDir)
		}
	}

	// A page that can't load would fail every test
	if run.Preflight == nil || run.Preflight.Failure == "" {
		if err := runGoTest(ctx, conf, target, resultsDir, report.NewCollector(run)); err != nil {
			slog.Error("unable to run the browser suite", "error", err)
			run.Packages = append(run.Packages, &report.Case{Name: "go test", Status: report.StatusFail, Output: err.Error()})
			run.Finished = time.Now()
		}
	} else {
		run.Finished = time.Now()
	}

	if err := report.Write(ctx, resultsDir, run); err != nil {
		return err
	}
	if err := recordRun(ctx, conf, run, resultsDir); err != nil {
		slog.Warn("unable to record run in history", "error", err)
	}

	printSummary(out, run, resultsDir)
	if !run.Passed() {
		return errRunFailed
	}
	return nil
}

func runPreflight(ctx context.Context, target *harness.Target, conf *Config, resultsDir string) *report.Preflight {
	res, err := preflight.Run(ctx, target.URL, preflight.Options{
		ScreenshotDir: filepath.Join(resultsDir, "screenshots"),
		Timeout:       time.Duration(conf.Preflight.TimeoutSeconds) * time.Second,
		Headed:        conf.Suite.Headed,
	})
	if err != nil {
		slog.Error("preflight failed", "error", err)
		return &report.Preflight{Failure: err.Error()}
	}
	return &report.Preflight{Title: res.Title, Errors: res.Errors, Screenshots: res.Screenshots}
}

// runGoTest runs the suite packages with `go test -json` and feeds the events into collector.
// The raw event stream is kept next to the report. An error means the suite never started.
func runGoTest(ctx context.Context, conf *Config, target *harness.Target, resultsDir string, collector *report.Collector) error {
	args := []string{"test", "-json", "-count=1", fmt.Sprintf("-timeout=%ds", conf.Suite.TimeoutSeconds)}
	args = append(args, conf.Suite.Packages...)

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = conf.Suite.Dir
	cmd.Env = append(os.Environ(), "CANNACRAFT_E2E_BASE_URL="+target.URL)
	if conf.Suite.Headed {
		cmd.Env = append(cmd.Env, "HEADED=true")
	}

	logFile, err := os.Create(filepath.Join(resultsDir, "go-test.json"))
	if err != nil {
		return err
	}
	defer logFile.Close()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	slog.Info("running browser suite", "packages", strings.Join(conf.Suite.Packages, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting go test: %w", err)
	}
	if _, err := collector.ReadFrom(io.TeeReader(stdout, logFile)); err != nil {
		slog.Warn("error while reading test output", "error", err)
	}
	waitErr := cmd.Wait()

	run := collector.Finish()
	run.Output += stderr.String()
	if waitErr != nil && len(run.Cases) == 0 && len(run.Packages) == 0 {
		// Nothing ran at all, e.g. a bad package pattern or a cancelled run
		run.Packages = append(run.Packages, &report.Case{Name: "go test", Status: report.StatusFail, Output: waitErr.Error()})
	}
	return nil
}

func recordRun(ctx context.Context, conf *Config, run *report.Run, resultsDir string) error {
	if conf.Results.History == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(conf.Results.History), 0755); err != nil {
		return err
	}

	history, err := report.OpenHistory(conf.Results.History)
	if err != nil {
		return err
	}
	defer history.Close()

	if err := history.Record(ctx, run, resultsDir); err != nil {
		return err
	}
	if conf.Results.Keep > 0 {
		if n, err := history.Prune(ctx, conf.Results.Keep); err == nil && n > 0 {
			slog.Debug("pruned run history", "removed", n)
		}
	}
	return nil
}

func printSummary(out io.Writer, run *report.Run, resultsDir string) {
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintln(out, "TEST SUMMARY")
	fmt.Fprintln(out, strings.Repeat("=", 80))

	if p := run.Preflight; p != nil {
		switch {
		case p.Failure != "":
			fmt.Fprintf(out, "%-60s %s\n", "preflight", "FAIL")
		case len(p.Errors) > 0:
			fmt.Fprintf(out, "%-60s %s (%d javascript errors)\n", "preflight", "PASS", len(p.Errors))
		default:
			fmt.Fprintf(out, "%-60s %s\n", "preflight", "PASS")
		}
	}
	for _, c := range run.Cases {
		fmt.Fprintf(out, "%-60s %s (%.2fs)\n", c.Name, strings.ToUpper(string(c.Status)), c.Elapsed.Seconds())
	}

	s := run.Summary()
	fmt.Fprintln(out, strings.Repeat("-", 80))
	fmt.Fprintf(out, "Total: %d passed, %d failed, %d skipped (%.2fs)\n", s.Passed, s.Failed, s.Skipped, run.Duration().Seconds())
	fmt.Fprintf(out, "Report: %s\n", filepath.Join(resultsDir, report.HTMLFileName))
	if run.Passed() {
		fmt.Fprintln(out, "ALL TESTS PASSED")
	} else {
		fmt.Fprintln(out, "SOME TESTS FAILED")
	}
}
