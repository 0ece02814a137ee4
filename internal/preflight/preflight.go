// Package preflight loads the page in headless Chrome before the browser suite runs.
// A page that fails here would fail every test in the suite, so it's cheaper to find out once.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cannacraft/storefront/site"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ErrPageLoad is a permanent failure to load the page within the timeout.
var ErrPageLoad = errors.New("page did not load")

type Options struct {
	// ScreenshotDir receives one png per section. Screenshots are skipped when empty.
	ScreenshotDir string
	Timeout       time.Duration
	Headed        bool
}

// Result describes what the preflight observed.
type Result struct {
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Errors      []string      `json:"errors,omitempty"` // uncaught exceptions and console errors
	Screenshots []string      `json:"screenshots,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Run loads url, checks the title, and visits every section.
func Run(ctx context.Context, url string, opts Options) (*Result, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	start := time.Now()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("headless", !opts.Headed),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	res := &Result{URL: url}
	console := &consoleLog{}
	chromedp.ListenTarget(ctx, console.listen)

	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(1920, 1080),
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Title(&res.Title),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrPageLoad, url, err)
	}
	if !strings.Contains(res.Title, site.Brand) {
		return nil, fmt.Errorf("%w: unexpected title %q", ErrPageLoad, res.Title)
	}
	slog.Info("preflight loaded page", "url", url, "title", res.Title)

	if opts.ScreenshotDir != "" {
		if err := os.MkdirAll(opts.ScreenshotDir, 0755); err != nil {
			return nil, fmt.Errorf("creating screenshot dir: %w", err)
		}
	}

	for _, section := range site.Sections {
		err := chromedp.Run(ctx,
			chromedp.Click(fmt.Sprintf(`.nav-links button[data-section="%s"]`, section.ID), chromedp.ByQuery),
			chromedp.WaitVisible(fmt.Sprintf(`#%s.page.active`, section.ID), chromedp.ByQuery),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: navigating to %s: %s", ErrPageLoad, section.ID, err)
		}

		if opts.ScreenshotDir == "" {
			continue
		}
		path, err := screenshot(ctx, opts.ScreenshotDir, string(section.ID))
		if err != nil {
			return nil, err
		}
		res.Screenshots = append(res.Screenshots, path)
	}

	res.Errors = console.errors()
	res.Elapsed = time.Since(start)
	for _, msg := range res.Errors {
		slog.Warn("preflight observed a javascript error", "error", msg)
	}
	return res, nil
}

func screenshot(ctx context.Context, dir, name string) (string, error) {
	var buf []byte
	// Any quality below 100 is captured as jpeg
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return "", fmt.Errorf("capturing screenshot of %s: %w", name, err)
	}

	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", fmt.Errorf("saving screenshot: %w", err)
	}
	return path, nil
}

// consoleLog collects errors reported by the page. Events arrive on chromedp's goroutine.
type consoleLog struct {
	mut  sync.Mutex
	msgs []string
}

func (c *consoleLog) listen(ev any) {
	var msg string
	switch ev := ev.(type) {
	case *runtime.EventExceptionThrown:
		if ev.ExceptionDetails == nil {
			return
		}
		msg = ev.ExceptionDetails.Text
		if ev.ExceptionDetails.Exception != nil && ev.ExceptionDetails.Exception.Description != "" {
			msg = ev.ExceptionDetails.Exception.Description
		}
		msg = "[exception] " + msg

	case *runtime.EventConsoleAPICalled:
		if ev.Type != runtime.APITypeError {
			return
		}
		parts := make([]string, 0, len(ev.Args))
		for _, arg := range ev.Args {
			if arg.Value != nil {
				parts = append(parts, string(arg.Value))
			} else if arg.Description != "" {
				parts = append(parts, arg.Description)
			}
		}
		msg = "[console] " + strings.Join(parts, " ")

	default:
		return
	}

	c.mut.Lock()
	defer c.mut.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *consoleLog) errors() []string {
	c.mut.Lock()
	defer c.mut.Unlock()
	return append([]string(nil), c.msgs...)
}
