package e2e

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

var (
	activeClass = regexp.MustCompile(`(^|\s)active(\s|$)`)
	showClass   = regexp.MustCompile(`(^|\s)show(\s|$)`)
)

// newPage creates a new desktop-sized browser page for a test and registers cleanup.
func newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: 1920, Height: 1080},
	})
	require.NoError(t, err, "could not create new page")
	t.Cleanup(func() {
		if err := page.Close(); err != nil {
			t.Logf("warning: could not close page: %v", err)
		}
	})
	return page
}

// openStorefront loads the page under test in a fresh browser page.
func openStorefront(t *testing.T) *StorefrontPage {
	t.Helper()
	p := NewStorefrontPage(t, newPage(t))
	p.Navigate()
	return p
}

// targetURL resolves a path against the page under test. Only meaningful when it is served.
func targetURL(t *testing.T, path string) string {
	t.Helper()
	base, err := url.Parse(target.URL)
	require.NoError(t, err)
	ref, err := url.Parse(path)
	require.NoError(t, err)
	return base.ResolveReference(ref).String()
}

// requireServed skips tests of routes that only exist when the page is served over HTTP.
func requireServed(t *testing.T) {
	t.Helper()
	if !target.Served() {
		t.Skipf("page is loaded from %s, not served", target.URL)
	}
}

// expect returns a new PlaywrightAssertions instance for making assertions.
func expect(t *testing.T) playwright.PlaywrightAssertions {
	t.Helper()
	return playwright.NewPlaywrightAssertions()
}
