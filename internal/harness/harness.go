// Package harness finds the page under test.
//
// The page is preferably served over HTTP on a fixed port. When that port is already taken,
// a storefront found listening there is reused; anything else means the page is exported to
// disk and loaded through a file:// URL instead.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cannacraft/storefront/engine"
	"github.com/cannacraft/storefront/modules/storefront"
)

// ErrNoTarget is returned when an explicitly configured page can't be reached.
var ErrNoTarget = errors.New("page under test is not reachable")

type Mode string

const (
	ModeServe    Mode = "http"     // served in-process on the fixed port
	ModeReuse    Mode = "reused"   // a storefront was already listening on the fixed port
	ModeExternal Mode = "external" // BaseURL was given explicitly
	ModeFile     Mode = "file"     // standalone export loaded from disk
)

type Config struct {
	// BaseURL skips resolution and uses the given http(s) or file URL as-is.
	BaseURL string `env:"BASE_URL"`

	Host string `envDefault:"127.0.0.1"`
	Port int    `envDefault:"8000"`

	// ExportDir receives the standalone page in file mode. A temp dir is used when empty.
	ExportDir string

	// FileOnly skips the HTTP server entirely.
	FileOnly bool

	ReadyTimeout time.Duration `envDefault:"10s"`
}

// ConfigFromEnv reads the config from CANNACRAFT_E2E_* variables.
func ConfigFromEnv() (Config, error) {
	return env.ParseAsWithOptions[Config](env.Options{Prefix: "CANNACRAFT_E2E_", UseFieldNameByDefault: true})
}

func (c Config) addr() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }

// Target is a resolved location of the page.
type Target struct {
	URL  string
	Mode Mode

	close func() error
}

// Served is true when the page is reachable over HTTP, i.e. server routes such as the QR code exist.
func (t *Target) Served() bool { return t.Mode != ModeFile && !strings.HasPrefix(t.URL, "file:") }

// Close releases whatever Resolve started. It is safe to call more than once.
func (t *Target) Close() error {
	if t.close == nil {
		return nil
	}
	fn := t.close
	t.close = nil
	return fn()
}

// Resolve locates the page according to conf.
func Resolve(ctx context.Context, conf Config) (*Target, error) {
	if conf.ReadyTimeout == 0 {
		conf.ReadyTimeout = 10 * time.Second
	}

	if conf.BaseURL != "" {
		return external(ctx, conf)
	}

	if !conf.FileOnly {
		t, err := serve(ctx, conf)
		if err == nil {
			return t, nil
		}
		slog.Warn("unable to serve storefront on fixed port", "addr", conf.addr(), "error", err)

		t, err = reuse(ctx, conf)
		if err == nil {
			return t, nil
		}
		slog.Warn("no storefront to reuse, falling back to file access", "addr", conf.addr(), "error", err)
	}

	return exportFile(ctx, conf)
}

func serve(ctx context.Context, conf Config) (*Target, error) {
	ln, err := net.Listen("tcp", conf.addr())
	if err != nil {
		return nil, err
	}

	router := engine.NewRouter(nil)
	storefront.New(nil).AttachRoutes(router)

	svrCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan error, 1)
	go func() { done <- router.ServeListener(ln)(svrCtx) }()

	base := "http://" + conf.addr()
	stop := func() error {
		cancel()
		return <-done
	}
	if _, err := engine.WaitForProbe(ctx, base+"/healthz", conf.ReadyTimeout); err != nil {
		stop()
		return nil, err
	}

	slog.Info("serving storefront for browser tests", "url", base)
	return &Target{URL: base + "/", Mode: ModeServe, close: stop}, nil
}

func reuse(ctx context.Context, conf Config) (*Target, error) {
	base := "http://" + conf.addr()
	status, err := engine.CheckHealthProbe(ctx, base+"/healthz")
	if err != nil {
		return nil, err
	}
	if status.Service != storefront.ServiceName {
		return nil, fmt.Errorf("port is held by %q", status.Service)
	}

	slog.Info("reusing running storefront", "url", base)
	return &Target{URL: base + "/", Mode: ModeReuse}, nil
}

func external(ctx context.Context, conf Config) (*Target, error) {
	u, err := url.Parse(conf.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing base url: %s", ErrNoTarget, err)
	}

	switch u.Scheme {
	case "file":
		if _, err := os.Stat(filepath.FromSlash(u.Path)); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoTarget, err)
		}
		return &Target{URL: u.String(), Mode: ModeFile}, nil

	case "http", "https":
		err := engine.WaitFor(ctx, conf.ReadyTimeout, func(ctx context.Context) error {
			return checkPage(ctx, u.String())
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoTarget, err)
		}
		return &Target{URL: u.String(), Mode: ModeExternal}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrNoTarget, u.Scheme)
	}
}

func checkPage(ctx context.Context, pageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

func exportFile(ctx context.Context, conf Config) (*Target, error) {
	dir := conf.ExportDir
	cleanup := func() error { return nil }
	if dir == "" {
		tmp, err := os.MkdirTemp("", "cannacraft-page-")
		if err != nil {
			return nil, err
		}
		dir = tmp
		cleanup = func() error { return os.RemoveAll(tmp) }
	}

	path, err := storefront.ExportFile(ctx, dir)
	if err != nil {
		cleanup()
		return nil, err
	}

	slog.Info("loading standalone page from disk", "path", path)
	return &Target{URL: FileURL(path), Mode: ModeFile, close: cleanup}, nil
}

// FileURL converts an absolute path into a file:// URL.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // windows drive letters
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
