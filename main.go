// Storefront serves the Cannacraft customer page.
// It holds no state: every form on the page is handled in the browser.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/cannacraft/storefront/engine"
	"github.com/cannacraft/storefront/modules/storefront"
)

type Config struct {
	HttpAddr string `envDefault:":8000"`

	// SelfURL is the public base URL encoded into QR codes. Defaults to the request host.
	SelfURL string

	LogLevel slog.Level `envDefault:"INFO"`
}

func main() {
	conf, err := parseConfig()
	if err != nil {
		panic(err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: conf.LogLevel,
	})))

	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		_, port, _ := net.SplitHostPort(conf.HttpAddr)
		_, err := engine.CheckHealthProbe(context.Background(), fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil {
			panic(err)
		}
		return
	}

	app, err := newApp(conf)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("serving storefront", "addr", conf.HttpAddr)
	app.Run(ctx)
}

func parseConfig() (Config, error) {
	return env.ParseAsWithOptions[Config](env.Options{Prefix: "CANNACRAFT_", UseFieldNameByDefault: true})
}

func newApp(conf Config) (*engine.App, error) {
	var self *url.URL
	if conf.SelfURL != "" {
		var err error
		self, err = url.Parse(conf.SelfURL)
		if err != nil {
			return nil, fmt.Errorf("parsing self url: %w", err)
		}
	}

	router := engine.NewRouter(nil)
	a := engine.NewApp(conf.HttpAddr, router)
	a.Add(storefront.New(self))
	return a, nil
}
