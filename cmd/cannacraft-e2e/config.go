package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cannacraft/storefront/internal/harness"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "cannacraft-e2e.toml"

// Config is the runner's configuration. Values come from the TOML file, then flags.
type Config struct {
	Target struct {
		BaseURL             string `toml:"base_url"`
		Host                string `toml:"host"`
		Port                int    `toml:"port"`
		ExportDir           string `toml:"export_dir"`
		FileOnly            bool   `toml:"file_only"`
		ReadyTimeoutSeconds int    `toml:"ready_timeout_seconds"`
	} `toml:"target"`

	Suite struct {
		Packages       []string `toml:"packages"`
		Dir            string   `toml:"dir"` // module root the packages are relative to
		TimeoutSeconds int      `toml:"timeout_seconds"`
		Headed         bool     `toml:"headed"`
	} `toml:"suite"`

	Preflight struct {
		Disabled       bool `toml:"disabled"`
		TimeoutSeconds int  `toml:"timeout_seconds"`
	} `toml:"preflight"`

	Results struct {
		Dir     string `toml:"dir"`
		History string `toml:"history"`
		Keep    int    `toml:"keep"` // runs kept in the history
	} `toml:"results"`
}

func defaultConfig() *Config {
	c := &Config{}
	c.Target.Host = "127.0.0.1"
	c.Target.Port = 8000
	c.Target.ReadyTimeoutSeconds = 10
	c.Suite.Packages = []string{"./e2e"}
	c.Suite.Dir = "."
	c.Suite.TimeoutSeconds = 600
	c.Preflight.TimeoutSeconds = 30
	c.Results.Dir = "results"
	c.Results.History = "results/history.db"
	c.Results.Keep = 100
	return c
}

// loadConfig reads path over the defaults. A missing file is only an error when the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	conf := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return conf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return conf, nil
}

// flagOverrides holds the flags that can replace config file values.
type flagOverrides struct {
	baseURL     string
	port        int
	fileOnly    bool
	noPreflight bool
	headed      bool
	resultsDir  string
	history     string
	timeout     time.Duration
}

func (o *flagOverrides) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.baseURL, "base-url", "", "test this URL instead of serving the page (http(s):// or file://)")
	flags.IntVar(&o.port, "port", 8000, "port to serve the page on")
	flags.BoolVar(&o.fileOnly, "file-only", false, "skip the HTTP server and load the page from disk")
	flags.BoolVar(&o.noPreflight, "no-preflight", false, "skip the chromedp preflight")
	flags.BoolVar(&o.headed, "headed", false, "show the browser while the suite runs")
	flags.StringVar(&o.resultsDir, "results-dir", "results", "directory receiving one folder per run")
	flags.StringVar(&o.history, "history", "results/history.db", "sqlite database recording past runs")
	flags.DurationVar(&o.timeout, "timeout", 10*time.Minute, "go test timeout")
}

// apply overwrites conf with every flag set on the command line.
func (o *flagOverrides) apply(cmd *cobra.Command, conf *Config) {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		conf.Target.BaseURL = o.baseURL
	}
	if flags.Changed("port") {
		conf.Target.Port = o.port
	}
	if flags.Changed("file-only") {
		conf.Target.FileOnly = o.fileOnly
	}
	if flags.Changed("no-preflight") {
		conf.Preflight.Disabled = o.noPreflight
	}
	if flags.Changed("headed") {
		conf.Suite.Headed = o.headed
	}
	if flags.Changed("results-dir") {
		conf.Results.Dir = o.resultsDir
	}
	if flags.Changed("history") {
		conf.Results.History = o.history
	}
	if flags.Changed("timeout") {
		conf.Suite.TimeoutSeconds = int(o.timeout / time.Second)
	}
}

func (c *Config) harness() harness.Config {
	return harness.Config{
		BaseURL:      c.Target.BaseURL,
		Host:         c.Target.Host,
		Port:         c.Target.Port,
		ExportDir:    c.Target.ExportDir,
		FileOnly:     c.Target.FileOnly,
		ReadyTimeout: time.Duration(c.Target.ReadyTimeoutSeconds) * time.Second,
	}
}
