package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// HealthStatus is the body served by the health probe.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ServeHealthProbe answers with a HealthStatus naming the service.
func ServeHealthProbe(service string) Handler {
	return func(r *http.Request, ps httprouter.Params) Response {
		return JSON(HealthStatus{Status: "ok", Service: service})
	}
}

// CheckHealthProbe performs a single probe and returns the reported status.
func CheckHealthProbe(ctx context.Context, url string) (*HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	status := &HealthStatus{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		return nil, fmt.Errorf("decoding health status: %w", err)
	}
	return status, nil
}

// WaitForProbe polls the probe until it succeeds or the timeout elapses.
func WaitForProbe(ctx context.Context, url string, timeout time.Duration) (*HealthStatus, error) {
	var status *HealthStatus
	err := WaitFor(ctx, timeout, func(ctx context.Context) error {
		var err error
		status, err = CheckHealthProbe(ctx, url)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("server did not become ready at %s: %w", url, err)
	}
	return status, nil
}

// WaitFor calls check every 100ms until it returns nil or the timeout elapses.
// The last error returned by check is reported on timeout.
func WaitFor(ctx context.Context, timeout time.Duration, check func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 1)
	var lastErr error
	for {
		if err := limiter.Wait(ctx); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return lastErr
		}

		lastErr = check(ctx)
		if lastErr == nil {
			return nil
		}
	}
}
