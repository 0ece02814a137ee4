package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Handler is the signature of every route handled by the engine.
type Handler func(*http.Request, httprouter.Params) Response

type Router struct {
	router *httprouter.Router
}

// NewRouter returns an empty router. notFound is optional.
func NewRouter(notFound http.Handler) *Router {
	r := httprouter.New()
	r.NotFound = notFound
	r.RedirectTrailingSlash = false
	return &Router{router: r}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, rr *http.Request) { r.router.ServeHTTP(w, rr) }

func (r *Router) Handle(method, path string, fn Handler) {
	r.router.Handle(method, path, func(w http.ResponseWriter, rr *http.Request, ps httprouter.Params) {
		Handle(w, rr, ps, fn)
	})
}

// ServeFiles serves a static filesystem. The path must end with "/*filepath".
func (r *Router) ServeFiles(path string, fs http.FileSystem) {
	r.router.ServeFiles(path, fs)
}

// Handle invokes fn and writes its response, logging the request.
func Handle(w http.ResponseWriter, r *http.Request, ps httprouter.Params, fn Handler) {
	start := time.Now()
	resp := fn(r, ps)
	if resp == nil {
		resp = &statusResponse{status: http.StatusNoContent}
	}
	status := resp.write(w, r)
	slog.Info("http request", "url", r.URL.Path, "method", r.Method, "userAgent", r.UserAgent(), "latencyMS", time.Since(start).Milliseconds(), "status", status)
}

// Serve wires up the stdlib http server to the engine.
func (r *Router) Serve(addr string) Proc {
	return func(ctx context.Context) error {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		return r.ServeListener(ln)(ctx)
	}
}

// ServeListener is Serve for a listener that has already been bound.
func (r *Router) ServeListener(ln net.Listener) Proc {
	return func(ctx context.Context) error {
		svr := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			<-ctx.Done()
			slog.Warn("gracefully shutting down http server...")
			svr.Shutdown(context.Background())
		}()
		if err := svr.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		slog.Info("the http server has shut down")
		return nil
	}
}
