package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cannacraft/storefront/internal/templates"
)

// Response is returned by every Handler and written once the handler is done.
type Response interface {
	write(w http.ResponseWriter, r *http.Request) int
}

type statusResponse struct {
	status int
}

func (s *statusResponse) write(w http.ResponseWriter, r *http.Request) int {
	w.WriteHeader(s.status)
	return s.status
}

// JSON encodes v as the response body.
func JSON(v any) Response { return &jsonResponse{status: http.StatusOK, value: v} }

type jsonResponse struct {
	status int
	value  any
}

func (j *jsonResponse) write(w http.ResponseWriter, r *http.Request) int {
	buf, err := json.Marshal(j.value)
	if err != nil {
		return Error(fmt.Errorf("encoding json response: %w", err)).write(w, r)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(j.status)
	w.Write(buf)
	return j.status
}

// Component renders an html component.
func Component(c templates.Component) Response { return &componentResponse{c: c} }

type componentResponse struct {
	c templates.Component
}

func (c *componentResponse) write(w http.ResponseWriter, r *http.Request) int {
	// Render into a buffer so template errors can still become a 500
	var buf bytes.Buffer
	if err := c.c.Render(r.Context(), &buf); err != nil {
		return Error(fmt.Errorf("rendering component: %w", err)).write(w, r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
	return http.StatusOK
}

// Bytes writes a raw body with the given content type.
func Bytes(contentType string, body []byte) Response {
	return &bytesResponse{contentType: contentType, body: body}
}

type bytesResponse struct {
	contentType string
	body        []byte
}

func (b *bytesResponse) write(w http.ResponseWriter, r *http.Request) int {
	w.Header().Set("Content-Type", b.contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(b.body)
	return http.StatusOK
}

func Redirect(url string, status int) Response { return &redirectResponse{url: url, status: status} }

type redirectResponse struct {
	url    string
	status int
}

func (rr *redirectResponse) write(w http.ResponseWriter, r *http.Request) int {
	http.Redirect(w, r, rr.url, rr.status)
	return rr.status
}

// ClientErrorf returns a response that renders the formatted message with the given status.
func ClientErrorf(status int, format string, args ...any) Response {
	return &httpError{StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

// Error logs err and returns a generic 500.
func Error(err error) Response {
	return &httpError{StatusCode: http.StatusInternalServerError, Message: "Internal error - please try again later", cause: err}
}

type httpError struct {
	StatusCode int
	Message    string
	cause      error
}

func (e *httpError) write(w http.ResponseWriter, r *http.Request) int {
	if e.cause != nil {
		slog.Error("error while handling request", "url", r.URL.Path, "error", e.cause)
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(e.StatusCode)
		json.NewEncoder(w).Encode(map[string]string{"error": e.Message})
		return e.StatusCode
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		buf := &bytes.Buffer{}
		if err := renderError(e).Render(r.Context(), buf); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(e.StatusCode)
			w.Write(buf.Bytes())
			return e.StatusCode
		}
	}

	http.Error(w, e.Message, e.StatusCode)
	return e.StatusCode
}
