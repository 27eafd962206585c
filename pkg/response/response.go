package response

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
)

// ErrEnded is returned when End is called on a response that already ended.
var ErrEnded = errors.New("response: already ended")

// APIResponse is the minimal response surface handlers need when replying to
// a GRIP proxy.
type APIResponse interface {
	Wrapped() http.ResponseWriter
	SetStatus(code int)
	End(chunk string) error
}

// Response wraps an http.ResponseWriter. The status is buffered until End.
type Response struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	status int
	ended  bool
}

var _ APIResponse = (*Response)(nil)

func newResponse(w http.ResponseWriter) *Response {
	return &Response{w: w, status: http.StatusOK}
}

func (r *Response) Wrapped() http.ResponseWriter { return r.w }

func (r *Response) SetStatus(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = code
}

// End writes the status and chunk and finishes the response.
func (r *Response) End(chunk string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return ErrEnded
	}
	r.ended = true
	r.w.WriteHeader(r.status)
	if chunk == "" {
		return nil
	}
	_, err := io.WriteString(r.w, chunk)
	return err
}

type registryKey struct{}

// registry maps the writer of one request to its wrapper. It lives in the
// request context and is dropped with it.
type registry struct {
	mu      sync.Mutex
	entries map[http.ResponseWriter]*Response
}

func (g *registry) get(w http.ResponseWriter) *Response {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.entries[w]; ok {
		return r
	}
	r := newResponse(w)
	g.entries[w] = r
	return r
}

// Middleware installs a per-request registry so For returns one wrapper per
// response writer for the lifetime of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g := &registry{entries: make(map[http.ResponseWriter]*Response, 1)}
		ctx := context.WithValue(r.Context(), registryKey{}, g)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// For returns the wrapper for w within the request behind ctx. Without the
// middleware a new, unshared wrapper is returned.
func For(ctx context.Context, w http.ResponseWriter) *Response {
	if g, ok := ctx.Value(registryKey{}).(*registry); ok {
		return g.get(w)
	}
	return newResponse(w)
}
