package middleware

//go:generate go tool errtrace -w .

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"braces.dev/errtrace"

	"github.com/wireproto/headerline/header"
	"github.com/wireproto/headerline/internal/errorutil"
	"github.com/wireproto/headerline/internal/log"
)

// Error is a string type that implements the error interface.
type Error = errorutil.Error

// ErrInvalidArgument is returned when a guard is constructed with an invalid
// header name or a nil token source.
const ErrInvalidArgument = errorutil.ErrInvalidArgument

// TokenSource supplies the expected CSRF token for a request, typically from
// the request's session.
type TokenSource interface {
	Token(r *http.Request) (string, error)
}

// TokenSourceFunc adapts a function to the [TokenSource] interface.
type TokenSourceFunc func(r *http.Request) (string, error)

func (fn TokenSourceFunc) Token(r *http.Request) (string, error) { return errtrace.Wrap2(fn(r)) }

// CSRF is a request guard that compares a token carried in a request header
// against the expected token for that request. The comparison is timing-safe.
type CSRF struct {
	hdrName header.Name
	tokens  TokenSource
	logger  *slog.Logger
	reject  http.Handler
	safe    map[string]bool
}

// CSRFOption configures a [CSRF] guard.
type CSRFOption func(*CSRF)

// WithCSRFLogger sets the logger used for rejected requests.
func WithCSRFLogger(logger *slog.Logger) CSRFOption {
	return func(g *CSRF) { g.logger = logger }
}

// WithCSRFRejectHandler sets the handler invoked for rejected requests
// instead of the default 403 response.
func WithCSRFRejectHandler(h http.Handler) CSRFOption {
	return func(g *CSRF) { g.reject = h }
}

// WithCSRFSafeMethods sets the request methods that bypass the token check.
// The default is GET, HEAD, OPTIONS and TRACE.
func WithCSRFSafeMethods(methods ...string) CSRFOption {
	return func(g *CSRF) {
		g.safe = make(map[string]bool, len(methods))
		for _, m := range methods {
			g.safe[m] = true
		}
	}
}

// NewCSRF creates a guard that reads the token from the named request header.
// The header name must be a valid header field name per [header.Valid] and
// the token source must be non-nil; violations are reported with
// [ErrInvalidArgument].
func NewCSRF(headerName string, tokens TokenSource, opts ...CSRFOption) (*CSRF, error) {
	if !header.Valid(headerName) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("header name %q", headerName))
	}
	if tokens == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil token source"))
	}

	g := &CSRF{
		hdrName: header.Name(headerName),
		tokens:  tokens,
		logger:  log.Def,
		safe: map[string]bool{
			http.MethodGet:     true,
			http.MethodHead:    true,
			http.MethodOptions: true,
			http.MethodTrace:   true,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.reject == nil {
		g.reject = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid or missing CSRF token", http.StatusForbidden)
		})
	}
	return g, nil
}

// HeaderName returns the name of the request header the guard reads.
func (g *CSRF) HeaderName() header.Name { return g.hdrName }

// Wrap returns a handler that checks the token on every unsafe request
// before delegating to next.
func (g *CSRF) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.safe[r.Method] {
			next.ServeHTTP(w, r)
			return
		}

		want, err := g.tokens.Token(r)
		if err != nil {
			g.logger.Error("resolve expected token", "request", r, "error", err)
			g.reject.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get(string(g.hdrName))
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			g.logger.Warn("reject request with bad token", "request", r, "header", string(g.hdrName))
			g.reject.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const tokenLen = 32

// NewToken generates a random URL-safe CSRF token.
func NewToken() (string, error) {
	b := make([]byte, tokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", errtrace.Wrap(err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
