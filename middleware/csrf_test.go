package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wireproto/headerline/internal/log"
	"github.com/wireproto/headerline/middleware"
)

const csrfHeader = "X-CSRF-TOKEN"

func fixedTokens(token string) middleware.TokenSource {
	return middleware.TokenSourceFunc(func(*http.Request) (string, error) {
		return token, nil
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestNewCSRF(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		hdrName string
		tokens  middleware.TokenSource
		wantErr error
	}{
		{"valid", csrfHeader, fixedTokens("tok"), nil},
		{"invalid header name", "bad name!", fixedTokens("tok"), middleware.ErrInvalidArgument},
		{"empty header name", "", fixedTokens("tok"), middleware.ErrInvalidArgument},
		{"nil token source", csrfHeader, nil, middleware.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, err := middleware.NewCSRF(c.hdrName, c.tokens)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("middleware.NewCSRF(%q, tokens) error = %v, want %v\ndiff (-got +want):\n%v",
					c.hdrName, err, c.wantErr, diff,
				)
			}
		})
	}
}

func TestCSRF_Wrap(t *testing.T) {
	t.Parallel()

	guard, err := middleware.NewCSRF(csrfHeader, fixedTokens("secret-token"),
		middleware.WithCSRFLogger(log.Noop),
	)
	if err != nil {
		t.Fatalf("middleware.NewCSRF(...) error = %v, want nil", err)
	}
	h := guard.Wrap(okHandler())

	cases := []struct {
		name       string
		method     string
		token      string
		wantStatus int
	}{
		{"safe method without token", http.MethodGet, "", http.StatusNoContent},
		{"head without token", http.MethodHead, "", http.StatusNoContent},
		{"post with matching token", http.MethodPost, "secret-token", http.StatusNoContent},
		{"post without token", http.MethodPost, "", http.StatusForbidden},
		{"post with wrong token", http.MethodPost, "other-token", http.StatusForbidden},
		{"delete with wrong token", http.MethodDelete, "x", http.StatusForbidden},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(c.method, "/submit", nil)
			if c.token != "" {
				r.Header.Set(csrfHeader, c.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if got := w.Code; got != c.wantStatus {
				t.Errorf("w.Code = %d, want %d", got, c.wantStatus)
			}
		})
	}
}

func TestCSRF_Wrap_TokenSourceError(t *testing.T) {
	t.Parallel()

	tokens := middleware.TokenSourceFunc(func(*http.Request) (string, error) {
		return "", middleware.Error("no session")
	})
	guard, err := middleware.NewCSRF(csrfHeader, tokens, middleware.WithCSRFLogger(log.Noop))
	if err != nil {
		t.Fatalf("middleware.NewCSRF(...) error = %v, want nil", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/submit", nil)
	r.Header.Set(csrfHeader, "anything")
	w := httptest.NewRecorder()
	guard.Wrap(okHandler()).ServeHTTP(w, r)

	if got := w.Code; got != http.StatusForbidden {
		t.Errorf("w.Code = %d, want %d", got, http.StatusForbidden)
	}
}

func TestCSRF_Wrap_CustomRejectHandler(t *testing.T) {
	t.Parallel()

	guard, err := middleware.NewCSRF(csrfHeader, fixedTokens("tok"),
		middleware.WithCSRFLogger(log.Noop),
		middleware.WithCSRFRejectHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})),
	)
	if err != nil {
		t.Fatalf("middleware.NewCSRF(...) error = %v, want nil", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/submit", nil)
	w := httptest.NewRecorder()
	guard.Wrap(okHandler()).ServeHTTP(w, r)

	if got := w.Code; got != http.StatusTeapot {
		t.Errorf("w.Code = %d, want %d", got, http.StatusTeapot)
	}
}

func TestNewToken(t *testing.T) {
	t.Parallel()

	tok1, err := middleware.NewToken()
	if err != nil {
		t.Fatalf("middleware.NewToken() error = %v, want nil", err)
	}
	tok2, err := middleware.NewToken()
	if err != nil {
		t.Fatalf("middleware.NewToken() error = %v, want nil", err)
	}
	if tok1 == "" || tok1 == tok2 {
		t.Errorf("middleware.NewToken() = %q, %q, want two distinct non-empty tokens", tok1, tok2)
	}
}
