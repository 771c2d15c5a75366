package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfSession() *Session {
	return &Session{ID: "sess-1", values: make(map[string]string)}
}

func TestEnsureTokenStablePerSession(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := csrfSession()

	first, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}
	if first == "" {
		t.Fatalf("expected a token")
	}
	second, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure token again: %v", err)
	}
	if first != second {
		t.Fatalf("token changed within one session: %q vs %q", first, second)
	}
}

func TestVerifyRequestPrefersHeader(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := csrfSession()
	token, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	form := url.Values{CSRFFormField: {"stale-form-token"}}
	req := httptest.NewRequest(http.MethodPost, "/decision/invalidate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(CSRFHeaderName, token)

	if err := m.VerifyRequest(req, sess); err != nil {
		t.Fatalf("header token should win: %v", err)
	}
}

func TestVerifyRequestFormFallback(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := csrfSession()
	token, err := m.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	form := url.Values{CSRFFormField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/decision/invalidate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := m.VerifyRequest(req, sess); err != nil {
		t.Fatalf("form token should verify: %v", err)
	}
}

func TestVerifyRequestRejectsMismatch(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := csrfSession()
	if _, err := m.EnsureToken(context.Background(), sess); err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/decision/invalidate", nil)
	req.Header.Set(CSRFHeaderName, "forged")

	if err := m.VerifyRequest(req, sess); !errors.Is(err, ErrCSRFTokenMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestVerifyRequestRejectsMissingToken(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := csrfSession()
	if _, err := m.EnsureToken(context.Background(), sess); err != nil {
		t.Fatalf("ensure token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/decision/invalidate", nil)

	if err := m.VerifyRequest(req, sess); !errors.Is(err, ErrCSRFTokenMissing) {
		t.Fatalf("expected missing-token error, got %v", err)
	}
}
