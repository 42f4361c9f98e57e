package middleware

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/foodbot/internal/auth"
	"github.com/octobees/foodbot/internal/config"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()

	t.Run("generates id when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := RequestID()(okHandler)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if RequestIDFromContext(c) == "" {
			t.Fatalf("expected generated request id")
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected request id response header")
		}
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "caller-id")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := RequestID()(okHandler)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if RequestIDFromContext(c) != "caller-id" {
			t.Fatalf("expected caller id, got %s", RequestIDFromContext(c))
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	orig := log.Writer()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(orig)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	if err := Logging()(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "request_id=rid-123") {
		t.Fatalf("expected log output to contain request id, got %s", buf.String())
	}
}

func TestEventsRateLimiter(t *testing.T) {
	e := echo.New()
	limited := EventsRateLimiter(config.RateLimitConfig{Requests: 2, Interval: time.Hour})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/slack/events", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		_ = limited(okHandler)(c)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("first requests should pass: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after bucket drained, got %v", statuses)
	}

	t.Run("disabled config passes everything", func(t *testing.T) {
		open := EventsRateLimiter(config.RateLimitConfig{})
		for i := 0; i < 10; i++ {
			req := httptest.NewRequest(http.MethodPost, "/slack/events", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			_ = open(okHandler)(c)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected pass-through, got %d", rec.Code)
			}
		}
	})
}

func TestVerifySlackSignature(t *testing.T) {
	e := echo.New()
	secret := "signing-secret"
	body := `{"type":"event_callback"}`

	signedRequest := func(ts string, sig string) (*httptest.ResponseRecorder, echo.Context) {
		req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
		if ts != "" {
			req.Header.Set("X-Slack-Request-Timestamp", ts)
		}
		if sig != "" {
			req.Header.Set("X-Slack-Signature", sig)
		}
		rec := httptest.NewRecorder()
		return rec, e.NewContext(req, rec)
	}

	t.Run("valid signature passes and body is preserved", func(t *testing.T) {
		ts := strconv.FormatInt(time.Now().Unix(), 10)
		rec, c := signedRequest(ts, computeSignature(secret, ts, []byte(body)))

		handlerBody := ""
		err := VerifySlackSignature(secret)(func(c echo.Context) error {
			raw, _ := io.ReadAll(c.Request().Body)
			handlerBody = string(raw)
			return c.String(http.StatusOK, "ok")
		})(c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if handlerBody != body {
			t.Fatalf("body not restored for handler: %q", handlerBody)
		}
	})

	t.Run("wrong signature rejected", func(t *testing.T) {
		ts := strconv.FormatInt(time.Now().Unix(), 10)
		rec, c := signedRequest(ts, "v0=deadbeef")
		_ = VerifySlackSignature(secret)(okHandler)(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing headers rejected", func(t *testing.T) {
		rec, c := signedRequest("", "")
		_ = VerifySlackSignature(secret)(okHandler)(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		ts := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
		rec, c := signedRequest(ts, computeSignature(secret, ts, []byte(body)))
		_ = VerifySlackSignature(secret)(okHandler)(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for replay, got %d", rec.Code)
		}
	})

	t.Run("empty secret disables verification", func(t *testing.T) {
		rec, c := signedRequest("", "")
		if err := VerifySlackSignature("")(okHandler)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	})
}

func TestJWTMiddleware(t *testing.T) {
	e := echo.New()
	manager := authpkg.NewJWTManager("secret", time.Hour)

	request := func(header string) (*httptest.ResponseRecorder, echo.Context) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		return rec, e.NewContext(req, rec)
	}

	t.Run("valid token stores claims", func(t *testing.T) {
		token, err := manager.Issue("ops@example.com", "admin")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		rec, c := request("Bearer " + token)

		if err := JWT(manager)(okHandler)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if c.Get(ContextKeyAdminRole) != "admin" {
			t.Fatalf("expected role stored in context")
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec, c := request("")
		_ = JWT(manager)(okHandler)(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		rec, c := request("Token abc")
		_ = JWT(manager)(okHandler)(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("role guard enforces admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextKeyAdminRole, "viewer")

		_ = RequireRole("admin")(okHandler)(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}
