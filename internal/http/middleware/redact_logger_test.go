package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf) // plain JSON lines
	return &buf
}

func Test_scrub(t *testing.T) {
	got := scrub("sender=noc.alerts@example.com ref=123e4567-e89b-12d3-a456-426614174000 tel 555-123-4567")
	want := "sender=[REDACTED:email] ref=[REDACTED:id] tel [REDACTED:phone]"
	if got != want {
		t.Fatalf("scrub = %q, want %q", got, want)
	}
	if scrub("") != "" {
		t.Fatalf("scrub of empty string must stay empty")
	}
}

func TestRedactingLogger_InfoAndRedactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	buf := withCapturedLogger(t)

	// Simulate upstream RequestID middleware that sets the response header.
	r.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-resp")
		c.Next()
	})
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-API-Key"}}))

	// Parameterized route so c.FullPath() is non-empty.
	r.PUT("/api/v1/tickets/:number", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Sender-filter style query carrying mail addresses and ids; the raw
	// query is scrubbed with regexes, no parsing involved.
	q := "sender=alerts.mx@example.com&ref=123e4567-e89b-12d3-a456-426614174000&callback=555-123-4567"
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tickets/HK540639?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sid=topsecret")
	req.Header.Set("X-API-Key", "shhh")
	// Header with PII that is pattern-scrubbed rather than fully masked.
	req.Header.Set("X-Reporter", "contact a@b.com phone 555-123-4567")
	// Request-header request id; the response header should still win.
	req.Header.Set("X-Request-ID", "rid-req")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"info"`) {
		t.Fatalf("expected info log, got: %s", logs)
	}
	if !strings.Contains(logs, `"path":"/api/v1/tickets/:number"`) {
		t.Fatalf("expected route pattern path, got: %s", logs)
	}
	if !strings.Contains(logs, `"request_id":"rid-resp"`) {
		t.Fatalf("expected request_id from response header, got: %s", logs)
	}
	if !strings.Contains(logs, `[REDACTED:email]`) || !strings.Contains(logs, `[REDACTED:phone]`) || !strings.Contains(logs, `[REDACTED:id]`) {
		t.Fatalf("expected query redactions, got: %s", logs)
	}
	for _, hdr := range []string{"Authorization", "Cookie", "X-Api-Key"} {
		if !strings.Contains(logs, `"`+hdr+`":"[REDACTED]"`) {
			t.Fatalf("%s must be masked: %s", hdr, logs)
		}
	}
	if !strings.Contains(logs, `"X-Reporter":"contact [REDACTED:email] phone [REDACTED:phone]"`) {
		t.Fatalf("expected scrubbed X-Reporter header, got: %s", logs)
	}
	// The raw sender address must never appear.
	if strings.Contains(logs, "alerts.mx@example.com") {
		t.Fatalf("sender address leaked to logs: %s", logs)
	}
}

func TestRedactingLogger_WarnAndErrorLevels_RequestIDFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	buf := withCapturedLogger(t)

	// No response X-Request-ID header this time.
	r.Use(RedactingLogger(RedactOptions{}))

	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })             // 404 -> warn
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) }) // 500 -> error

	reqWarn := httptest.NewRequest(http.MethodGet, "/warn", nil)
	reqWarn.Header.Set("X-Request-ID", "rid-warn")
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, reqWarn)

	reqErr := httptest.NewRequest(http.MethodGet, "/error", nil)
	reqErr.Header.Set("X-Request-ID", "rid-err")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, reqErr)

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"request_id":"rid-warn"`) {
		t.Fatalf("warn log not found or missing request_id fallback: %s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, `"request_id":"rid-err"`) {
		t.Fatalf("error log not found or missing request_id fallback: %s", logs)
	}
}
