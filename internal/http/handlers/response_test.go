package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func Test_fail_ServerErrorsAreLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Capture what LoggerFrom(c) emits.
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	// Simulate the RequestID and Logger middleware contract.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-scan-1")
		c.Set("logger", &logger)
		c.Next()
	})

	r.POST("/api/v1/scan", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeScanFailed, "mailbox source unavailable")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/scan", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-scan-1" || resp.Code != ErrCodeScanFailed || resp.Message != "mailbox source unavailable" {
		t.Fatalf("unexpected body: %+v", resp)
	}

	// 5xx responses must leave a server-side trace.
	logs := buf.String()
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, ErrCodeScanFailed) {
		t.Fatalf("expected error log with code, got: %s", logs)
	}
}

func Test_Fail_ClientErrorsAndSuccessHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Client errors must not hit the error log.
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-404")
		c.Set("logger", &logger)
		c.Next()
	})

	// Exported Fail, as the router's NoRoute handler uses it.
	r.GET("/api/v1/tickets/:number", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
	})
	r.POST("/api/v1/filters", func(c *gin.Context) {
		ok(c, http.StatusCreated, gin.H{"name": "mx-alerts", "enabled": true})
	})
	r.DELETE("/api/v1/tickets", func(c *gin.Context) {
		noContent(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tickets/HK999999", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json 404: %v", err)
	}
	if er.RequestID != "rid-404" || er.Code != ErrCodeNotFound || er.Message != "ticket not found" {
		t.Fatalf("unexpected 404 body: %+v", er)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx must not be logged server-side: %s", buf.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/filters", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d", w.Code)
	}
	var created map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("json 201: %v", err)
	}
	if created["name"] != "mx-alerts" || created["enabled"] != true {
		t.Fatalf("unexpected created body: %#v", created)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/tickets", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body for 204")
	}
}
