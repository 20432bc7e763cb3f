// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger used in front of
// the dashboard API. The backend handles mailbox content, so request metadata
// can carry mail addresses (sender filters in query strings, for instance)
// and must be scrubbed before it reaches the logs. Bodies are never logged.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Scrub patterns, compiled once. UUIDs are replaced before phone numbers so
// the loose phone pattern cannot latch onto a UUID's digit segments.
var (
	scrubUUIDRe  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	scrubEmailRe = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	scrubPhoneRe = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// scrub replaces identifiers, mail addresses, and phone numbers in s.
func scrub(s string) string {
	if s == "" {
		return s
	}
	s = scrubUUIDRe.ReplaceAllString(s, "[REDACTED:id]")
	s = scrubEmailRe.ReplaceAllString(s, "[REDACTED:email]")
	return scrubPhoneRe.ReplaceAllString(s, "[REDACTED:phone]")
}

// RedactOptions configures extra scrubbing for RedactingLogger.
//
// MaskHeaders lists additional header names whose values are replaced whole
// with "[REDACTED]" (case-insensitive). Authorization, Cookie, and Set-Cookie
// are always masked; the router adds X-API-Key on top.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger returns a middleware that logs one structured line per
// request: method, route path, scrubbed query string, status, response size,
// latency, and scrubbed request headers. Level is info for 2xx/3xx, warn for
// 4xx, and error for 5xx.
//
// Scrubbing narrows the leak surface but does not replace care upstream;
// clients should still keep mail content out of query strings and headers.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrub(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, masked := maskHeaders[strings.ToLower(k)]; masked {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = scrub(strings.Join(vv, ", "))
		}

		c.Next()

		status := c.Writer.Status()

		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
