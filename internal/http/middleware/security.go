// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, which attaches hardening headers to
// every dashboard response. The API serves JSON only (ticket listings, filter
// CRUD, scan triggers), so there is no CSP here; HSTS is opt-in because local
// and in-cluster deployments commonly terminate TLS at a proxy or not at all.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// hstsDefaultMaxAge is used when SecurityOptions.HSTSMaxAge is unset.
const hstsDefaultMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures the headers emitted by SecurityHeaders.
//
// EnableHSTS emits Strict-Transport-Security on HTTPS requests only; leave it
// off unless traffic is HTTPS end-to-end, proxy hop included. HSTSMaxAge
// defaults to 180 days when zero. NoStore adds Cache-Control: no-store for
// responses that must not be cached. EnablePolicy adds the browser feature
// policies, which are harmless for non-browser clients.
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration
	NoStore      bool
	EnablePolicy bool
}

// SecurityHeaders returns a middleware adding security headers per response.
//
// Always set:
//
//	X-Content-Type-Options: nosniff
//	X-Frame-Options: DENY
//	Referrer-Policy: no-referrer
//
// With EnablePolicy, Permissions-Policy and X-Permitted-Cross-Domain-Policies
// are added; with NoStore, Cache-Control/Pragma/Expires. HSTS is sent only
// when EnableHSTS is on and the request arrived over HTTPS (direct TLS or
// X-Forwarded-Proto). When an X-Request-ID response header is present it is
// appended to Access-Control-Expose-Headers so browser dashboards can read
// the correlation id.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int(hstsDefaultMaxAge.Seconds())
	}
	hstsValue := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		// Never advertise HSTS on a plain-HTTP request.
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		if rid := h.Get("X-Request-ID"); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			switch cur := h.Get(hdr); {
			case cur == "":
				h.Set(hdr, "X-Request-ID")
			case !strings.Contains(cur, "X-Request-ID"):
				h.Set(hdr, cur+", X-Request-ID")
			}
		}

		c.Next()
	}
}

// isHTTPS reports whether the request used HTTPS, either directly or via a
// reverse proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
