// Scan HTTP handler.
//
// This file exposes the endpoint that triggers one scan pass over the
// mailbox dump:
//   - POST /scan
//
// The pass runs synchronously within a wall-clock budget; the response
// reports what the pass did (scanned/matched/added/updated/total and
// whether the budget truncated it). Re-running a scan over the same dump
// is harmless: the merge is idempotent.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hklam/go-ticket-backend/internal/http/middleware"
)

// RunScan godoc
// @ID          runScan
// @Summary     Run a scan pass
// @Description Scans the mailbox dump, applies filters, extracts ticket data, and merges it into the ticket collection.
// @Tags        Scan
// @Produce     json
// @Success     200 {object} services.ScanReport
// @Failure     500 {object} handlers.ErrorResponse "Scan failed"
// @Router      /scan [post]
func (h *Handlers) RunScan(c *gin.Context) {
	ctx := c.Request.Context()
	if h.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.scanTimeout)
		defer cancel()
	}

	report, err := h.scanSvc.Run(ctx)
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("scan pass failed")
		fail(c, http.StatusInternalServerError, ErrCodeScanFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, report)
}
