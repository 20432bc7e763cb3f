// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the Handlers aggregate and the service interfaces the
// transport layer depends on. Handlers are transport-thin: they validate
// input, delegate to application services, and translate service errors
// into HTTP results.
package handlers

import (
	"context"
	"time"

	"github.com/hklam/go-ticket-backend/internal/domain"
	"github.com/hklam/go-ticket-backend/internal/services"
	"github.com/hklam/go-ticket-backend/internal/store"
)

// FilterService is the filter use-case surface consumed by the HTTP layer.
type FilterService interface {
	List() []domain.Filter
	Create(f domain.Filter) (domain.Filter, error)
	Edit(id int, patch store.FilterPatch) error
	Delete(id int) error
}

// TicketService is the ticket use-case surface consumed by the HTTP layer.
type TicketService interface {
	List(from, to string, page, pageSize int) ([]domain.Ticket, int, error)
	Add(t domain.Ticket) (domain.Ticket, error)
	Update(number string, patch store.TicketPatch) error
	Clear() error
}

// ScanService is the scan use-case surface consumed by the HTTP layer.
type ScanService interface {
	Run(ctx context.Context) (services.ScanReport, error)
}

// Handlers bundles the API endpoints with their service dependencies.
type Handlers struct {
	filterSvc   FilterService
	ticketSvc   TicketService
	scanSvc     ScanService
	scanTimeout time.Duration
}

// New constructs the Handlers aggregate. scanTimeout is the wall-clock
// budget applied to a scan pass triggered over HTTP.
func New(filterSvc FilterService, ticketSvc TicketService, scanSvc ScanService, scanTimeout time.Duration) *Handlers {
	return &Handlers{
		filterSvc:   filterSvc,
		ticketSvc:   ticketSvc,
		scanSvc:     scanSvc,
		scanTimeout: scanTimeout,
	}
}
