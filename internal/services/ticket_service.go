// Package services – TicketService
//
// This file implements the TicketService, the dashboard's view onto the
// persisted ticket collection: listing (optionally by date range, with
// paging), manual adds, user-field edits, and clearing. Machine-derived
// fields are owned by the scan pipeline; the dashboard can only ever touch
// the user-owned field group, which is what keeps merges loss-free.
package services

import (
	"strings"
	"time"

	"github.com/hklam/go-ticket-backend/internal/domain"
	"github.com/hklam/go-ticket-backend/internal/store"
	"github.com/hklam/go-ticket-backend/internal/ticket"
	"github.com/hklam/go-ticket-backend/internal/utils"
)

// TicketRepo is the slice of the ticket store the service needs. It is
// satisfied by *store.TicketStore and stubbed in tests.
type TicketRepo interface {
	List() []domain.Ticket
	Get(number string) (domain.Ticket, bool)
	Append(t domain.Ticket) error
	Update(number string, patch store.TicketPatch) (bool, error)
	Clear() error
}

// TicketService implements the dashboard use-cases over stored tickets.
type TicketService struct {
	Repo     TicketRepo
	Defaults ticket.Defaults
}

// List returns tickets, optionally restricted to the inclusive [from, to]
// date range and paged. page counts from 1; pageSize <= 0 disables paging.
// The returned total is the count before paging.
func (s *TicketService) List(from, to string, page, pageSize int) ([]domain.Ticket, int, error) {
	tickets := s.Repo.List()

	if from != "" || to != "" {
		filtered, err := ticket.FilterRange(tickets, from, to)
		if err != nil {
			return nil, 0, ErrInvalidDateRange
		}
		tickets = filtered
	}

	total := len(tickets)
	start, end := utils.PageBounds(total, page, pageSize)
	return tickets[start:end], total, nil
}

// Add creates a ticket by hand from the dashboard. The ticket number is
// required and must be unique; user-owned fields default like a scan
// insert; a missing date defaults to now in the normalized layout.
func (s *TicketService) Add(t domain.Ticket) (domain.Ticket, error) {
	t.TicketNumber = strings.TrimSpace(t.TicketNumber)
	if t.TicketNumber == "" {
		return domain.Ticket{}, ErrTicketNumberRequired
	}
	if _, exists := s.Repo.Get(t.TicketNumber); exists {
		return domain.Ticket{}, ErrDuplicateTicket
	}

	t.Shop = strings.TrimSpace(t.Shop)
	t.Description = strings.TrimSpace(t.Description)
	t.Date = strings.TrimSpace(t.Date)
	if t.Date == "" {
		t.Date = time.Now().Format(ticket.NormalizedLayout)
	} else if normalized, err := ticket.NormalizeDate(t.Date); err == nil {
		t.Date = normalized
	}
	if t.Status == "" {
		t.Status = domain.TicketStatusInProgress
	}
	if t.HandledBy == "" {
		t.HandledBy = s.Defaults.HandledBy
	}

	if err := s.Repo.Append(t); err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

// Update patches the user-owned fields of one ticket.
// ErrTicketNotFound is returned when the number is unknown.
func (s *TicketService) Update(number string, patch store.TicketPatch) error {
	found, err := s.Repo.Update(number, patch)
	if err != nil {
		return err
	}
	if !found {
		return ErrTicketNotFound
	}
	return nil
}

// Clear removes every stored ticket.
func (s *TicketService) Clear() error {
	return s.Repo.Clear()
}
