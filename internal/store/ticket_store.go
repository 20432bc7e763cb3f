package store

import (
	"sync"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

// TicketPatch carries a dashboard edit of a ticket's user-owned fields.
// Machine-derived fields (shop, description, date) are deliberately not
// patchable here: they belong to the scan pipeline.
type TicketPatch struct {
	Problem     *string `json:"problem,omitempty"`
	ResolveTime *string `json:"resolve_time,omitempty"`
	PhRmOs      *string `json:"ph_rm_os,omitempty"`
	Solution    *string `json:"solution,omitempty"`
	FuAction    *string `json:"fu_action,omitempty"`
	HandledBy   *string `json:"handled_by,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// TicketStore persists the ticket collection in a single JSON file, same
// recovery and write-then-rename discipline as FilterStore.
type TicketStore struct {
	mu      sync.Mutex
	path    string
	tickets []domain.Ticket
}

// NewTicketStore opens (or initializes) the ticket collection at path.
func NewTicketStore(path string) *TicketStore {
	s := &TicketStore{path: path}
	s.tickets = loadCollection[domain.Ticket](path)
	return s
}

// List returns a copy of the stored tickets in stored order.
func (s *TicketStore) List() []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Get returns the ticket with the given number, if present.
func (s *TicketStore) Get(number string) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.TicketNumber == number {
			return t, true
		}
	}
	return domain.Ticket{}, false
}

// Replace swaps the whole collection (the merge output) and persists it.
func (s *TicketStore) Replace(tickets []domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
	return s.saveLocked()
}

// Append adds a ticket without merge semantics and persists. The caller is
// responsible for duplicate checks (see TicketService.Add).
func (s *TicketStore) Append(t domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = append(s.tickets, t)
	if err := s.saveLocked(); err != nil {
		s.tickets = s.tickets[:len(s.tickets)-1]
		return err
	}
	return nil
}

// Update patches the user-owned fields of the ticket with the given number
// and persists. It reports whether the ticket was found.
func (s *TicketStore) Update(number string, patch TicketPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tickets {
		if s.tickets[i].TicketNumber != number {
			continue
		}
		t := &s.tickets[i]
		if patch.Problem != nil {
			t.Problem = *patch.Problem
		}
		if patch.ResolveTime != nil {
			t.ResolveTime = *patch.ResolveTime
		}
		if patch.PhRmOs != nil {
			t.PhRmOs = *patch.PhRmOs
		}
		if patch.Solution != nil {
			t.Solution = *patch.Solution
		}
		if patch.FuAction != nil {
			t.FuAction = *patch.FuAction
		}
		if patch.HandledBy != nil {
			t.HandledBy = *patch.HandledBy
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		return true, s.saveLocked()
	}
	return false, nil
}

// Clear removes every ticket and persists the empty collection.
func (s *TicketStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = nil
	return s.saveLocked()
}

func (s *TicketStore) saveLocked() error {
	return writeCollection(s.path, s.tickets)
}
