// Package services – FilterService
//
// This file implements the FilterService, the use-case layer over the
// filter store: listing, creating, partially editing, and deleting stored
// mail filters. The store assigns ids and owns persistence; the service
// adds input validation and maps "not found" onto a sentinel error so the
// HTTP layer can produce consistent results.
package services

import (
	"strings"

	"github.com/hklam/go-ticket-backend/internal/domain"
	"github.com/hklam/go-ticket-backend/internal/store"
)

// FilterRepo is the slice of the filter store the service needs. It is
// satisfied by *store.FilterStore and stubbed in tests.
type FilterRepo interface {
	List() []domain.Filter
	Create(f domain.Filter) (domain.Filter, error)
	Edit(id int, patch store.FilterPatch) (bool, error)
	Delete(id int) (bool, error)
}

// FilterService implements the use-cases around stored mail filters.
type FilterService struct {
	Repo FilterRepo
}

// List returns all filters in stored (evaluation) order.
func (s *FilterService) List() []domain.Filter {
	return s.Repo.List()
}

// Create validates and stores a new filter. The id, enabled default, and
// created_at stamp come from the store.
func (s *FilterService) Create(f domain.Filter) (domain.Filter, error) {
	if strings.TrimSpace(f.Name) == "" {
		return domain.Filter{}, ErrFilterNameRequired
	}
	return s.Repo.Create(f)
}

// Edit applies a partial update to the filter with the given id.
// ErrFilterNotFound is returned when the id is unknown.
func (s *FilterService) Edit(id int, patch store.FilterPatch) error {
	found, err := s.Repo.Edit(id, patch)
	if err != nil {
		return err
	}
	if !found {
		return ErrFilterNotFound
	}
	return nil
}

// Delete removes the filter with the given id. ErrFilterNotFound is
// returned when the id is unknown.
func (s *FilterService) Delete(id int) error {
	found, err := s.Repo.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrFilterNotFound
	}
	return nil
}
