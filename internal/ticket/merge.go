// Package ticket implements the persisted ticket collection's write-path
// semantics: merging freshly extracted records into the existing
// collection, date normalization, and date-range filtering.
package ticket

import (
	"sort"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

// Defaults are applied to user-owned fields when a merge inserts a ticket
// that did not exist before.
type Defaults struct {
	// HandledBy is the deployment's default handler label.
	HandledBy string
}

// Summary reports what a merge did. Updated counts changed machine-derived
// fields, not tickets: one rescan that refreshes both shop and date on the
// same ticket counts two updates.
type Summary struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// Merge folds incoming extracted tickets into the existing collection.
//
// Semantics:
//   - Existing tickets are indexed by ticket_number; duplicate numbers in
//     the input collapse, last write wins (a data-quality concern upstream,
//     not an invariant here).
//   - Incoming records without a ticket_number are dropped silently.
//   - For an existing number, only shop, description, and date are
//     refreshed, and only when the incoming value is non-empty and differs.
//     User-owned fields are never touched.
//   - Unknown numbers are inserted with defaults for user-owned fields
//     (status "in progress", handled_by from defaults).
//   - The result is sorted by date, newest first, using lexical order on
//     the normalized "YYYY-MM-DD HH:MM" form. Callers normalize dates
//     before merging to keep that order chronological.
//
// Merging the same extracted batch twice is idempotent.
func Merge(existing, incoming []domain.Ticket, defaults Defaults) ([]domain.Ticket, Summary) {
	merged := make([]domain.Ticket, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))
	for _, t := range existing {
		if i, ok := index[t.TicketNumber]; ok {
			merged[i] = t
			continue
		}
		index[t.TicketNumber] = len(merged)
		merged = append(merged, t)
	}

	var sum Summary
	for _, in := range incoming {
		if in.TicketNumber == "" {
			continue
		}
		i, ok := index[in.TicketNumber]
		if !ok {
			t := in
			if t.Status == "" {
				t.Status = domain.TicketStatusInProgress
			}
			if t.HandledBy == "" {
				t.HandledBy = defaults.HandledBy
			}
			index[t.TicketNumber] = len(merged)
			merged = append(merged, t)
			sum.Added++
			continue
		}

		t := &merged[i]
		if in.Shop != "" && in.Shop != t.Shop {
			t.Shop = in.Shop
			sum.Updated++
		}
		if in.Description != "" && in.Description != t.Description {
			t.Description = in.Description
			sum.Updated++
		}
		if in.Date != "" && in.Date != t.Date {
			t.Date = in.Date
			sum.Updated++
		}
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Date > merged[b].Date
	})
	sum.Total = len(merged)
	return merged, sum
}
