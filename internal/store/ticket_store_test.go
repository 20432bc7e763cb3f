package store

import (
	"path/filepath"
	"testing"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

func ticketStore(t *testing.T) (*TicketStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticket.json")
	return NewTicketStore(path), path
}

func TestTicketStore_AppendGetRoundTrip(t *testing.T) {
	s, path := ticketStore(t)

	in := domain.Ticket{
		TicketNumber: "HK540639",
		Shop:         "cdc601",
		Description:  "notebook cannot update",
		Date:         "2026-08-30 14:05",
		Status:       domain.TicketStatusInProgress,
		HandledBy:    "unassigned",
	}
	if err := s.Append(in); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, found := s.Get("HK540639")
	if !found {
		t.Fatal("ticket not found after append")
	}
	if got != in {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}

	reopened := NewTicketStore(path)
	if _, found := reopened.Get("HK540639"); !found {
		t.Fatal("ticket not persisted to disk")
	}
}

func TestTicketStore_ReplaceSwapsCollection(t *testing.T) {
	s, _ := ticketStore(t)
	if err := s.Append(domain.Ticket{TicketNumber: "OLD1"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	next := []domain.Ticket{
		{TicketNumber: "NEW1", Date: "2026-08-31 09:00"},
		{TicketNumber: "NEW2", Date: "2026-08-30 09:00"},
	}
	if err := s.Replace(next); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got := s.List()
	if len(got) != 2 || got[0].TicketNumber != "NEW1" || got[1].TicketNumber != "NEW2" {
		t.Fatalf("replace result: %+v", got)
	}
	if _, found := s.Get("OLD1"); found {
		t.Fatal("replaced ticket still present")
	}
}

func TestTicketStore_UpdateTouchesOnlyUserFields(t *testing.T) {
	s, _ := ticketStore(t)
	if err := s.Append(domain.Ticket{
		TicketNumber: "INC0012345",
		Shop:         "MX456",
		Description:  "Server down",
		Date:         "2026-08-29 08:00",
		Status:       domain.TicketStatusInProgress,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	found, err := s.Update("INC0012345", TicketPatch{
		Solution: strPtr("rebooted switch"),
		Status:   strPtr("resolved"),
	})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}

	got, _ := s.Get("INC0012345")
	if got.Solution != "rebooted switch" || got.Status != "resolved" {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.Shop != "MX456" || got.Description != "Server down" || got.Date != "2026-08-29 08:00" {
		t.Fatalf("machine-derived fields must be untouched: %+v", got)
	}
}

func TestTicketStore_UpdateUnknownNumber(t *testing.T) {
	s, _ := ticketStore(t)
	found, err := s.Update("NOPE", TicketPatch{Status: strPtr("resolved")})
	if err != nil {
		t.Fatalf("update unknown errored: %v", err)
	}
	if found {
		t.Fatal("update of unknown number reported found")
	}
}

func TestTicketStore_ClearEmptiesAndPersists(t *testing.T) {
	s, path := ticketStore(t)
	if err := s.Append(domain.Ticket{TicketNumber: "A1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(got))
	}
	if got := NewTicketStore(path).List(); len(got) != 0 {
		t.Fatalf("clear not persisted, reopened store has %d", len(got))
	}
}
