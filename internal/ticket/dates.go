package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

// NormalizedLayout is the canonical date form tickets carry. The merge's
// lexical sort is chronological exactly because every ingested date is
// rewritten into this layout first.
const NormalizedLayout = "2006-01-02 15:04"

// dateTimeLayouts are the accepted inputs that carry a time component.
// Layouts are tried in order; the first parse wins.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2-1-2006 15:04",
}

// dateOnlyLayouts are the accepted inputs without a time component.
// "2-1-2006" covers DD-MM-YYYY with or without zero padding.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"2-1-2006",
}

// ParseDate parses one of the accepted mailbox/dashboard date forms.
// hasTime reports whether the input carried a time-of-day.
func ParseDate(s string) (t time.Time, hasTime bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("ticket: empty date")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("ticket: unparseable date %q", s)
}

// NormalizeDate converts any accepted input into the canonical
// "YYYY-MM-DD HH:MM" form. Unparseable input is a normalization failure
// for the caller to report; the original string is returned so it can be
// carried through unchanged if the caller chooses to keep the record.
func NormalizeDate(s string) (string, error) {
	t, _, err := ParseDate(s)
	if err != nil {
		return s, err
	}
	return t.Format(NormalizedLayout), nil
}

// FilterRange returns the tickets whose date falls inside [from, to],
// inclusive. A date-only upper bound is extended to the end of that day.
// Tickets with unparseable dates are excluded from the result.
func FilterRange(tickets []domain.Ticket, from, to string) ([]domain.Ticket, error) {
	start, _, err := ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("ticket: invalid range start: %w", err)
	}
	end, endHasTime, err := ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("ticket: invalid range end: %w", err)
	}
	if !endHasTime {
		end = end.Add(23*time.Hour + 59*time.Minute)
	}

	var out []domain.Ticket
	for _, t := range tickets {
		d, _, err := ParseDate(t.Date)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}
