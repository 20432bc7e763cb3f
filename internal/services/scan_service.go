// Package services – ScanService
//
// This file implements the scan pass: pull raw email records from the
// mailbox source, run the filter engine over each, extract ticket data for
// emails whose actions select a known template, normalize dates, and merge
// the batch into the persisted ticket collection.
//
// The per-item failure boundary is the individual email: nothing one email
// does (bad expression, hostile body, panic in extraction) may abort the
// rest of the pass. A context deadline bounds the whole pass; records not
// reached in time are abandoned cleanly, and whatever was collected before
// expiry is still merged.
package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/hklam/go-ticket-backend/internal/domain"
	"github.com/hklam/go-ticket-backend/internal/extract"
	"github.com/hklam/go-ticket-backend/internal/mailbox"
	"github.com/hklam/go-ticket-backend/internal/ticket"
)

var (
	scanPasses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_passes_total",
		Help: "Total number of scan passes executed.",
	})
	scanEmails = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_emails_processed_total",
		Help: "Total number of email records processed across scan passes.",
	})
	scanTickets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_tickets_total",
		Help: "Tickets touched by scan passes, by outcome.",
	}, []string{"outcome"}) // added | updated
)

func init() {
	prometheus.MustRegister(scanPasses, scanEmails, scanTickets)
}

// FilterMatcher is the engine surface the scan needs.
type FilterMatcher interface {
	ApplyFilters(filters []domain.Filter, email domain.Email) []string
}

// TicketMergeRepo is the slice of the ticket store the scan needs.
type TicketMergeRepo interface {
	List() []domain.Ticket
	Replace(tickets []domain.Ticket) error
}

// ScanReport summarizes one scan pass for the dashboard.
type ScanReport struct {
	Scanned   int  `json:"scanned"`
	Matched   int  `json:"matched"`
	Added     int  `json:"added"`
	Updated   int  `json:"updated"`
	Total     int  `json:"total"`
	Truncated bool `json:"truncated"` // pass hit its deadline before finishing
}

// ScanService runs scan passes over the mailbox source.
type ScanService struct {
	Source  mailbox.Source
	Filters FilterRepo
	Tickets TicketMergeRepo
	Engine  FilterMatcher

	Defaults ticket.Defaults
	// CDCAction and MXAction are the action tags that route an email to
	// the CDC or MX extractor respectively.
	CDCAction string
	MXAction  string
	// MaxEmails caps how many records one pass processes (<= 0: no cap).
	MaxEmails int
}

// Run executes one scan pass. The context's deadline is the wall-clock
// budget: when it expires the remaining records are abandoned and the
// tickets collected so far are still merged and persisted.
func (s *ScanService) Run(ctx context.Context) (ScanReport, error) {
	scanPasses.Inc()

	emails, err := s.Source.Fetch(ctx, s.MaxEmails)
	if err != nil {
		return ScanReport{}, err
	}
	filters := s.Filters.List()

	var report ScanReport
	var batch []domain.Ticket
	for _, email := range emails {
		if ctx.Err() != nil {
			report.Truncated = true
			break
		}
		report.Scanned++
		scanEmails.Inc()

		if t, ok := s.processEmail(filters, email); ok {
			report.Matched++
			batch = append(batch, t)
		}
	}

	merged, sum := ticket.Merge(s.Tickets.List(), batch, s.Defaults)
	if err := s.Tickets.Replace(merged); err != nil {
		return ScanReport{}, err
	}
	report.Added = sum.Added
	report.Updated = sum.Updated
	report.Total = sum.Total
	scanTickets.WithLabelValues("added").Add(float64(sum.Added))
	scanTickets.WithLabelValues("updated").Add(float64(sum.Updated))

	log.Info().
		Int("scanned", report.Scanned).
		Int("matched", report.Matched).
		Int("added", report.Added).
		Int("updated", report.Updated).
		Int("total", report.Total).
		Bool("truncated", report.Truncated).
		Msg("scan pass complete")
	return report, nil
}

// processEmail runs the engine and, when an action selects a template,
// the matching extractor. ok is false when the email contributes nothing.
// A panic while processing is confined to this one email.
func (s *ScanService) processEmail(filters []domain.Filter, email domain.Email) (t domain.Ticket, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("subject", email.Subject).
				Msg("scan: email processing panicked, skipping record")
			ok = false
		}
	}()

	actions := s.Engine.ApplyFilters(filters, email)
	if len(actions) == 0 {
		return domain.Ticket{}, false
	}

	var res extract.Result
	switch {
	case containsAction(actions, s.CDCAction):
		res = extract.CDC(email.Body)
	case containsAction(actions, s.MXAction):
		res = extract.MX(email.Body)
	default:
		return domain.Ticket{}, false
	}
	if res.Empty() {
		return domain.Ticket{}, false
	}

	date := email.Date
	if normalized, err := ticket.NormalizeDate(date); err == nil {
		date = normalized
	} else {
		log.Warn().Err(err).Str("subject", email.Subject).
			Msg("scan: unparseable email date, keeping raw value")
	}

	return domain.Ticket{
		TicketNumber: res.TicketNumber,
		Shop:         res.Shop,
		Description:  res.Description,
		Date:         date,
	}, true
}

func containsAction(actions []string, action string) bool {
	if action == "" {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
