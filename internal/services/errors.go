// Package services defines the business logic for filters, tickets, and
// scan passes. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrFilterNotFound indicates that no stored filter carries the
	// requested id.
	ErrFilterNotFound = errors.New("filter not found")

	// ErrFilterNameRequired is returned when a filter create request has
	// an empty name.
	ErrFilterNameRequired = errors.New("filter name is required")

	// ErrTicketNotFound indicates that no stored ticket carries the
	// requested ticket number.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketNumberRequired is returned when a manual ticket add has an
	// empty ticket number.
	ErrTicketNumberRequired = errors.New("ticket number is required")

	// ErrDuplicateTicket is returned when a manual ticket add collides
	// with an existing ticket number.
	ErrDuplicateTicket = errors.New("ticket already exists")

	// ErrInvalidDateRange is returned when a tickets listing carries an
	// unparseable from/to date.
	ErrInvalidDateRange = errors.New("invalid date range")
)
