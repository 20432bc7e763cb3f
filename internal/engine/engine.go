// Package engine applies the stored filter list to one email record and
// collects the actions of every filter whose predicates all pass.
//
// Filters are evaluated independently, in stored order, with no
// short-circuit across filters: one email can contribute several actions,
// and duplicates are preserved. A predicate that is empty always passes;
// a predicate that is set must match or that filter (and only that filter)
// is skipped.
package engine

import (
	"strings"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

// ExpressionMatcher evaluates a subject/body filter value. Values that do
// not look like an expression fall back to substring containment against
// the predicate's own field.
type ExpressionMatcher interface {
	LooksLikeExpression(s string) bool
	Eval(expression string, email domain.Email) bool
}

// Engine matches emails against a filter list.
type Engine struct {
	matcher ExpressionMatcher
}

// New returns an Engine using the given expression matcher.
func New(matcher ExpressionMatcher) *Engine {
	return &Engine{matcher: matcher}
}

// ApplyFilters returns the actions of all enabled filters whose set
// predicates all match the email, in filter order. The email is read-only
// throughout.
func (e *Engine) ApplyFilters(filters []domain.Filter, email domain.Email) []string {
	var actions []string
	for _, f := range filters {
		if !f.Enabled {
			continue
		}
		if f.FromEmail != "" && !containsFold(email.Sender, f.FromEmail) {
			continue
		}
		if f.SubjectFilter != "" && !e.matchText(f.SubjectFilter, email.Subject, email) {
			continue
		}
		if f.BodyFilter != "" && !e.matchText(f.BodyFilter, email.Body, email) {
			continue
		}
		if f.ToEmail != "" && !matchPrimaryRecipient(email.Recipients, f.ToEmail) {
			continue
		}
		if f.Action != "" {
			actions = append(actions, f.Action)
		}
	}
	return actions
}

// matchText evaluates a subject/body filter value: as a sandboxed
// expression when it contains a recognized function call, otherwise as a
// case-insensitive substring of the predicate's target field.
func (e *Engine) matchText(value, field string, email domain.Email) bool {
	if e.matcher.LooksLikeExpression(value) {
		return e.matcher.Eval(value, email)
	}
	return containsFold(field, value)
}

// matchPrimaryRecipient reports whether any primary ("to") recipient's
// name contains needle, case-insensitively. Copy recipients are ignored.
func matchPrimaryRecipient(recipients []domain.Recipient, needle string) bool {
	for _, r := range recipients {
		if r.Type != domain.RecipientTypeTo {
			continue
		}
		if containsFold(r.Name, needle) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
