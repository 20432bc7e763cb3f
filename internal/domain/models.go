// Package domain defines the persistence and wire models for filters,
// emails, and tickets. Filters and tickets are serialized to flat JSON
// collections by the store layer; emails arrive from the mailbox
// collaborator and are never persisted by this service.
package domain

// RecipientTypeTo marks a primary ("To") recipient. Copy recipients
// (Cc/Bcc) carry other values and never participate in to_email matching.
const RecipientTypeTo = 1

// Recipient is a single addressee of an email as reported by the mailbox
// collaborator.
//
// Fields:
//   - Name: display name; to_email filters match against this string.
//   - Email: address, informational only.
//   - Type: recipient class; RecipientTypeTo denotes a primary recipient.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  int    `json:"type"`
}

// Email is one raw message record handed to the filter engine. The engine
// treats it as read-only: predicates and extractors never mutate it.
//
// Fields:
//   - Sender: display string containing the sender address as a substring.
//   - Subject / Body: free text; Body may contain CRLF line endings.
//   - Date: mailbox-native timestamp string, normalized before merge.
//   - Recipients: ordered addressee list.
type Email struct {
	Sender     string      `json:"sender"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	Date       string      `json:"date"`
	Recipients []Recipient `json:"recipients"`
}

// Filter is a stored mail-matching rule. Each predicate field is either
// empty (always passes) or a matching expression/substring; when every set
// predicate passes, Action is emitted.
//
// Fields:
//   - ID: unique positive integer assigned by the store (max existing id
//     plus one; never reused after deletion).
//   - Name: free-text label.
//   - FromEmail: case-insensitive substring matched against Email.Sender.
//   - SubjectFilter / BodyFilter: expression (or plain substring) evaluated
//     by the sandboxed evaluator against the subject/body.
//   - ToEmail: case-insensitive substring matched against primary
//     recipient names.
//   - Action: tag emitted on a full match; empty actions are never emitted.
//   - Enabled: disabled filters are skipped entirely.
//   - Description / CreatedAt / UpdatedAt: metadata, not used in evaluation.
type Filter struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	FromEmail     string `json:"from_email"`
	SubjectFilter string `json:"subject_filter"`
	BodyFilter    string `json:"body_filter"`
	ToEmail       string `json:"to_email"`
	Action        string `json:"action"`
	Description   string `json:"description"`
	Enabled       bool   `json:"enabled"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// TicketStatusInProgress is the status given to a ticket when it is first
// created, either by the scan pipeline or through the dashboard.
const TicketStatusInProgress = "in progress"

// Ticket is one persisted incident record, keyed by TicketNumber.
//
// Machine-derived fields (Shop, Description, Date) are refreshed by the
// merge whenever extraction produces a new non-empty value that differs
// from the stored one. The remaining fields are user-owned: once set via
// the dashboard they are never overwritten by a scan.
type Ticket struct {
	TicketNumber string `json:"ticket_number"`
	Shop         string `json:"shop"`
	Description  string `json:"description"`
	Date         string `json:"date"`

	// User-owned fields, preserved across merges.
	Problem     string `json:"problem"`
	ResolveTime string `json:"resolve_time"`
	PhRmOs      string `json:"ph_rm_os"`
	Solution    string `json:"solution"`
	FuAction    string `json:"fu_action"`
	HandledBy   string `json:"handled_by"`
	Status      string `json:"status"`
}
