// Package extract pulls structured ticket fields out of the two known
// notification templates: "CDC" incident mails (anchor patterns matched
// with regular expressions) and "MX" alert mails (case-insensitive
// anchor-offset substring search).
//
// Both extractors are stateless and total: a missing anchor simply leaves
// that field empty, and one field's failure never aborts the others.
package extract

import (
	"regexp"
	"strings"
)

// Result is a partial ticket record produced by one extractor. An empty
// field means the corresponding anchor was not found in the body.
type Result struct {
	TicketNumber string
	Shop         string
	Description  string
}

// Empty reports whether extraction produced nothing usable. Records
// without a ticket number are dropped before merge.
func (r Result) Empty() bool { return r.TicketNumber == "" }

var (
	cdcTicketRe = regexp.MustCompile(`Inci\. ID:\s*([A-Z0-9]+)`)
	// Shop is the first parenthesized group after the customer name; the
	// name itself can span lines.
	cdcShopRe = regexp.MustCompile(`(?s)Cust\. Name:\s*.*?\((.*?)\)`)
	cdcDescRe = regexp.MustCompile(`(?s)Description:\s*(.*?)\r\n`)
)

// CDC extracts ticket fields from a CDC-style incident notice.
//
// Rules:
//   - ticket number: alphanumeric token following "Inci. ID:".
//   - shop: first "(...)" group after "Cust. Name:", prefixed with "cdc"
//     unless it already starts with "ss" (case-insensitive).
//   - description: text between "Description:" and the next CRLF, trimmed.
func CDC(body string) Result {
	var r Result

	if m := cdcTicketRe.FindStringSubmatch(body); m != nil {
		r.TicketNumber = m[1]
	}
	if m := cdcShopRe.FindStringSubmatch(body); m != nil {
		shop := strings.TrimSpace(m[1])
		if !strings.HasPrefix(strings.ToLower(shop), "ss") {
			shop = "cdc" + shop
		}
		r.Shop = shop
	}
	if m := cdcDescRe.FindStringSubmatch(body); m != nil {
		r.Description = strings.TrimSpace(m[1])
	}
	return r
}

// MX anchor windows: how many characters after each anchor are considered.
const (
	mxNumberWindow = 200
	mxShopWindow   = 200
	mxDescWindow   = 500
)

// MX extracts ticket fields from an MX-style alert notice.
//
// Rules (anchor-offset search, anchors located case-insensitively):
//   - ticket number: up to 200 chars after "Number:", cut at "User:".
//   - shop: up to 200 chars after "Location:", cut at "Category:"; the
//     segment before the first "-" is kept, one leading "0" is dropped,
//     and the result is prefixed with "MX".
//   - description: up to 500 chars after "Short Description:", cut at the
//     first CRLF.
func MX(body string) Result {
	var r Result

	if win, ok := anchorWindow(body, "Number:", mxNumberWindow); ok {
		r.TicketNumber = strings.TrimSpace(firstSegment(win, "User:"))
	}
	if win, ok := anchorWindow(body, "Location:", mxShopWindow); ok {
		shopRaw := strings.TrimSpace(firstSegment(win, "Category:"))
		shopBase := strings.TrimSpace(firstSegment(shopRaw, "-"))
		if strings.HasPrefix(shopBase, "0") {
			shopBase = shopBase[1:]
		}
		r.Shop = "MX" + shopBase
	}
	if win, ok := anchorWindow(body, "Short Description:", mxDescWindow); ok {
		r.Description = strings.TrimSpace(firstSegment(win, "\r\n"))
	}
	return r
}

// anchorWindow locates anchor in body case-insensitively and returns up to
// window characters following it. ok is false when the anchor is absent.
func anchorWindow(body, anchor string, window int) (string, bool) {
	i := indexFold(body, anchor)
	if i < 0 {
		return "", false
	}
	rest := []rune(body[i+len(anchor):])
	if len(rest) > window {
		rest = rest[:window]
	}
	return string(rest), true
}

// indexFold returns the byte index of the first case-insensitive occurrence
// of anchor in s, or -1. The index is valid in s itself, so the search stays
// correct when s contains multi-byte runes before the match (lowercasing a
// copy and indexing into that copy would not: ToLower can change byte
// lengths). Anchors are ASCII, so comparing equal-length byte windows with
// EqualFold covers every case variant.
func indexFold(s, anchor string) int {
	n := len(anchor)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], anchor) {
			return i
		}
	}
	return -1
}

// firstSegment returns text up to the first occurrence of sep (the whole
// text when sep is absent).
func firstSegment(text, sep string) string {
	if i := strings.Index(text, sep); i >= 0 {
		return text[:i]
	}
	return text
}
