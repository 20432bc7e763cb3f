// Package mailbox is the boundary with the mail-fetching collaborator.
// The engine never calls into a mailbox; a Source hands it raw email
// records that some external process has already fetched and dumped.
//
// The only shipped implementation reads a JSON dump file (the collaborator
// writes one array of email records per fetch pass). It caps the number of
// records handed to a scan so a runaway dump cannot blow the scan budget;
// the wall-clock budget itself is enforced by the caller via context.
package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

// Source supplies the raw email records for one scan pass.
type Source interface {
	// Fetch returns up to max email records (all of them when max <= 0).
	Fetch(ctx context.Context, max int) ([]domain.Email, error)
}

// DumpFile reads email records from a JSON array file written by the
// external mail fetcher.
type DumpFile struct {
	Path string
}

// NewDumpFile returns a Source over the dump file at path.
func NewDumpFile(path string) *DumpFile {
	return &DumpFile{Path: path}
}

// Fetch loads the dump and returns at most max records. A missing dump is
// an error here (unlike the stores, an absent dump means there is nothing
// to scan and the caller should say so), but a context already past its
// deadline aborts before any file work.
func (d *DumpFile) Fetch(ctx context.Context, max int) ([]domain.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("mailbox: read dump %s: %w", d.Path, err)
	}
	var emails []domain.Email
	if err := json.Unmarshal(raw, &emails); err != nil {
		return nil, fmt.Errorf("mailbox: parse dump %s: %w", d.Path, err)
	}
	if max > 0 && len(emails) > max {
		emails = emails[:max]
	}
	return emails, nil
}
