// Package codec serializes the ticket list for bulk exchange: a lossless
// indented JSON document and a lossy CSV display table.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/print-expert/repair-service/internal/domain"
)

// ImportIssue describes an entry dropped during import validation.
type ImportIssue struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// ExportJSON serializes the full ticket list, indented, preserving every
// field. ImportJSON(ExportJSON(list)) yields the same list.
func ExportJSON(tickets []domain.Ticket) ([]byte, error) {
	return json.MarshalIndent(tickets, "", "  ")
}

// ImportJSON parses a document into tickets. The top-level value must be a
// JSON array or an error is returned and nothing is imported. Individual
// entries with a missing id or a status outside the enumeration are dropped
// and reported; imported documents are otherwise untrusted and taken as-is.
func ImportJSON(data []byte) ([]domain.Ticket, []ImportIssue, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("document is not a JSON array: %w", err)
	}
	// Unmarshal accepts the literal null into a slice, leaving it nil.
	// That is not an array; importing it would erase the list.
	if entries == nil {
		return nil, nil, errors.New("document is not a JSON array: got null")
	}

	tickets := make([]domain.Ticket, 0, len(entries))
	var issues []ImportIssue
	for i, entry := range entries {
		var ticket domain.Ticket
		if err := json.Unmarshal(entry, &ticket); err != nil {
			issues = append(issues, ImportIssue{Index: i, Reason: "malformed entry"})
			continue
		}
		if ticket.ID == "" {
			issues = append(issues, ImportIssue{Index: i, Reason: "missing id"})
			continue
		}
		if _, err := domain.ParseStatus(string(ticket.Status)); err != nil {
			issues = append(issues, ImportIssue{
				Index:  i,
				ID:     ticket.ID,
				Reason: fmt.Sprintf("unrecognized status %q", ticket.Status),
			})
			continue
		}
		tickets = append(tickets, ticket)
	}
	return tickets, issues, nil
}

// ExportFileName builds a dated download filename, e.g.
// print_expert_export_2024-05-16.json.
func ExportFileName(ext string) string {
	return fmt.Sprintf("print_expert_export_%s.%s", time.Now().UTC().Format("2006-01-02"), ext)
}
