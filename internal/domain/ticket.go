package domain

import (
	"errors"
	"fmt"
	"time"
)

// RepairStatus enumerates lifecycle states for repair tickets.
type RepairStatus string

const (
	StatusPending    RepairStatus = "Pending"
	StatusDiagnosing RepairStatus = "Diagnosing"
	StatusRepairing  RepairStatus = "Repairing"
	StatusReady      RepairStatus = "Ready"
	StatusCompleted  RepairStatus = "Completed"
	StatusCancelled  RepairStatus = "Cancelled"
)

// ErrInvalidStatus is returned for status values outside the enumeration.
// Status strings arrive from select controls but also from imported
// documents, so unknown values are rejected rather than stored as-is.
var ErrInvalidStatus = errors.New("invalid repair status")

// AllStatuses returns the enumeration in lifecycle order.
func AllStatuses() []RepairStatus {
	return []RepairStatus{
		StatusPending,
		StatusDiagnosing,
		StatusRepairing,
		StatusReady,
		StatusCompleted,
		StatusCancelled,
	}
}

// ParseStatus validates a raw status string against the enumeration.
func ParseStatus(raw string) (RepairStatus, error) {
	for _, status := range AllStatuses() {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Ticket is the aggregate for printer repair requests.
//
// ClientName is a snapshot taken at submission time and is never resynced
// if the client's profile changes later. AISuggestion is captured at
// creation and immutable afterwards. Timestamps are RFC3339 UTC strings so
// exported documents round-trip byte-for-byte and chronological order
// matches lexicographic order.
type Ticket struct {
	ID            string       `json:"id"`
	ClientID      string       `json:"clientId"`
	ClientName    string       `json:"clientName,omitempty"`
	PrinterModel  string       `json:"printerModel"`
	SerialNumber  string       `json:"serialNumber"`
	Description   string       `json:"description"`
	Status        RepairStatus `json:"status"`
	CreatedAt     string       `json:"createdAt"`
	UpdatedAt     string       `json:"updatedAt"`
	EstimatedCost *float64     `json:"estimatedCost,omitempty"`
	Comments      []string     `json:"comments,omitempty"`
	AISuggestion  string       `json:"aiSuggestion,omitempty"`
}

// Now returns the current time in the canonical timestamp format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Touch refreshes UpdatedAt to the current time.
func (t *Ticket) Touch() {
	t.UpdatedAt = Now()
}

// Clone returns a deep copy so mutations never leak through shared slices.
func (t Ticket) Clone() Ticket {
	clone := t
	if t.Comments != nil {
		clone.Comments = append([]string(nil), t.Comments...)
	}
	if t.EstimatedCost != nil {
		cost := *t.EstimatedCost
		clone.EstimatedCost = &cost
	}
	return clone
}
