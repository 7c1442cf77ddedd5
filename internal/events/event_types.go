package events

import (
	"time"

	"github.com/print-expert/repair-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketCommentAdded  EventType = "ticket_comment_added"
	EventTicketsImported     EventType = "tickets_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientID     string              `json:"client_id"`
	PrinterModel string              `json:"printer_model"`
	Status       domain.RepairStatus `json:"status"`
	HasAITip     bool                `json:"has_ai_tip"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.RepairStatus `json:"old_status"`
	NewStatus domain.RepairStatus `json:"new_status"`
	Override  bool                `json:"override,omitempty"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentPreview string `json:"comment_preview"`
}

// TicketsImportedPayload payload.
type TicketsImportedPayload struct {
	Imported int `json:"imported"`
	Dropped  int `json:"dropped"`
}
