package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/codec"
	"github.com/print-expert/repair-service/internal/domain"
	"github.com/print-expert/repair-service/internal/events"
	"github.com/print-expert/repair-service/internal/query"
	"github.com/print-expert/repair-service/internal/store"
	apperrors "github.com/print-expert/repair-service/pkg/util"
)

// Suggester produces a diagnostic suggestion; it never fails, only the
// text varies.
type Suggester interface {
	Suggest(ctx context.Context, printerModel, description string) string
}

// RepairService coordinates the repair ticket workflows.
type RepairService struct {
	store      *store.TicketStore
	diagnosis  Suggester
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RepairDependencies bundles collaborators for the repair service.
type RepairDependencies struct {
	Store      *store.TicketStore
	Diagnosis  Suggester
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewRepairService constructs the service.
func NewRepairService(deps RepairDependencies) *RepairService {
	return &RepairService{
		store:      deps.Store,
		diagnosis:  deps.Diagnosis,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateInput describes ticket creation payload.
type CreateInput struct {
	ClientID     string
	ClientName   string
	PrinterModel string
	SerialNumber string
	Description  string
	Analyze      bool
}

// Create registers a new repair ticket with status Pending. When Analyze
// is set the diagnostic collaborator is consulted and its suggestion is
// captured on the ticket; the suggestion is immutable afterwards.
//
// On a durable write failure the ticket is still returned alongside the
// error: the in-memory list holds it and the caller surfaces a warning.
func (s *RepairService) Create(ctx context.Context, input CreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.PrinterModel) == "" ||
		strings.TrimSpace(input.SerialNumber) == "" ||
		strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("printerModel, serialNumber, description required", nil)
	}

	now := domain.Now()
	ticket := domain.Ticket{
		ID:           generateRepairID(),
		ClientID:     input.ClientID,
		ClientName:   input.ClientName,
		PrinterModel: strings.TrimSpace(input.PrinterModel),
		SerialNumber: strings.TrimSpace(input.SerialNumber),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Analyze && s.diagnosis != nil {
		ticket.AISuggestion = s.diagnosis.Suggest(ctx, ticket.PrinterModel, ticket.Description)
	}

	_, err := s.store.Append(ctx, ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  input.ClientID,
		Payload: events.TicketCreatedPayload{
			ClientID:     ticket.ClientID,
			PrinterModel: ticket.PrinterModel,
			Status:       ticket.Status,
			HasAITip:     ticket.AISuggestion != "",
		},
	})
	if err != nil {
		return &ticket, apperrors.NewStorageWrite(err)
	}
	return &ticket, nil
}

// Analyze returns a diagnostic suggestion for the submission form.
func (s *RepairService) Analyze(ctx context.Context, printerModel, description string) (string, error) {
	if strings.TrimSpace(printerModel) == "" || strings.TrimSpace(description) == "" {
		return "", apperrors.NewValidationError("printerModel and description required", nil)
	}
	if s.diagnosis == nil {
		return "", apperrors.NewInternalError(nil)
	}
	return s.diagnosis.Suggest(ctx, printerModel, description), nil
}

// ChangeStatus moves a ticket through the lifecycle. Override is the admin
// escape hatch allowing any recognized status; without it the transition
// must follow the forward-biased lifecycle. UpdatedAt is refreshed; no
// other field changes.
func (s *RepairService) ChangeStatus(ctx context.Context, actorID, ticketID, rawStatus string, override bool) (*domain.Ticket, error) {
	newStatus, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewInvalidStatus(rawStatus)
	}
	ticket, ok := s.store.FindByID(ticketID)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	if !domain.CanTransition(ticket.Status, newStatus, override) {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	ticket.Touch()

	_, upsertErr := s.store.Upsert(ctx, ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Override:  override,
		},
	})
	if upsertErr != nil {
		return &ticket, apperrors.NewStorageWrite(upsertErr)
	}
	return &ticket, nil
}

// AddComment appends a comment to the ticket's comment trail.
func (s *RepairService) AddComment(ctx context.Context, actorID, ticketID, comment string) (*domain.Ticket, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperrors.NewValidationError("comment required", nil)
	}
	ticket, ok := s.store.FindByID(ticketID)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}

	ticket.Comments = append(ticket.Comments, comment)
	ticket.Touch()

	_, err := s.store.Upsert(ctx, ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketCommentAddedPayload{
			CommentPreview: stringPreview(comment, 120),
		},
	})
	if err != nil {
		return &ticket, apperrors.NewStorageWrite(err)
	}
	return &ticket, nil
}

// SetEstimatedCost records the admin cost estimate.
func (s *RepairService) SetEstimatedCost(ctx context.Context, ticketID string, cost float64) (*domain.Ticket, error) {
	if cost < 0 {
		return nil, apperrors.NewValidationError("estimatedCost must not be negative", nil)
	}
	ticket, ok := s.store.FindByID(ticketID)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}

	ticket.EstimatedCost = &cost
	ticket.Touch()

	_, err := s.store.Upsert(ctx, ticket)
	if err != nil {
		return &ticket, apperrors.NewStorageWrite(err)
	}
	return &ticket, nil
}

// List derives the admin view: filtered and sorted tickets.
func (s *RepairService) List(params query.Params) ([]domain.Ticket, error) {
	if params.Status != "" && params.Status != query.StatusAll {
		if _, err := domain.ParseStatus(params.Status); err != nil {
			return nil, apperrors.NewInvalidStatus(params.Status)
		}
	}
	if params.SortKey != "" && !query.ValidSortKey(params.SortKey) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown sort key %q", params.SortKey), nil)
	}
	if params.Direction != "" && !query.ValidDirection(params.Direction) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown sort direction %q", params.Direction), nil)
	}
	return query.Apply(s.store.Snapshot(), params), nil
}

// ListByClient returns the client's own tickets in store order.
func (s *RepairService) ListByClient(clientID string) []domain.Ticket {
	var result []domain.Ticket
	for _, t := range s.store.Snapshot() {
		if t.ClientID == clientID {
			result = append(result, t)
		}
	}
	return result
}

// Get returns a single ticket.
func (s *RepairService) Get(ticketID string) (*domain.Ticket, error) {
	ticket, ok := s.store.FindByID(ticketID)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	return &ticket, nil
}

// Stats summarizes the ticket list for the admin dashboard. Charting is
// external; this only produces the data series.
type Stats struct {
	Total        int            `json:"total"`
	Pending      int            `json:"pending"`
	Closed       int            `json:"closed"`
	StatusCounts map[string]int `json:"statusCounts"`
	Timeline     []DayCount     `json:"timeline"`
}

// DayCount is one point of the created-per-day series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats computes dashboard counters over the current list.
func (s *RepairService) Stats() Stats {
	tickets := s.store.Snapshot()
	stats := Stats{
		Total:        len(tickets),
		StatusCounts: make(map[string]int),
	}
	days := make(map[string]int)
	for _, t := range tickets {
		stats.StatusCounts[string(t.Status)]++
		switch t.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusCompleted, domain.StatusReady:
			stats.Closed++
		}
		if len(t.CreatedAt) >= 10 {
			days[t.CreatedAt[:10]]++
		}
	}
	for date, count := range days {
		stats.Timeline = append(stats.Timeline, DayCount{Date: date, Count: count})
	}
	sort.Slice(stats.Timeline, func(i, j int) bool {
		return stats.Timeline[i].Date < stats.Timeline[j].Date
	})
	return stats
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Imported int
	Dropped  []codec.ImportIssue
}

// ImportJSON replaces the full ticket list from a document. A document
// whose top level is not an array aborts the import with the store
// untouched; entries failing validation are dropped and reported.
func (s *RepairService) ImportJSON(ctx context.Context, actorID string, data []byte) (*ImportResult, error) {
	tickets, issues, err := codec.ImportJSON(data)
	if err != nil {
		return nil, apperrors.NewImportParse(err)
	}

	replaceErr := s.store.ReplaceAll(ctx, tickets)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketsImported,
		ActorID: actorID,
		Payload: events.TicketsImportedPayload{
			Imported: len(tickets),
			Dropped:  len(issues),
		},
	})
	result := &ImportResult{Imported: len(tickets), Dropped: issues}
	if replaceErr != nil {
		return result, apperrors.NewStorageWrite(replaceErr)
	}
	return result, nil
}

// ExportJSON serializes the full list, round-trip lossless.
func (s *RepairService) ExportJSON() ([]byte, error) {
	data, err := codec.ExportJSON(s.store.Snapshot())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return data, nil
}

// ExportCSV produces the flattened display table.
func (s *RepairService) ExportCSV() ([]byte, error) {
	data, err := codec.ExportCSV(s.store.Snapshot())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return data, nil
}

// generateRepairID builds a REP-#### identifier. The 4-digit suffix is not
// collision-free; ids are display handles, not storage keys.
func generateRepairID() string {
	return fmt.Sprintf("REP-%04d", 1000+rand.Intn(9000))
}

func (s *RepairService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
