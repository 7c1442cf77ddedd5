package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/domain"
	"github.com/print-expert/repair-service/internal/storage"
)

// TicketStore holds the full ticket list in memory and mirrors it to a
// durable slot. Every mutation persists the entire list synchronously
// before returning. When the slot write fails the in-memory list stays
// authoritative for the session and the error is returned for the caller
// to surface.
type TicketStore struct {
	mu      sync.Mutex
	slot    storage.Slot
	key     string
	seed    []domain.Ticket
	logger  *zap.Logger
	tickets []domain.Ticket
}

// NewTicketStore constructs the store. Call Load before first use.
func NewTicketStore(slot storage.Slot, key string, seed []domain.Ticket, logger *zap.Logger) *TicketStore {
	return &TicketStore{
		slot:   slot,
		key:    key,
		seed:   seed,
		logger: logger,
	}
}

// Load initializes the in-memory list from the durable slot. A missing or
// unparsable slot falls back to the seed set; it never fails to the caller.
func (s *TicketStore) Load(ctx context.Context) []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.slot.Get(ctx, s.key)
	if err != nil {
		if err != storage.ErrSlotEmpty {
			s.logger.Warn("ticket slot unreadable, using seed data", zap.Error(err))
		} else {
			s.logger.Info("ticket slot empty, using seed data")
		}
		s.tickets = cloneTickets(s.seed)
		return cloneTickets(s.tickets)
	}

	var tickets []domain.Ticket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		s.logger.Warn("ticket slot corrupt, using seed data", zap.Error(err))
		s.tickets = cloneTickets(s.seed)
		return cloneTickets(s.tickets)
	}

	s.tickets = tickets
	return cloneTickets(s.tickets)
}

// Snapshot returns a copy of the current list.
func (s *TicketStore) Snapshot() []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTickets(s.tickets)
}

// FindByID returns a copy of the matching ticket.
func (s *TicketStore) FindByID(id string) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return s.tickets[i].Clone(), true
		}
	}
	return domain.Ticket{}, false
}

// ReplaceAll overwrites the in-memory list and the durable slot. Used by
// bulk import; the caller produces the complete new list first.
func (s *TicketStore) ReplaceAll(ctx context.Context, tickets []domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = cloneTickets(tickets)
	return s.persistLocked(ctx)
}

// Upsert replaces the entry whose id matches, leaving order and all other
// entries unchanged. An unknown id is a no-op with a warning.
func (s *TicketStore) Upsert(ctx context.Context, ticket domain.Ticket) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.tickets {
		if s.tickets[i].ID == ticket.ID {
			s.tickets[i] = ticket.Clone()
			found = true
			break
		}
	}
	if !found {
		s.logger.Warn("upsert for unknown ticket id ignored", zap.String("ticket_id", ticket.ID))
		return cloneTickets(s.tickets), nil
	}
	err := s.persistLocked(ctx)
	return cloneTickets(s.tickets), err
}

// Append inserts a newly created ticket at the head of the list; the
// display convention is most-recent-first.
func (s *TicketStore) Append(ctx context.Context, ticket domain.Ticket) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = append([]domain.Ticket{ticket.Clone()}, s.tickets...)
	err := s.persistLocked(ctx)
	return cloneTickets(s.tickets), err
}

func (s *TicketStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.tickets)
	if err != nil {
		return fmt.Errorf("marshal tickets: %w", err)
	}
	if err := s.slot.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("ticket slot write failed, in-memory state retained", zap.Error(err))
		return fmt.Errorf("persist tickets: %w", err)
	}
	return nil
}

func cloneTickets(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, len(tickets))
	for i := range tickets {
		out[i] = tickets[i].Clone()
	}
	return out
}
