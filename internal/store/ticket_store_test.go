package store

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/domain"
	"github.com/print-expert/repair-service/internal/storage"
)

const slotKey = "repairs_test"

func newStore(t *testing.T, slot storage.Slot) *TicketStore {
	t.Helper()
	return NewTicketStore(slot, slotKey, SeedTickets(), zap.NewNop())
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, len(tickets))
	for i, ticket := range tickets {
		out[i] = ticket.ID
	}
	return out
}

func TestLoadEmptySlotFallsBackToSeed(t *testing.T) {
	s := newStore(t, storage.NewMemorySlot())
	tickets := s.Load(context.Background())
	if !reflect.DeepEqual(ids(tickets), []string{"REP-001", "REP-002"}) {
		t.Errorf("seed fallback = %v", ids(tickets))
	}
}

func TestLoadCorruptSlotFallsBackToSeed(t *testing.T) {
	slot := storage.NewMemorySlot()
	if err := slot.Set(context.Background(), slotKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	s := newStore(t, slot)
	tickets := s.Load(context.Background())
	if len(tickets) != len(SeedTickets()) {
		t.Errorf("corrupt slot should fall back to seed, got %v", ids(tickets))
	}
}

func TestAppendInsertsAtHeadAndPersists(t *testing.T) {
	slot := storage.NewMemorySlot()
	s := newStore(t, slot)
	ctx := context.Background()
	s.Load(ctx)

	ticket := domain.Ticket{ID: "REP-100", Status: domain.StatusPending, CreatedAt: domain.Now(), UpdatedAt: domain.Now()}
	tickets, err := s.Append(ctx, ticket)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if tickets[0].ID != "REP-100" {
		t.Errorf("new ticket not at head: %v", ids(tickets))
	}

	// The durable slot must deserialize to exactly the in-memory list.
	raw, err := slot.Get(ctx, slotKey)
	if err != nil {
		t.Fatalf("slot.Get: %v", err)
	}
	var persisted []domain.Ticket
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("unmarshal persisted: %v", err)
	}
	if !reflect.DeepEqual(persisted, s.Snapshot()) {
		t.Error("durable slot diverged from in-memory list")
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	s := newStore(t, storage.NewMemorySlot())
	ctx := context.Background()
	s.Load(ctx)

	updated, ok := s.FindByID("REP-001")
	if !ok {
		t.Fatal("REP-001 missing from seed")
	}
	updated.Status = domain.StatusCompleted
	tickets, err := s.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if !reflect.DeepEqual(ids(tickets), []string{"REP-001", "REP-002"}) {
		t.Errorf("upsert changed ordering: %v", ids(tickets))
	}
	if tickets[0].Status != domain.StatusCompleted {
		t.Errorf("status not updated: %v", tickets[0].Status)
	}
	// Other entries untouched.
	if tickets[1].Status != domain.StatusReady {
		t.Errorf("unrelated ticket mutated: %v", tickets[1].Status)
	}
}

func TestUpsertUnknownIDIsNoOp(t *testing.T) {
	s := newStore(t, storage.NewMemorySlot())
	ctx := context.Background()
	before := s.Load(ctx)

	tickets, err := s.Upsert(ctx, domain.Ticket{ID: "REP-999"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !reflect.DeepEqual(tickets, before) {
		t.Error("upsert of unknown id modified the list")
	}
}

func TestReplaceAll(t *testing.T) {
	slot := storage.NewMemorySlot()
	s := newStore(t, slot)
	ctx := context.Background()
	s.Load(ctx)

	replacement := []domain.Ticket{{ID: "REP-500", Status: domain.StatusPending}}
	if err := s.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if !reflect.DeepEqual(ids(s.Snapshot()), []string{"REP-500"}) {
		t.Errorf("ReplaceAll result = %v", ids(s.Snapshot()))
	}
}

// failingSlot accepts reads but rejects writes.
type failingSlot struct {
	*storage.MemorySlot
}

func (f *failingSlot) Set(ctx context.Context, key, value string) error {
	return errors.New("quota exceeded")
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	slot := &failingSlot{MemorySlot: storage.NewMemorySlot()}
	s := newStore(t, slot)
	ctx := context.Background()
	s.Load(ctx)

	ticket := domain.Ticket{ID: "REP-700", Status: domain.StatusPending}
	tickets, err := s.Append(ctx, ticket)
	if err == nil {
		t.Fatal("expected write error")
	}
	if tickets[0].ID != "REP-700" {
		t.Error("failed write must still apply in memory")
	}
	if s.Snapshot()[0].ID != "REP-700" {
		t.Error("in-memory state lost after failed write")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newStore(t, storage.NewMemorySlot())
	s.Load(context.Background())

	snapshot := s.Snapshot()
	snapshot[0].Status = domain.StatusCancelled
	if s.Snapshot()[0].Status == domain.StatusCancelled {
		t.Error("Snapshot leaks internal state")
	}
}
