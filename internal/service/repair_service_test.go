package service

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/domain"
	"github.com/print-expert/repair-service/internal/query"
	"github.com/print-expert/repair-service/internal/storage"
	"github.com/print-expert/repair-service/internal/store"
	apperrors "github.com/print-expert/repair-service/pkg/util"
)

type fakeSuggester struct {
	suggestion string
	called     bool
}

func (f *fakeSuggester) Suggest(ctx context.Context, printerModel, description string) string {
	f.called = true
	return f.suggestion
}

func newService(t *testing.T, suggester Suggester) (*RepairService, *store.TicketStore) {
	t.Helper()
	ticketStore := store.NewTicketStore(storage.NewMemorySlot(), "repairs", store.SeedTickets(), zap.NewNop())
	ticketStore.Load(context.Background())
	svc := NewRepairService(RepairDependencies{
		Store:     ticketStore,
		Diagnosis: suggester,
		Logger:    zap.NewNop(),
	})
	return svc, ticketStore
}

func TestCreateInvariants(t *testing.T) {
	svc, _ := newService(t, &fakeSuggester{suggestion: "Check the fuser unit."})

	ticket, err := svc.Create(context.Background(), CreateInput{
		ClientID:     "u1",
		ClientName:   "Jan Kowalski",
		PrinterModel: "Canon PIXMA G3420",
		SerialNumber: "SN123",
		Description:  "Does not power on.",
		Analyze:      true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(ticket.ID, "REP-") || len(ticket.ID) != 8 {
		t.Errorf("id = %q, want REP-#### shape", ticket.ID)
	}
	if ticket.Status != domain.StatusPending {
		t.Errorf("status = %v, want Pending", ticket.Status)
	}
	if ticket.CreatedAt != ticket.UpdatedAt {
		t.Errorf("createdAt %q != updatedAt %q at creation", ticket.CreatedAt, ticket.UpdatedAt)
	}
	if ticket.AISuggestion != "Check the fuser unit." {
		t.Errorf("aiSuggestion = %q", ticket.AISuggestion)
	}
}

func TestCreateWithoutAnalyzeSkipsCollaborator(t *testing.T) {
	suggester := &fakeSuggester{suggestion: "unused"}
	svc, _ := newService(t, suggester)

	ticket, err := svc.Create(context.Background(), CreateInput{
		ClientID:     "u1",
		PrinterModel: "Canon PIXMA G3420",
		SerialNumber: "SN123",
		Description:  "Does not power on.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if suggester.called {
		t.Error("collaborator consulted without analyze flag")
	}
	if ticket.AISuggestion != "" {
		t.Errorf("unexpected suggestion %q", ticket.AISuggestion)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.Create(context.Background(), CreateInput{ClientID: "u1", PrinterModel: "HP"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.ToDomainError(err).Code != "VALIDATION_FAILED" {
		t.Errorf("code = %s", apperrors.ToDomainError(err).Code)
	}
}

func TestChangeStatusRefreshesUpdatedAt(t *testing.T) {
	svc, ticketStore := newService(t, nil)

	before, _ := ticketStore.FindByID("REP-002")
	// Seed: REP-002 is Ready, updated in 2024.
	ticket, err := svc.ChangeStatus(context.Background(), "admin", "REP-002", "Completed", false)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if ticket.Status != domain.StatusCompleted {
		t.Errorf("status = %v", ticket.Status)
	}
	if !(ticket.UpdatedAt > before.UpdatedAt) {
		t.Errorf("updatedAt %q not after %q", ticket.UpdatedAt, before.UpdatedAt)
	}
	if ticket.CreatedAt != before.CreatedAt {
		t.Error("createdAt must be immutable")
	}

	// Unrelated tickets untouched.
	other, _ := ticketStore.FindByID("REP-001")
	if other.Status != domain.StatusRepairing {
		t.Errorf("REP-001 mutated: %v", other.Status)
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.ChangeStatus(context.Background(), "admin", "REP-001", "Exploded", false)
	if err == nil {
		t.Fatal("expected invalid status error")
	}
	if apperrors.ToDomainError(err).Code != "INVALID_STATUS" {
		t.Errorf("code = %s", apperrors.ToDomainError(err).Code)
	}
}

func TestChangeStatusEnforcesLifecycle(t *testing.T) {
	svc, _ := newService(t, nil)

	// Ready -> Pending is backward; denied without override.
	if _, err := svc.ChangeStatus(context.Background(), "admin", "REP-002", "Pending", false); err == nil {
		t.Fatal("expected invalid transition error")
	}

	// The override escape hatch allows it.
	ticket, err := svc.ChangeStatus(context.Background(), "admin", "REP-002", "Pending", true)
	if err != nil {
		t.Fatalf("override ChangeStatus: %v", err)
	}
	if ticket.Status != domain.StatusPending {
		t.Errorf("status = %v", ticket.Status)
	}
}

func TestChangeStatusUnknownTicket(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.ChangeStatus(context.Background(), "admin", "REP-999", "Diagnosing", false)
	if apperrors.ToDomainError(err).Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	svc, _ := newService(t, nil)
	ticket, err := svc.AddComment(context.Background(), "admin", "REP-001", "Parts arrived.")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if ticket.Comments[len(ticket.Comments)-1] != "Parts arrived." {
		t.Errorf("comments = %v", ticket.Comments)
	}
}

func TestSetEstimatedCost(t *testing.T) {
	svc, _ := newService(t, nil)
	ticket, err := svc.SetEstimatedCost(context.Background(), "REP-001", 210)
	if err != nil {
		t.Fatalf("SetEstimatedCost: %v", err)
	}
	if ticket.EstimatedCost == nil || *ticket.EstimatedCost != 210 {
		t.Errorf("estimatedCost = %v", ticket.EstimatedCost)
	}
	if _, err := svc.SetEstimatedCost(context.Background(), "REP-001", -5); err == nil {
		t.Error("negative cost accepted")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newService(t, nil)
	tickets, err := svc.List(query.Params{Status: "Ready"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "REP-002" {
		t.Errorf("List Ready = %+v", tickets)
	}
}

func TestListRejectsUnknownStatusAndSortKey(t *testing.T) {
	svc, _ := newService(t, nil)
	if _, err := svc.List(query.Params{Status: "Broken"}); err == nil {
		t.Error("unknown status filter accepted")
	}
	if _, err := svc.List(query.Params{SortKey: "serialNumber"}); err == nil {
		t.Error("unknown sort key accepted")
	}
	if _, err := svc.List(query.Params{SortKey: query.SortByID, Direction: "down"}); err == nil {
		t.Error("unknown sort direction accepted")
	}
}

func TestImportNonArrayLeavesStoreUntouched(t *testing.T) {
	svc, ticketStore := newService(t, nil)
	before := ticketStore.Snapshot()

	for _, doc := range []string{`{"id":"REP-001"}`, `null`} {
		_, err := svc.ImportJSON(context.Background(), "admin", []byte(doc))
		if err == nil {
			t.Fatalf("ImportJSON(%s): expected import parse error", doc)
		}
		if apperrors.ToDomainError(err).Code != "IMPORT_PARSE" {
			t.Errorf("ImportJSON(%s) code = %s", doc, apperrors.ToDomainError(err).Code)
		}
		if !reflect.DeepEqual(ticketStore.Snapshot(), before) {
			t.Errorf("failed import of %s modified the store", doc)
		}
	}
}

func TestImportReplacesList(t *testing.T) {
	svc, ticketStore := newService(t, nil)
	doc := `[
		{"id":"REP-300","clientId":"u9","printerModel":"HP","serialNumber":"S","description":"d","status":"Pending","createdAt":"2024-06-01T00:00:00Z","updatedAt":"2024-06-01T00:00:00Z"},
		{"id":"REP-301","status":"Nonsense"}
	]`
	result, err := svc.ImportJSON(context.Background(), "admin", []byte(doc))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if result.Imported != 1 || len(result.Dropped) != 1 {
		t.Errorf("result = %+v", result)
	}
	tickets := ticketStore.Snapshot()
	if len(tickets) != 1 || tickets[0].ID != "REP-300" {
		t.Errorf("store after import = %+v", tickets)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, ticketStore := newService(t, nil)
	before := ticketStore.Snapshot()

	data, err := svc.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if _, err := svc.ImportJSON(context.Background(), "admin", data); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !reflect.DeepEqual(ticketStore.Snapshot(), before) {
		t.Error("export then import is not lossless")
	}
}

func TestStats(t *testing.T) {
	svc, _ := newService(t, nil)
	stats := svc.Stats()
	if stats.Total != 2 {
		t.Errorf("total = %d", stats.Total)
	}
	// Seed: one Repairing, one Ready. Ready counts as closed.
	if stats.Closed != 1 || stats.Pending != 0 {
		t.Errorf("closed = %d pending = %d", stats.Closed, stats.Pending)
	}
	if stats.StatusCounts["Repairing"] != 1 || stats.StatusCounts["Ready"] != 1 {
		t.Errorf("statusCounts = %v", stats.StatusCounts)
	}
	if len(stats.Timeline) != 2 || stats.Timeline[0].Date != "2024-05-10" {
		t.Errorf("timeline = %v", stats.Timeline)
	}
}

func TestListByClient(t *testing.T) {
	svc, _ := newService(t, nil)
	if got := svc.ListByClient("u1"); len(got) != 2 {
		t.Errorf("u1 tickets = %d", len(got))
	}
	if got := svc.ListByClient("nobody"); len(got) != 0 {
		t.Errorf("unexpected tickets for unknown client: %d", len(got))
	}
}
