package codec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/print-expert/repair-service/internal/domain"
)

func sampleTickets() []domain.Ticket {
	cost := 150.0
	return []domain.Ticket{
		{
			ID:            "REP-001",
			ClientID:      "u1",
			ClientName:    "Jan Kowalski",
			PrinterModel:  "HP LaserJet Pro M404dw",
			SerialNumber:  "CNB1J2K3L4",
			Description:   "Paper jams when printing duplex.",
			Status:        domain.StatusRepairing,
			CreatedAt:     "2024-05-10T10:00:00Z",
			UpdatedAt:     "2024-05-12T14:30:00Z",
			EstimatedCost: &cost,
			Comments:      []string{"Rollers ordered."},
			AISuggestion:  "Likely worn pickup rollers.",
		},
		{
			ID:           "REP-002",
			ClientID:     "u2",
			PrinterModel: "Epson EcoTank L3250",
			SerialNumber: "X7Y8Z9W0V1",
			Description:  "White bands on printouts.",
			Status:       domain.StatusReady,
			CreatedAt:    "2024-05-15T09:15:00Z",
			UpdatedAt:    "2024-05-16T11:00:00Z",
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := sampleTickets()
	data, err := ExportJSON(original)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	imported, issues, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("round trip produced issues: %v", issues)
	}
	if !reflect.DeepEqual(imported, original) {
		t.Errorf("round trip not lossless:\n got %+v\nwant %+v", imported, original)
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	for _, doc := range []string{`{"id":"REP-001"}`, `"text"`, `42`, `null`, ` null `, `not json`} {
		if _, _, err := ImportJSON([]byte(doc)); err == nil {
			t.Errorf("ImportJSON(%s) accepted a non-array document", doc)
		}
	}
}

func TestImportDropsInvalidEntries(t *testing.T) {
	doc := `[
		{"id":"REP-010","clientId":"u1","printerModel":"HP","serialNumber":"S","description":"d","status":"Pending","createdAt":"2024-05-01T00:00:00Z","updatedAt":"2024-05-01T00:00:00Z"},
		{"id":"REP-011","status":"Exploded"},
		{"status":"Pending"},
		"not an object"
	]`
	tickets, issues, err := ImportJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "REP-010" {
		t.Errorf("expected only REP-010 to survive, got %+v", tickets)
	}
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
	if issues[0].ID != "REP-011" || !strings.Contains(issues[0].Reason, "Exploded") {
		t.Errorf("invalid status issue = %+v", issues[0])
	}
	if issues[1].Reason != "missing id" {
		t.Errorf("missing id issue = %+v", issues[1])
	}
	if issues[2].Reason != "malformed entry" {
		t.Errorf("malformed entry issue = %+v", issues[2])
	}
}

func TestExportCSV(t *testing.T) {
	data, err := ExportCSV(sampleTickets())
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "ID,Client,Model,Serial,Status,Date" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "REP-001,Jan Kowalski,HP LaserJet Pro M404dw,CNB1J2K3L4,Repairing,2024-05-10" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Client falls back to clientId when the name snapshot is absent.
	if !strings.HasPrefix(lines[2], "REP-002,u2,") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestExportFileName(t *testing.T) {
	name := ExportFileName("json")
	if !strings.HasPrefix(name, "print_expert_export_") || !strings.HasSuffix(name, ".json") {
		t.Errorf("unexpected filename %q", name)
	}
}
