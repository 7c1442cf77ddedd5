package codec

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/print-expert/repair-service/internal/domain"
)

// ExportCSV produces the flattened display table: one row per ticket under
// a fixed header. It drops description, comments, cost and the AI
// suggestion; this is a display convenience, not a backup format.
func ExportCSV(tickets []domain.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Client", "Model", "Serial", "Status", "Date"}); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		client := t.ClientName
		if client == "" {
			client = t.ClientID
		}
		row := []string{t.ID, client, t.PrinterModel, t.SerialNumber, string(t.Status), displayDate(t.CreatedAt)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func displayDate(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("2006-01-02")
}
