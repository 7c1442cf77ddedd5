package store

import "github.com/print-expert/repair-service/internal/domain"

// SeedTickets is the default ticket set used when the durable slot holds
// no data yet.
func SeedTickets() []domain.Ticket {
	cost1 := 150.0
	cost2 := 80.0
	return []domain.Ticket{
		{
			ID:            "REP-001",
			ClientID:      "u1",
			ClientName:    "Jan Kowalski",
			PrinterModel:  "HP LaserJet Pro M404dw",
			SerialNumber:  "CNB1J2K3L4",
			Description:   "Paper jams in the lower tray when printing duplex.",
			Status:        domain.StatusRepairing,
			CreatedAt:     "2024-05-10T10:00:00Z",
			UpdatedAt:     "2024-05-12T14:30:00Z",
			EstimatedCost: &cost1,
			Comments: []string{
				"Pickup rollers ordered.",
				"Waiting for parts.",
			},
		},
		{
			ID:            "REP-002",
			ClientID:      "u1",
			ClientName:    "Jan Kowalski",
			PrinterModel:  "Epson EcoTank L3250",
			SerialNumber:  "X7Y8Z9W0V1",
			Description:   "White bands on printouts, head cleaning from the menu does not help.",
			Status:        domain.StatusReady,
			CreatedAt:     "2024-05-15T09:15:00Z",
			UpdatedAt:     "2024-05-16T11:00:00Z",
			EstimatedCost: &cost2,
			Comments: []string{
				"Performed pressurized head flush.",
				"Nozzle check passed.",
			},
		},
	}
}
