package dto

import "github.com/print-expert/repair-service/internal/codec"

// CreateRepairRequest payload. Analyze asks the diagnostic collaborator
// for a suggestion captured on the new ticket.
type CreateRepairRequest struct {
	PrinterModel string `json:"printerModel"`
	SerialNumber string `json:"serialNumber"`
	Description  string `json:"description"`
	Analyze      bool   `json:"analyze"`
}

// AnalyzeRequest payload.
type AnalyzeRequest struct {
	PrinterModel string `json:"printerModel"`
	Description  string `json:"description"`
}

// AnalyzeResponse carries the diagnostic suggestion.
type AnalyzeResponse struct {
	Suggestion string `json:"suggestion"`
}

// UpdateStatusRequest payload. Override is the admin escape hatch for
// transitions outside the forward lifecycle.
type UpdateStatusRequest struct {
	Status   string `json:"status"`
	Override bool   `json:"override"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// UpdateCostRequest payload.
type UpdateCostRequest struct {
	EstimatedCost float64 `json:"estimatedCost"`
}

// ImportResponse reports the bulk import outcome.
type ImportResponse struct {
	Imported int                 `json:"imported"`
	Dropped  []codec.ImportIssue `json:"dropped,omitempty"`
}
