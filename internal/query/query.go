// Package query derives filtered and sorted views of the ticket list for
// the admin listing. Everything here is a pure function of its inputs.
package query

import (
	"sort"
	"strings"

	"github.com/print-expert/repair-service/internal/domain"
)

// SortKey enumerates sortable ticket fields.
type SortKey string

const (
	SortByID           SortKey = "id"
	SortByClientName   SortKey = "clientName"
	SortByPrinterModel SortKey = "printerModel"
	SortByStatus       SortKey = "status"
	SortByCreatedAt    SortKey = "createdAt"
)

// Direction controls sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Params captures the admin list view inputs.
type Params struct {
	Search    string
	Status    string
	SortKey   SortKey
	Direction Direction
}

// ValidSortKey reports whether key is one of the sortable fields.
func ValidSortKey(key SortKey) bool {
	switch key {
	case SortByID, SortByClientName, SortByPrinterModel, SortByStatus, SortByCreatedAt:
		return true
	}
	return false
}

// ValidDirection reports whether d is a recognized sort order.
func ValidDirection(d Direction) bool {
	return d == Ascending || d == Descending
}

// Apply filters and sorts tickets without mutating the input. With an empty
// search, status "all" and no sort key, the result is the input list in its
// original order.
func Apply(tickets []domain.Ticket, p Params) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if Matches(t, p.Search, p.Status) {
			result = append(result, t)
		}
	}

	if p.SortKey != "" {
		direction := 1
		if p.Direction == Descending {
			direction = -1
		}
		sort.SliceStable(result, func(i, j int) bool {
			a := fieldValue(result[i], p.SortKey)
			b := fieldValue(result[j], p.SortKey)
			return strings.Compare(a, b)*direction < 0
		})
	}

	return result
}

// Matches reports whether a ticket satisfies the free-text query and the
// status filter. The search is a case-insensitive substring match over
// printer model, id, and client name; an absent client name never matches
// and never errors.
func Matches(t domain.Ticket, search, status string) bool {
	if status != "" && status != StatusAll && string(t.Status) != status {
		return false
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(t.PrinterModel), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(t.ID), needle) {
		return true
	}
	if t.ClientName != "" && strings.Contains(strings.ToLower(t.ClientName), needle) {
		return true
	}
	return false
}

// fieldValue extracts the comparable value for a sort key. Missing
// optional fields compare as the empty string.
func fieldValue(t domain.Ticket, key SortKey) string {
	switch key {
	case SortByID:
		return t.ID
	case SortByClientName:
		return t.ClientName
	case SortByPrinterModel:
		return t.PrinterModel
	case SortByStatus:
		return string(t.Status)
	case SortByCreatedAt:
		return t.CreatedAt
	}
	return ""
}
