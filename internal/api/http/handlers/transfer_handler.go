package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/print-expert/repair-service/internal/api/dto"
	"github.com/print-expert/repair-service/internal/auth"
	"github.com/print-expert/repair-service/internal/codec"
	"github.com/print-expert/repair-service/internal/service"
	apperrors "github.com/print-expert/repair-service/pkg/util"
)

// TransferHandler serves bulk export and import of the ticket list.
type TransferHandler struct {
	service *service.RepairService
}

// NewTransferHandler constructs handler.
func NewTransferHandler(repairService *service.RepairService) *TransferHandler {
	return &TransferHandler{service: repairService}
}

// ExportJSON GET /repairs/export/json.
func (h *TransferHandler) ExportJSON(c *fiber.Ctx) error {
	data, err := h.service.ExportJSON()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", codec.ExportFileName("json")))
	return c.Send(data)
}

// ExportCSV GET /repairs/export/csv.
func (h *TransferHandler) ExportCSV(c *fiber.Ctx) error {
	data, err := h.service.ExportCSV()
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", codec.ExportFileName("csv")))
	return c.Send(data)
}

// Import POST /repairs/import. The body is the raw JSON document; a
// non-array top level leaves the store untouched.
func (h *TransferHandler) Import(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	result, err := h.service.ImportJSON(c.UserContext(), user.ID, c.Body())
	if err != nil {
		if warning, ok := storageWarning(err); ok && result != nil {
			return c.JSON(fiber.Map{
				"data":    dto.ImportResponse{Imported: result.Imported, Dropped: result.Dropped},
				"warning": warning,
			})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ImportResponse{Imported: result.Imported, Dropped: result.Dropped}})
}
