package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/print-expert/repair-service/internal/api/dto"
	"github.com/print-expert/repair-service/internal/auth"
	"github.com/print-expert/repair-service/internal/domain"
	"github.com/print-expert/repair-service/internal/query"
	"github.com/print-expert/repair-service/internal/service"
	apperrors "github.com/print-expert/repair-service/pkg/util"
)

// RepairsHandler manages repair ticket endpoints.
type RepairsHandler struct {
	service *service.RepairService
}

// NewRepairsHandler constructs handler.
func NewRepairsHandler(repairService *service.RepairService) *RepairsHandler {
	return &RepairsHandler{service: repairService}
}

// Create POST /repairs.
func (h *RepairsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateRepairRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), service.CreateInput{
		ClientID:     user.ID,
		ClientName:   user.Name,
		PrinterModel: req.PrinterModel,
		SerialNumber: req.SerialNumber,
		Description:  req.Description,
		Analyze:      req.Analyze,
	})
	if err != nil {
		if warning, ok := storageWarning(err); ok && ticket != nil {
			return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket, "warning": warning})
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// Analyze POST /repairs/analyze.
func (h *RepairsHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	suggestion, err := h.service.Analyze(c.UserContext(), req.PrinterModel, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnalyzeResponse{Suggestion: suggestion}})
}

// List GET /repairs.
func (h *RepairsHandler) List(c *fiber.Ctx) error {
	params := query.Params{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		SortKey:   query.SortKey(c.Query("sort")),
		Direction: query.Direction(c.Query("dir", string(query.Ascending))),
	}
	tickets, err := h.service.List(params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// Mine GET /repairs/mine.
func (h *RepairsHandler) Mine(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets := h.service.ListByClient(user.ID)
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// Get GET /repairs/:id. Admins see every ticket; clients only their own.
func (h *RepairsHandler) Get(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.Get(c.Params("id"))
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin && ticket.ClientID != user.ID {
		return apperrors.NewForbidden("access denied")
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// UpdateStatus PATCH /repairs/:id/status.
func (h *RepairsHandler) UpdateStatus(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), user.ID, c.Params("id"), req.Status, req.Override)
	if err != nil {
		if warning, ok := storageWarning(err); ok && ticket != nil {
			return c.JSON(fiber.Map{"data": ticket, "warning": warning})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// AddComment POST /repairs/:id/comments.
func (h *RepairsHandler) AddComment(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AddComment(c.UserContext(), user.ID, c.Params("id"), req.Comment)
	if err != nil {
		if warning, ok := storageWarning(err); ok && ticket != nil {
			return c.JSON(fiber.Map{"data": ticket, "warning": warning})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// UpdateCost PATCH /repairs/:id/cost.
func (h *RepairsHandler) UpdateCost(c *fiber.Ctx) error {
	var req dto.UpdateCostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.SetEstimatedCost(c.UserContext(), c.Params("id"), req.EstimatedCost)
	if err != nil {
		if warning, ok := storageWarning(err); ok && ticket != nil {
			return c.JSON(fiber.Map{"data": ticket, "warning": warning})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Stats GET /repairs/stats.
func (h *RepairsHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Stats()})
}

// storageWarning extracts the user-visible warning for a durable write
// failure; the mutation itself has succeeded in memory.
func storageWarning(err error) (string, bool) {
	domainErr := apperrors.ToDomainError(err)
	if domainErr != nil && domainErr.Code == "STORAGE_WRITE" {
		return domainErr.Message, true
	}
	return "", false
}
