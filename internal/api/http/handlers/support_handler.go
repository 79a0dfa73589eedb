package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/api/dto"
	"github.com/spec-kit/helpcenter-api/internal/domain"
	"github.com/spec-kit/helpcenter-api/internal/service"
	"github.com/spec-kit/helpcenter-api/internal/store"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

// SupportHandler serves the admin support endpoints.
type SupportHandler struct {
	service   *service.TicketService
	logger    *zap.Logger
	adminName string
}

// NewSupportHandler constructs the handler. adminName is the placeholder
// identity stamped as approver when a PATCH omits approvedBy.
func NewSupportHandler(ticketService *service.TicketService, logger *zap.Logger, adminName string) *SupportHandler {
	return &SupportHandler{service: ticketService, logger: logger, adminName: adminName}
}

// ListTickets GET /api/admin/support.
//
// The list envelope always carries a tickets array, even on failure, so it is
// built here rather than left to the error middleware.
func (h *SupportHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.List(c.UserContext())
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		h.logger.Error("failed to list tickets", zap.Error(domainErr))
		return c.Status(domainErr.HTTPStatus).JSON(dto.TicketsResponse{
			Success: false,
			Tickets: []domain.Ticket{},
			Error:   domainErr.Message,
		})
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return c.JSON(dto.TicketsResponse{Success: true, Tickets: tickets})
}

// UpdateTicket PATCH /api/admin/support.
func (h *SupportHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}

	missing := map[string]any{}
	if req.TicketID == "" {
		missing["ticketId"] = "required"
	}
	if req.Status == "" {
		missing["status"] = "required"
	}
	if len(missing) > 0 {
		return apperrors.NewInvalidInput("ticketId and status are required", missing)
	}

	approvedBy := req.ApprovedBy
	if approvedBy == "" {
		approvedBy = h.adminName
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), store.UpdateStatusInput{
		TicketID:   req.TicketID,
		Status:     req.Status,
		ApprovedBy: approvedBy,
		Remarks:    req.Remarks,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.UpdateTicketResponse{
		Success: true,
		Message: "Ticket updated successfully",
		Ticket:  ticket,
	})
}

// CreateTicket POST /api/admin/support.
func (h *SupportHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.RequestType == "" || req.Summary == "" || req.Description == "" {
		return apperrors.NewInvalidInput("requestType, summary and description are required", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), service.TicketCreateInput{
		RequestType:      req.RequestType,
		Summary:          req.Summary,
		Description:      req.Description,
		ExactChange:      req.ExactChange,
		AdditionalEmails: req.AdditionalEmails,
		Priority:         req.Priority,
		Impact:           req.Impact,
		AttachmentLinks:  req.AttachmentLinks,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateTicketResponse{
		Success: true,
		Ticket:  ticket,
	})
}
