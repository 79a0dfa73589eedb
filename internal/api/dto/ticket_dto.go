package dto

import (
	"github.com/spec-kit/helpcenter-api/internal/domain"
)

// TicketsResponse is the list envelope. Error responses still carry an empty
// tickets array so callers distinguish "store empty" from "store down" by
// the success flag, never by array length.
type TicketsResponse struct {
	Success bool            `json:"success"`
	Tickets []domain.Ticket `json:"tickets"`
	Error   string          `json:"error,omitempty"`
}

// UpdateTicketRequest is the PATCH payload.
type UpdateTicketRequest struct {
	TicketID   string              `json:"ticketId"`
	Status     domain.TicketStatus `json:"status"`
	ApprovedBy string              `json:"approvedBy,omitempty"`
	Remarks    string              `json:"remarks,omitempty"`
}

// UpdateTicketResponse is the PATCH envelope.
type UpdateTicketResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Ticket  *domain.Ticket `json:"ticket,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// CreateTicketRequest is the POST payload. TicketID, timestamp and status
// are assigned server-side.
type CreateTicketRequest struct {
	RequestType      domain.RequestType    `json:"requestType"`
	Summary          string                `json:"summary"`
	Description      string                `json:"description"`
	ExactChange      string                `json:"exactChange,omitempty"`
	AdditionalEmails string                `json:"additionalEmails,omitempty"`
	Priority         domain.TicketPriority `json:"priority,omitempty"`
	Impact           string                `json:"impact,omitempty"`
	AttachmentLinks  string                `json:"attachmentLinks,omitempty"`
}

// CreateTicketResponse is the POST envelope.
type CreateTicketResponse struct {
	Success bool           `json:"success"`
	Ticket  *domain.Ticket `json:"ticket,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ErrorResponse is the generic failure envelope produced by the error
// middleware for non-list operations.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
