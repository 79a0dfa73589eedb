package events

import (
	"time"

	"github.com/spec-kit/helpcenter-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload describes a newly filed ticket.
type TicketCreatedPayload struct {
	RequestType      domain.RequestType    `json:"request_type"`
	Priority         domain.TicketPriority `json:"priority"`
	Summary          string                `json:"summary"`
	AdditionalEmails string                `json:"additional_emails,omitempty"`
}

// TicketStatusChangedPayload describes a status transition. The sheet backend
// does not report the previous status, so only the resulting state is carried.
type TicketStatusChangedPayload struct {
	Status           domain.TicketStatus `json:"status"`
	ApprovedBy       string              `json:"approved_by,omitempty"`
	Remarks          string              `json:"remarks,omitempty"`
	AdditionalEmails string              `json:"additional_emails,omitempty"`
}
