package store

import (
	"context"
	"time"

	"github.com/spec-kit/helpcenter-api/internal/domain"
)

// UpdateStatusInput carries a status transition request. ApprovedBy is
// optional; when empty the store leaves the previous approver in place.
type UpdateStatusInput struct {
	TicketID   string
	Status     domain.TicketStatus
	ApprovedBy string
	Remarks    string
}

// TicketStore abstracts the ticket backing store. Implementations must signal
// an unreachable or malformed backend with a STORE_UNAVAILABLE error, never
// by returning an empty list as success, so callers can tell "store empty"
// from "store down". Every successful status update stamps ApprovedAt with
// the transition time, including same-status no-op transitions.
type TicketStore interface {
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	UpdateTicketStatus(ctx context.Context, input UpdateStatusInput) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
}

// timestampLayout matches the millisecond ISO-8601 format the submission
// forms write into the sheet.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
