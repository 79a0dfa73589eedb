package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpcenter-api/internal/domain"
	"github.com/spec-kit/helpcenter-api/internal/events"
	"github.com/spec-kit/helpcenter-api/internal/store"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

// TicketService coordinates the ticket lifecycle over the backing store.
type TicketService struct {
	store      store.TicketStore
	dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	RequestType      domain.RequestType
	Summary          string
	Description      string
	ExactChange      string
	AdditionalEmails string
	Priority         domain.TicketPriority
	Impact           string
	AttachmentLinks  string
}

// NewTicketService constructs the service.
func NewTicketService(ticketStore store.TicketStore, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{store: ticketStore, dispatcher: dispatcher}
}

// List returns all tickets from the backing store. An empty slice with a nil
// error means the store is reachable and empty; unreachable stores surface a
// STORE_UNAVAILABLE error instead.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.store.ListTickets(ctx)
}

// UpdateStatus applies a status transition. Any status may move to any other,
// including itself; a same-status transition is a valid no-op that still
// re-stamps ApprovedAt.
func (s *TicketService) UpdateStatus(ctx context.Context, input store.UpdateStatusInput) (*domain.Ticket, error) {
	if input.TicketID == "" {
		return nil, apperrors.NewInvalidInput("ticketId is required", nil)
	}
	if !domain.ValidStatus(input.Status) {
		return nil, apperrors.NewInvalidInput("invalid status value", map[string]any{"status": string(input.Status)})
	}

	ticket, err := s.store.UpdateTicketStatus(ctx, input)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.TicketID,
		Payload: events.TicketStatusChangedPayload{
			Status:           ticket.Status,
			ApprovedBy:       ticket.ApprovedBy,
			Remarks:          input.Remarks,
			AdditionalEmails: ticket.AdditionalEmails,
		},
	})
	return ticket, nil
}

// Create files a new ticket, assigning its id and timestamp and defaulting
// status to Open and priority to Medium.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if !domain.ValidRequestType(input.RequestType) {
		return nil, apperrors.NewInvalidInput("invalid requestType value", map[string]any{"requestType": string(input.RequestType)})
	}

	ticket := &domain.Ticket{
		TicketID:         generateTicketID(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		RequestType:      input.RequestType,
		Summary:          strings.TrimSpace(input.Summary),
		Description:      strings.TrimSpace(input.Description),
		ExactChange:      input.ExactChange,
		AdditionalEmails: input.AdditionalEmails,
		Priority:         input.Priority,
		Impact:           input.Impact,
		AttachmentLinks:  input.AttachmentLinks,
		Status:           domain.TicketStatusOpen,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(ticket.Priority) {
		return nil, apperrors.NewInvalidInput("invalid priority value", map[string]any{"priority": string(ticket.Priority)})
	}

	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.TicketID,
		Payload: events.TicketCreatedPayload{
			RequestType:      ticket.RequestType,
			Priority:         ticket.Priority,
			Summary:          ticket.Summary,
			AdditionalEmails: ticket.AdditionalEmails,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketID() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
