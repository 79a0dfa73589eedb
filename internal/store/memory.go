package store

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/helpcenter-api/internal/domain"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

// MemoryStore is an in-memory ticket store used for development and tests.
// Each instance owns its own state; there is no package-level singleton, so
// tests can run isolated and concurrent.
type MemoryStore struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	order   []string

	// minLatency imitates the artificial delay of the spreadsheet backend.
	minLatency time.Duration
	now        func() time.Time
}

// NewMemoryStore constructs an empty store. A non-zero minLatency is applied
// to every operation before touching state.
func NewMemoryStore(minLatency time.Duration) *MemoryStore {
	return &MemoryStore{
		tickets:    make(map[string]domain.Ticket),
		minLatency: minLatency,
		now:        time.Now,
	}
}

// Seed loads tickets into the store, applying the same defaults the sheet
// adapter applies on read: empty priority becomes Medium, empty status Open.
func (s *MemoryStore) Seed(tickets ...domain.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tickets {
		if t.Priority == "" {
			t.Priority = domain.TicketPriorityMedium
		}
		if t.Status == "" {
			t.Status = domain.TicketStatusOpen
		}
		if _, exists := s.tickets[t.TicketID]; !exists {
			s.order = append(s.order, t.TicketID)
		}
		s.tickets[t.TicketID] = t
	}
}

// ListTickets returns a snapshot of all tickets.
func (s *MemoryStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tickets[id])
	}
	return result, nil
}

// UpdateTicketStatus persists a status transition. Same-status updates are
// valid and still re-stamp ApprovedAt.
func (s *MemoryStore) UpdateTicketStatus(ctx context.Context, input UpdateStatusInput) (*domain.Ticket, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[input.TicketID]
	if !ok {
		return nil, apperrors.NewNotFound("Ticket")
	}

	ticket.Status = input.Status
	ticket.ApprovedAt = formatTimestamp(s.now())
	if input.ApprovedBy != "" {
		ticket.ApprovedBy = input.ApprovedBy
	}
	s.tickets[input.TicketID] = ticket
	return &ticket, nil
}

// CreateTicket inserts a new ticket.
func (s *MemoryStore) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tickets[ticket.TicketID]; exists {
		return apperrors.NewInvalidInput("ticketId already exists", map[string]any{"ticketId": ticket.TicketID})
	}
	s.tickets[ticket.TicketID] = *ticket
	s.order = append(s.order, ticket.TicketID)
	return nil
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.minLatency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.minLatency):
		return nil
	case <-ctx.Done():
		return apperrors.NewStoreUnavailable("store operation cancelled", ctx.Err())
	}
}
