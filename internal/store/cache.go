package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/domain"
)

const ticketListKey = "helpcenter:tickets"

// CachedStore decorates a TicketStore with a short-lived redis cache for the
// list operation. Cache failures degrade to the inner store; a redis outage
// must never make the ticket table unreadable. Writes invalidate the cached
// list so refetch-after-write always observes its own update.
type CachedStore struct {
	inner  TicketStore
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStore wraps inner. ttl must be positive; callers disable caching
// by not wrapping at all.
func NewCachedStore(inner TicketStore, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

// ListTickets serves from cache when possible.
func (s *CachedStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	raw, err := s.client.Get(ctx, ticketListKey).Bytes()
	if err == nil {
		var tickets []domain.Ticket
		if err := json.Unmarshal(raw, &tickets); err == nil {
			return tickets, nil
		}
		s.logger.Warn("discarding malformed ticket cache entry")
		_ = s.client.Del(ctx, ticketListKey).Err()
	} else if err != redis.Nil {
		s.logger.Warn("ticket cache read failed", zap.Error(err))
	}

	tickets, err := s.inner.ListTickets(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(tickets); err == nil {
		if err := s.client.Set(ctx, ticketListKey, encoded, s.ttl).Err(); err != nil {
			s.logger.Warn("ticket cache write failed", zap.Error(err))
		}
	}
	return tickets, nil
}

// UpdateTicketStatus delegates and invalidates the cached list on success.
func (s *CachedStore) UpdateTicketStatus(ctx context.Context, input UpdateStatusInput) (*domain.Ticket, error) {
	ticket, err := s.inner.UpdateTicketStatus(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return ticket, nil
}

// CreateTicket delegates and invalidates the cached list on success.
func (s *CachedStore) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	if err := s.inner.CreateTicket(ctx, ticket); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.client.Del(ctx, ticketListKey).Err(); err != nil {
		s.logger.Warn("ticket cache invalidation failed", zap.Error(err))
	}
}
