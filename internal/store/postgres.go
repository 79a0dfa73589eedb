package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpcenter-api/internal/domain"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

// PostgresStore persists tickets in a single table mirroring the canonical
// shape. It serves deployments that have outgrown the spreadsheet backend;
// the HTTP contract does not change.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore instantiates the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

const ticketColumns = `ticket_id, submitted_at, request_type, summary, description,
        exact_change, additional_emails, priority, impact, attachment_links,
        status, approved_by, approved_at`

// ListTickets returns all tickets.
func (s *PostgresStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to fetch tickets", err)
	}
	defer rows.Close()

	result := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, apperrors.NewStoreUnavailable("failed to read ticket row", err)
		}
		result = append(result, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to read ticket rows", err)
	}
	return result, nil
}

// UpdateTicketStatus persists a status transition, re-stamping approved_at on
// every write. An empty ApprovedBy leaves the previous approver in place.
func (s *PostgresStore) UpdateTicketStatus(ctx context.Context, input UpdateStatusInput) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets
        SET status=$1, approved_at=$2,
            approved_by=COALESCE(NULLIF($3, ''), approved_by)
        WHERE ticket_id=$4
        RETURNING ` + ticketColumns

	row := s.pool.QueryRow(ctx, query,
		input.Status,
		formatTimestamp(s.now()),
		input.ApprovedBy,
		input.TicketID,
	)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Ticket")
		}
		return nil, apperrors.NewStoreUnavailable("failed to update ticket", err)
	}
	return ticket, nil
}

// CreateTicket inserts a new ticket row.
func (s *PostgresStore) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (` + ticketColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err := s.pool.Exec(ctx, query,
		ticket.TicketID,
		ticket.Timestamp,
		ticket.RequestType,
		ticket.Summary,
		ticket.Description,
		ticket.ExactChange,
		ticket.AdditionalEmails,
		ticket.Priority,
		ticket.Impact,
		ticket.AttachmentLinks,
		ticket.Status,
		ticket.ApprovedBy,
		ticket.ApprovedAt,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable("failed to create ticket", err)
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.TicketID,
		&ticket.Timestamp,
		&ticket.RequestType,
		&ticket.Summary,
		&ticket.Description,
		&ticket.ExactChange,
		&ticket.AdditionalEmails,
		&ticket.Priority,
		&ticket.Impact,
		&ticket.AttachmentLinks,
		&ticket.Status,
		&ticket.ApprovedBy,
		&ticket.ApprovedAt,
	); err != nil {
		return nil, err
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	return &ticket, nil
}
