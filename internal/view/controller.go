package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/client"
	"github.com/spec-kit/helpcenter-api/internal/domain"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

// Snapshot is the read-only state the ticket table renders.
type Snapshot struct {
	Tickets    []domain.Ticket
	Loading    bool
	Refreshing bool
	Err        string
	Updating   map[string]bool
}

// Controller owns the admin view's ticket state: initial load, manual
// refresh, and per-ticket optimistic status updates with a reconciliation
// refresh after every successful write. The local snapshot is never treated
// as authoritative beyond the most recent successful fetch.
type Controller struct {
	client     *client.Client
	logger     *zap.Logger
	approvedBy string

	mu         sync.Mutex
	tickets    []domain.Ticket
	loading    bool
	refreshing bool
	errMsg     string
	updating   map[string]struct{}
}

// NewController constructs the controller. defaultApprover is stamped on
// updates when the caller does not name an approver.
func NewController(ticketClient *client.Client, logger *zap.Logger, defaultApprover string) *Controller {
	if defaultApprover == "" {
		defaultApprover = "Admin User"
	}
	return &Controller{
		client:     ticketClient,
		logger:     logger,
		approvedBy: defaultApprover,
		updating:   make(map[string]struct{}),
	}
}

// Load performs the initial fetch. The loading flag is raised only here;
// subsequent refreshes use the refreshing flag so the table keeps rendering
// the previous snapshot.
func (v *Controller) Load(ctx context.Context) error {
	return v.fetch(ctx, false)
}

// Refresh repeats the list fetch without clearing the current tickets, so a
// failed or slow refresh never flashes an empty table.
func (v *Controller) Refresh(ctx context.Context) error {
	return v.fetch(ctx, true)
}

func (v *Controller) fetch(ctx context.Context, isRefresh bool) error {
	v.mu.Lock()
	if isRefresh {
		v.refreshing = true
	} else {
		v.loading = true
	}
	v.errMsg = ""
	v.mu.Unlock()

	resp, err := v.client.FetchTickets(ctx)

	v.mu.Lock()
	defer func() {
		v.loading = false
		v.refreshing = false
		v.mu.Unlock()
	}()

	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		v.errMsg = domainErr.Message
		v.logger.Error("failed to fetch tickets", zap.Error(err))
		return err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Failed to fetch tickets"
		}
		v.errMsg = msg
		v.logger.Error("ticket list returned failure", zap.String("error", msg))
		return apperrors.NewStoreUnavailable(msg, nil)
	}

	tickets := resp.Tickets
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	v.tickets = tickets
	return nil
}

// UpdateStatus changes one ticket's status. The ticket id is marked in-flight
// before the remote call so the table can show a per-row spinner without
// blocking other rows, and unmarked as the final step on every path. A
// successful write triggers an awaited full refresh instead of patching the
// row locally, keeping the displayed state reconciled against the store. On
// failure the error is both recorded for the banner and returned so the row
// can react too.
func (v *Controller) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus, approvedBy string) error {
	if approvedBy == "" {
		approvedBy = v.approvedBy
	}

	v.mu.Lock()
	v.updating[ticketID] = struct{}{}
	v.errMsg = ""
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.updating, ticketID)
		v.mu.Unlock()
	}()

	resp, err := v.client.UpdateTicketStatus(ctx, ticketID, status, approvedBy, "")
	if err != nil {
		v.recordUpdateError(apperrors.ToDomainError(err).Message, err)
		return err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Failed to update ticket"
		}
		err := apperrors.NewStoreUnavailable(msg, nil)
		v.recordUpdateError(msg, err)
		return err
	}

	// The refresh is awaited so the update is only complete once the table
	// reflects the store again. A refresh failure is already recorded in the
	// error state; the update itself committed, so it is not reported as a
	// failure here.
	_ = v.Refresh(ctx)
	return nil
}

func (v *Controller) recordUpdateError(msg string, err error) {
	v.mu.Lock()
	v.errMsg = msg
	v.mu.Unlock()
	v.logger.Error("failed to update ticket status", zap.Error(err))
}

// Snapshot returns a copy of the current view state.
func (v *Controller) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	tickets := make([]domain.Ticket, len(v.tickets))
	copy(tickets, v.tickets)

	updating := make(map[string]bool, len(v.updating))
	for id := range v.updating {
		updating[id] = true
	}

	return Snapshot{
		Tickets:    tickets,
		Loading:    v.loading,
		Refreshing: v.refreshing,
		Err:        v.errMsg,
		Updating:   updating,
	}
}

// IsUpdating reports whether a ticket currently has an in-flight update.
func (v *Controller) IsUpdating(ticketID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.updating[ticketID]
	return ok
}
