package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/api/dto"
	"github.com/spec-kit/helpcenter-api/internal/api/http/handlers"
	"github.com/spec-kit/helpcenter-api/internal/domain"
	"github.com/spec-kit/helpcenter-api/internal/observability"
	"github.com/spec-kit/helpcenter-api/internal/service"
	"github.com/spec-kit/helpcenter-api/internal/store"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

type downStore struct{}

func (downStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return nil, apperrors.NewStoreUnavailable("Failed to fetch tickets from sheet", nil)
}

func (downStore) UpdateTicketStatus(ctx context.Context, input store.UpdateStatusInput) (*domain.Ticket, error) {
	return nil, apperrors.NewStoreUnavailable("Failed to update ticket in sheet", nil)
}

func (downStore) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	return apperrors.NewStoreUnavailable("Failed to update ticket in sheet", nil)
}

func newTestApp(ticketStore store.TicketStore) *fiber.App {
	logger := zap.NewNop()
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)

	ticketService := service.NewTicketService(ticketStore, nil)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("helpcenter-api", "test", nil),
		Support: handlers.NewSupportHandler(ticketService, logger, "Admin User"),
	})
	return app
}

func newSeededApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	t.Helper()
	memory := store.NewMemoryStore(0)
	memory.Seed(domain.Ticket{
		TicketID:    "DEMO-001",
		Timestamp:   "2025-01-10T08:00:00.000Z",
		RequestType: domain.RequestTypeBugReport,
		Summary:     "Broken export",
		Description: "CSV export times out.",
		Priority:    domain.TicketPriorityHigh,
		Status:      domain.TicketStatusOpen,
	})
	return newTestApp(memory), memory
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListTickets(t *testing.T) {
	app, _ := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/support", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[dto.TicketsResponse](t, resp)
	assert.True(t, body.Success)
	require.Len(t, body.Tickets, 1)
	assert.Equal(t, "DEMO-001", body.Tickets[0].TicketID)
	assert.Empty(t, body.Error)
}

func TestListTicketsEmptyStoreIsSuccess(t *testing.T) {
	app := newTestApp(store.NewMemoryStore(0))

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/support", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[dto.TicketsResponse](t, resp)
	assert.True(t, body.Success)
	assert.NotNil(t, body.Tickets)
	assert.Empty(t, body.Tickets)
}

func TestListTicketsStoreDown(t *testing.T) {
	app := newTestApp(downStore{})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/support", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// Callers tell "store down" from "store empty" by the success flag; the
	// failure envelope still carries an empty tickets array.
	body := decode[dto.TicketsResponse](t, resp)
	assert.False(t, body.Success)
	assert.NotNil(t, body.Tickets)
	assert.Empty(t, body.Tickets)
	assert.Equal(t, "Failed to fetch tickets from sheet", body.Error)
}

func TestUpdateTicket(t *testing.T) {
	app, _ := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/admin/support", dto.UpdateTicketRequest{
		TicketID:   "DEMO-001",
		Status:     domain.TicketStatusInProgress,
		ApprovedBy: "Admin User",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[dto.UpdateTicketResponse](t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, "Ticket updated successfully", body.Message)
	require.NotNil(t, body.Ticket)
	assert.Equal(t, domain.TicketStatusInProgress, body.Ticket.Status)
	assert.Equal(t, "Admin User", body.Ticket.ApprovedBy)
	assert.NotEmpty(t, body.Ticket.ApprovedAt)

	// The update is visible on a subsequent list.
	listResp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/support", nil), -1)
	require.NoError(t, err)
	listBody := decode[dto.TicketsResponse](t, listResp)
	require.Len(t, listBody.Tickets, 1)
	assert.Equal(t, domain.TicketStatusInProgress, listBody.Tickets[0].Status)
}

func TestUpdateTicketDefaultsApprover(t *testing.T) {
	app, _ := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/admin/support", dto.UpdateTicketRequest{
		TicketID: "DEMO-001",
		Status:   domain.TicketStatusDone,
	}), -1)
	require.NoError(t, err)

	body := decode[dto.UpdateTicketResponse](t, resp)
	require.NotNil(t, body.Ticket)
	assert.Equal(t, "Admin User", body.Ticket.ApprovedBy)
}

func TestUpdateTicketMissingFields(t *testing.T) {
	app, memory := newSeededApp(t)

	for _, payload := range []dto.UpdateTicketRequest{
		{Status: domain.TicketStatusDone},
		{TicketID: "DEMO-001"},
		{},
	} {
		resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/admin/support", payload), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decode[dto.ErrorResponse](t, resp)
		assert.False(t, body.Success)
		assert.Equal(t, "ticketId and status are required", body.Error)
	}

	// Rejected requests never mutate the store.
	tickets, err := memory.ListTickets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, tickets[0].Status)
	assert.Empty(t, tickets[0].ApprovedAt)
}

func TestUpdateTicketInvalidStatus(t *testing.T) {
	app, _ := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/admin/support", dto.UpdateTicketRequest{
		TicketID: "DEMO-001",
		Status:   "Archived",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "invalid status value", body.Error)
}

func TestUpdateTicketNotFound(t *testing.T) {
	app, _ := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch, "/api/admin/support", dto.UpdateTicketRequest{
		TicketID: "NOPE",
		Status:   domain.TicketStatusDone,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "Ticket not found", body.Error)
}

func TestCreateTicket(t *testing.T) {
	app, memory := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/support", dto.CreateTicketRequest{
		RequestType: domain.RequestTypeEnhancement,
		Summary:     "Better filters",
		Description: "Add a date-range filter to the requisition table.",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[dto.CreateTicketResponse](t, resp)
	assert.True(t, body.Success)
	require.NotNil(t, body.Ticket)
	assert.Equal(t, domain.TicketStatusOpen, body.Ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, body.Ticket.Priority)
	assert.NotEmpty(t, body.Ticket.TicketID)

	tickets, err := memory.ListTickets(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestCreateTicketMissingFields(t *testing.T) {
	app, _ := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/support", dto.CreateTicketRequest{
		Summary: "No category",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "requestType, summary and description are required", body.Error)
}

func TestHealthLive(t *testing.T) {
	app, _ := newSeededApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/health/live", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
