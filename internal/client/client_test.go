package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpcenter-api/internal/api/dto"
	"github.com/spec-kit/helpcenter-api/internal/domain"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

func TestFetchTickets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/admin/support", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.TicketsResponse{
			Success: true,
			Tickets: []domain.Ticket{{TicketID: "DEMO-001", Status: domain.TicketStatusOpen}},
		})
	}))
	defer server.Close()

	resp, err := New(server.URL, 0).FetchTickets(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, "DEMO-001", resp.Tickets[0].TicketID)
}

func TestUpdateTicketStatusSendsPayload(t *testing.T) {
	var received dto.UpdateTicketRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(dto.UpdateTicketResponse{
			Success: true,
			Message: "Ticket updated successfully",
			Ticket:  &domain.Ticket{TicketID: received.TicketID, Status: received.Status},
		})
	}))
	defer server.Close()

	resp, err := New(server.URL, 0).UpdateTicketStatus(context.Background(),
		"DEMO-001", domain.TicketStatusInProgress, "Admin User", "")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "DEMO-001", received.TicketID)
	assert.Equal(t, domain.TicketStatusInProgress, received.Status)
	assert.Equal(t, "Admin User", received.ApprovedBy)
}

func TestClientPrefersServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Success: false, Error: "Ticket not found"})
	}))
	defer server.Close()

	_, err := New(server.URL, 0).UpdateTicketStatus(context.Background(),
		"NOPE", domain.TicketStatusDone, "", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Ticket not found", apperrors.ToDomainError(err).Message)
}

func TestClientFallsBackToMessageField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"backend exploded"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, 0).FetchTickets(context.Background())
	require.Error(t, err)
	assert.Equal(t, "backend exploded", apperrors.ToDomainError(err).Message)
}

func TestClientFallsBackToStatusLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer server.Close()

	_, err := New(server.URL, 0).FetchTickets(context.Background())
	require.Error(t, err)
	assert.Equal(t, "HTTP 502: Bad Gateway", apperrors.ToDomainError(err).Message)
}

func TestClientTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	_, err := New(server.URL, 50*time.Millisecond).FetchTickets(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
	assert.Equal(t, "Request timeout", apperrors.ToDomainError(err).Message)
}

func TestClientRejectsMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := New(server.URL, 0).FetchTickets(context.Background())
	require.Error(t, err)
	assert.Equal(t, "malformed response from server", apperrors.ToDomainError(err).Message)
}

func TestClientUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := New(server.URL, 0).FetchTickets(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
}
