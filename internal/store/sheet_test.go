package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/domain"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

func newSheetStore(t *testing.T, url string) *SheetStore {
	t.Helper()
	return NewSheetStore(url, "", 5*time.Second, zap.NewNop())
}

func TestSheetStoreListNormalizesHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "getTickets", r.URL.Query().Get("action"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tickets": []map[string]any{
				{
					"ID":                  "TCK-001",
					"Created On":          "2025-01-10T08:00:00.000Z",
					"Type of Request":     "Bug Report",
					"Summary":             "Broken export",
					"Request Details":     "CSV export times out.",
					"Exact Change Needed": "",
					"Additional Emails":   "ops@example.com",
					"Impact on Work":      "Blocks month-end reporting",
					"Attachments":         "https://example.com/shot.png",
					"ApprovedBy":          "",
					"ApprovedAt":          "",
				},
				{
					// Older rows use different header spellings and omit
					// priority/status entirely.
					"id":           "TCK-002",
					"CreatedOn":    "2025-01-11T09:00:00.000Z",
					"Request Type": "New Feature Request",
					"Summary":      "Dark mode",
					"Request":      "Please add a dark theme.",
				},
			},
		})
	}))
	defer server.Close()

	tickets, err := newSheetStore(t, server.URL).ListTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	first := tickets[0]
	assert.Equal(t, "TCK-001", first.TicketID)
	assert.Equal(t, "2025-01-10T08:00:00.000Z", first.Timestamp)
	assert.Equal(t, domain.RequestTypeBugReport, first.RequestType)
	assert.Equal(t, "CSV export times out.", first.Description)
	assert.Equal(t, "ops@example.com", first.AdditionalEmails)
	assert.Equal(t, "Blocks month-end reporting", first.Impact)
	assert.Equal(t, "", first.ExactChange)

	second := tickets[1]
	assert.Equal(t, "TCK-002", second.TicketID)
	assert.Equal(t, "2025-01-11T09:00:00.000Z", second.Timestamp)
	assert.Equal(t, domain.RequestTypeNewFeature, second.RequestType)
	assert.Equal(t, "Please add a dark theme.", second.Description)
	assert.Equal(t, domain.TicketPriorityMedium, second.Priority)
	assert.Equal(t, domain.TicketStatusOpen, second.Status)
}

func TestSheetStoreListUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newSheetStore(t, server.URL).ListTickets(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
}

func TestSheetStoreListMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := newSheetStore(t, server.URL).ListTickets(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
}

func TestSheetStoreListServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newSheetStore(t, server.URL).ListTickets(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoreUnavailable))
}

func TestSheetStoreUpdateStampsAndParsesEcho(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"ticket": map[string]any{
				"ID":              "TCK-001",
				"Summary":         "Broken export",
				"Type of Request": "Bug Report",
				"Status":          "In Progress",
				"ApprovedBy":      "Admin User",
				"ApprovedAt":      received["approvedAt"],
			},
		})
	}))
	defer server.Close()

	s := newSheetStore(t, server.URL)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	ticket, err := s.UpdateTicketStatus(context.Background(), UpdateStatusInput{
		TicketID:   "TCK-001",
		Status:     domain.TicketStatusInProgress,
		ApprovedBy: "Admin User",
		Remarks:    "picked up",
	})
	require.NoError(t, err)

	assert.Equal(t, "updateTicket", received["action"])
	assert.Equal(t, "TCK-001", received["ticketId"])
	assert.Equal(t, "In Progress", received["status"])
	assert.Equal(t, "2025-03-01T10:00:00.000Z", received["approvedAt"])
	assert.Equal(t, "picked up", received["remarks"])

	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Equal(t, "Admin User", ticket.ApprovedBy)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", ticket.ApprovedAt)
}

func TestSheetStoreUpdateRereadsWhenNotEchoed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tickets": []map[string]any{
				{"ID": "TCK-001", "Status": "Done", "ApprovedAt": "2025-03-01T10:00:00.000Z"},
			},
		})
	}))
	defer server.Close()

	ticket, err := newSheetStore(t, server.URL).UpdateTicketStatus(context.Background(), UpdateStatusInput{
		TicketID: "TCK-001",
		Status:   domain.TicketStatusDone,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusDone, ticket.Status)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", ticket.ApprovedAt)
}

func TestSheetStoreUpdateNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Ticket not found",
		})
	}))
	defer server.Close()

	_, err := newSheetStore(t, server.URL).UpdateTicketStatus(context.Background(), UpdateStatusInput{
		TicketID: "NOPE",
		Status:   domain.TicketStatusDone,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSheetStoreCreateTicket(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	err := newSheetStore(t, server.URL).CreateTicket(context.Background(), &domain.Ticket{
		TicketID:    "TCK-NEW",
		RequestType: domain.RequestTypeEnhancement,
		Summary:     "Better filters",
		Priority:    domain.TicketPriorityMedium,
		Status:      domain.TicketStatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, "addTicket", received["action"])
	assert.Equal(t, "TCK-NEW", received["ticketId"])
}
