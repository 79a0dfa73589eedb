package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/domain"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

// SheetStore talks to the spreadsheet-backed ticket API (a Google Apps
// Script web app). The script returns records keyed by sheet column headers,
// which have drifted over time; fieldAliases maps every observed header to
// the canonical ticket field in one place.
type SheetStore struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// NewSheetStore constructs the adapter. timeout bounds every call against
// the script endpoint.
func NewSheetStore(baseURL, token string, timeout time.Duration, logger *zap.Logger) *SheetStore {
	return &SheetStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		now:     time.Now,
	}
}

// fieldAliases maps canonical ticket fields to the sheet headers that may
// carry them, in preference order. The first non-empty alias wins.
var fieldAliases = map[string][]string{
	"ticketId":         {"ID", "id", "Id"},
	"timestamp":        {"Created On", "CreatedOn", "timestamp"},
	"requestType":      {"Type of Request", "Request Type"},
	"summary":          {"Summary"},
	"description":      {"Request Details", "Request"},
	"exactChange":      {"Exact Change Needed"},
	"additionalEmails": {"Additional Emails"},
	"priority":         {"Priority"},
	"impact":           {"Impact on Work"},
	"attachmentLinks":  {"Attachments"},
	"status":           {"Status"},
	"approvedBy":       {"ApprovedBy"},
	"approvedAt":       {"ApprovedAt"},
}

type sheetListResponse struct {
	Success *bool            `json:"success"`
	Tickets []map[string]any `json:"tickets"`
	Error   string           `json:"error"`
}

type sheetWriteResponse struct {
	Success *bool          `json:"success"`
	Message string         `json:"message"`
	Error   string         `json:"error"`
	Ticket  map[string]any `json:"ticket"`
}

// ListTickets fetches every ticket row and normalizes it into the canonical
// shape. A transport failure or a malformed body is STORE_UNAVAILABLE, never
// an empty success.
func (s *SheetStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	endpoint, err := s.actionURL("getTickets")
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("invalid sheet endpoint", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to build sheet request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to fetch tickets from sheet", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewStoreUnavailable(
			fmt.Sprintf("sheet returned HTTP %d", resp.StatusCode), nil)
	}

	var payload sheetListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewStoreUnavailable("malformed sheet response", err)
	}
	if payload.Success != nil && !*payload.Success {
		return nil, apperrors.NewStoreUnavailable(sheetError(payload.Error), nil)
	}

	tickets := make([]domain.Ticket, 0, len(payload.Tickets))
	for _, record := range payload.Tickets {
		tickets = append(tickets, normalizeRecord(record))
	}
	return tickets, nil
}

// UpdateTicketStatus posts the transition to the script and returns the
// updated ticket. ApprovedAt is stamped here because the sheet has no clock
// of its own worth trusting.
func (s *SheetStore) UpdateTicketStatus(ctx context.Context, input UpdateStatusInput) (*domain.Ticket, error) {
	approvedAt := formatTimestamp(s.now())
	body := map[string]any{
		"action":     "updateTicket",
		"ticketId":   input.TicketID,
		"status":     input.Status,
		"approvedBy": input.ApprovedBy,
		"approvedAt": approvedAt,
		"remarks":    input.Remarks,
	}

	payload, err := s.post(ctx, body)
	if err != nil {
		return nil, err
	}
	if payload.Success != nil && !*payload.Success {
		msg := sheetError(payload.Error)
		if strings.Contains(strings.ToLower(msg), "not found") {
			return nil, apperrors.NewNotFound("Ticket")
		}
		return nil, apperrors.NewStoreUnavailable(msg, nil)
	}

	if payload.Ticket != nil {
		ticket := normalizeRecord(payload.Ticket)
		return &ticket, nil
	}

	// Older script deployments acknowledge the write without echoing the row;
	// re-read so callers always get the persisted state.
	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].TicketID == input.TicketID {
			return &tickets[i], nil
		}
	}
	return nil, apperrors.NewNotFound("Ticket")
}

// CreateTicket appends a new row.
func (s *SheetStore) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	body := map[string]any{
		"action":           "addTicket",
		"ticketId":         ticket.TicketID,
		"timestamp":        ticket.Timestamp,
		"requestType":      ticket.RequestType,
		"summary":          ticket.Summary,
		"description":      ticket.Description,
		"exactChange":      ticket.ExactChange,
		"additionalEmails": ticket.AdditionalEmails,
		"priority":         ticket.Priority,
		"impact":           ticket.Impact,
		"attachmentLinks":  ticket.AttachmentLinks,
		"status":           ticket.Status,
	}

	payload, err := s.post(ctx, body)
	if err != nil {
		return err
	}
	if payload.Success != nil && !*payload.Success {
		return apperrors.NewStoreUnavailable(sheetError(payload.Error), nil)
	}
	return nil
}

func (s *SheetStore) post(ctx context.Context, body map[string]any) (*sheetWriteResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to encode sheet request", err)
	}

	endpoint, err := s.actionURL("")
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("invalid sheet endpoint", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to build sheet request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to update ticket in sheet", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("sheet write rejected",
			zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewStoreUnavailable(
			fmt.Sprintf("sheet returned HTTP %d", resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to read sheet response", err)
	}
	var payload sheetWriteResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperrors.NewStoreUnavailable("malformed sheet response", err)
	}
	return &payload, nil
}

func (s *SheetStore) actionURL(action string) (string, error) {
	parsed, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	if action != "" {
		query.Set("action", action)
	}
	if s.token != "" {
		query.Set("token", s.token)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func sheetError(msg string) string {
	if msg == "" {
		return "sheet request failed"
	}
	return msg
}

// normalizeRecord maps a sheet row into the canonical Ticket shape. Unset
// optional fields become empty strings, and missing priority/status fall
// back to Medium/Open.
func normalizeRecord(record map[string]any) domain.Ticket {
	ticket := domain.Ticket{
		TicketID:         aliasValue(record, "ticketId"),
		Timestamp:        aliasValue(record, "timestamp"),
		RequestType:      domain.RequestType(aliasValue(record, "requestType")),
		Summary:          aliasValue(record, "summary"),
		Description:      aliasValue(record, "description"),
		ExactChange:      aliasValue(record, "exactChange"),
		AdditionalEmails: aliasValue(record, "additionalEmails"),
		Priority:         domain.TicketPriority(aliasValue(record, "priority")),
		Impact:           aliasValue(record, "impact"),
		AttachmentLinks:  aliasValue(record, "attachmentLinks"),
		Status:           domain.TicketStatus(aliasValue(record, "status")),
		ApprovedBy:       aliasValue(record, "approvedBy"),
		ApprovedAt:       aliasValue(record, "approvedAt"),
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	return ticket
}

func aliasValue(record map[string]any, field string) string {
	for _, alias := range fieldAliases[field] {
		if raw, ok := record[alias]; ok {
			if val := stringValue(raw); val != "" {
				return val
			}
		}
	}
	return ""
}

func stringValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
