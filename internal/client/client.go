package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/helpcenter-api/internal/api/dto"
	"github.com/spec-kit/helpcenter-api/internal/domain"
	apperrors "github.com/spec-kit/helpcenter-api/pkg/util"
)

const (
	supportPath    = "/api/admin/support"
	defaultTimeout = 30 * time.Second
)

// Client is the typed request layer the admin view uses to reach the ticket
// service. Every call either returns a well-formed response envelope or an
// error; a malformed body is never passed through. A timeout here only bounds
// how long the caller waits: the server-side effect may still have committed,
// so updates are at-least-once under timeouts.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New constructs a client. A non-positive timeout falls back to 30 seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// FetchTickets retrieves the full ticket list.
func (c *Client) FetchTickets(ctx context.Context) (*dto.TicketsResponse, error) {
	var out dto.TicketsResponse
	if err := c.do(ctx, http.MethodGet, supportPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTicketStatus changes a ticket's status.
func (c *Client) UpdateTicketStatus(ctx context.Context, ticketID string, status domain.TicketStatus, approvedBy, remarks string) (*dto.UpdateTicketResponse, error) {
	payload := dto.UpdateTicketRequest{
		TicketID:   ticketID,
		Status:     status,
		ApprovedBy: approvedBy,
		Remarks:    remarks,
	}
	var out dto.UpdateTicketResponse
	if err := c.do(ctx, http.MethodPatch, supportPath, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTicket files a new ticket.
func (c *Client) CreateTicket(ctx context.Context, req dto.CreateTicketRequest) (*dto.CreateTicketResponse, error) {
	var out dto.CreateTicketResponse
	if err := c.do(ctx, http.MethodPost, supportPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.NewTimeout("Request timeout")
		}
		return normalizeTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return normalizeTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewDomainError(
			codeForStatus(resp.StatusCode),
			errorMessage(raw, resp),
			resp.StatusCode,
			nil)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewDomainError(apperrors.CodeInternal,
			"malformed response from server", resp.StatusCode, nil)
	}
	return nil
}

// errorMessage picks the most specific failure description available: the
// server's error field, then its message field, then the HTTP status line.
func errorMessage(raw []byte, resp *http.Response) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func normalizeTransportError(err error) error {
	msg := "An unknown error occurred"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return apperrors.NewStoreUnavailable(msg, err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperrors.CodeInvalidInput
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusRequestTimeout:
		return apperrors.CodeTimeout
	default:
		return apperrors.CodeStoreUnavailable
	}
}
