package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/config"
	"github.com/spec-kit/helpcenter-api/internal/events"
)

// NotificationService handles emitting notifications for ticket events. The
// additional-email recipients on a ticket are notified when its status
// changes; email delivery itself is stubbed, the webhook is real when
// configured.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
	client *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{},
	}
}

// Deliver sends the notifications for one ticket event: a log-only email stub
// per additional-email recipient and a real webhook POST when configured. It
// is called by the notification worker, never directly from a request.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	n.logger.Info("delivering notification",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID))

	switch payload := event.Payload.(type) {
	case events.TicketCreatedPayload:
		n.sendEmailNotificationStub(payload.AdditionalEmails, event)
	case events.TicketStatusChangedPayload:
		n.sendEmailNotificationStub(payload.AdditionalEmails, event)
	}

	n.sendWebhookNotification(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(recipients string, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(recipients) == "" {
		return
	}
	for _, recipient := range strings.Split(recipients, ",") {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}
		n.logger.Debug("sendEmailNotificationStub",
			zap.String("from", n.cfg.EmailFrom),
			zap.String("to", recipient),
			zap.String("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)))
	}
}

func (n *NotificationService) sendWebhookNotification(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("failed to encode webhook payload", zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(encoded))
	if err != nil {
		n.logger.Warn("failed to build webhook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook notification failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook notification rejected", zap.Int("status", resp.StatusCode))
	}
}
