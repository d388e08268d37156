package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"prestamax/internal/core/domain"
)

// NotificationService delivers domain events to the tenant's webhook
// endpoint. Delivery is fire-and-forget: failures are logged, never
// propagated back into the state machine.
type NotificationService struct {
	webhookURL string
	secret     string
	client     *http.Client
	enabled    bool
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	url := os.Getenv("WEBHOOK_URL")
	return &NotificationService{
		webhookURL: url,
		secret:     os.Getenv("WEBHOOK_SECRET"),
		client:     &http.Client{Timeout: 10 * time.Second},
		enabled:    url != "",
	}
}

// IsEnabled checks if webhook delivery is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// webhookEnvelope is the wire format posted to the webhook endpoint
type webhookEnvelope struct {
	Event      string       `json:"event"`
	OccurredAt time.Time    `json:"occurred_at"`
	Data       domain.Event `json:"data"`
}

// Publish posts the event to the configured webhook. Implements EventPublisher.
func (s *NotificationService) Publish(ctx context.Context, event domain.Event) {
	if !s.enabled {
		return
	}

	body, err := json.Marshal(webhookEnvelope{
		Event:      event.EventName(),
		OccurredAt: time.Now(),
		Data:       event,
	})
	if err != nil {
		log.Printf("⚠️ Webhook marshal failed: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️ Webhook request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.secret != "" {
		req.Header.Set("Authorization", "Bearer "+s.secret)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("⚠️ Webhook delivery failed for %s: %v", event.EventName(), err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("⚠️ Webhook endpoint returned %d for %s", resp.StatusCode, event.EventName())
	}
}
