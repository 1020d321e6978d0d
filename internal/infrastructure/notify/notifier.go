package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"promptmint.backend/internal/usecases"
	"promptmint.backend/pkg/redis"
)

// activityFeedKey is the Redis list the admin console tails for a live feed
// of creator-visible decisions.
const activityFeedKey = "admin:activity_feed"

// WebhookNotifier posts notifications to a configured webhook and mirrors
// them onto the Redis activity feed. With no webhook configured only the
// feed is written.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, notification usecases.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := redis.RPush(ctx, activityFeedKey, payload); err != nil {
		return fmt.Errorf("push activity feed: %w", err)
	}

	if n.webhookURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
