package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebhookNotifier posts reports to a Slack, Discord or generic JSON webhook.
type WebhookNotifier struct {
	url    string
	kind   string
	client *http.Client
}

// NewWebhook detects the payload format from the URL when kind is empty.
func NewWebhook(url, kind string, timeout time.Duration) *WebhookNotifier {
	if kind == "" {
		switch {
		case strings.Contains(url, "slack.com"):
			kind = "slack"
		case strings.Contains(url, "discord.com"):
			kind = "discord"
		default:
			kind = "generic"
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{url: url, kind: kind, client: &http.Client{Timeout: timeout}}
}

func (n *WebhookNotifier) Notify(ctx context.Context, subject, body string) error {
	payload, err := n.payload(subject, body)
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *WebhookNotifier) payload(subject, body string) ([]byte, error) {
	switch n.kind {
	case "slack":
		return json.Marshal(map[string]any{
			"blocks": []map[string]any{
				{
					"type": "header",
					"text": map[string]string{"type": "plain_text", "text": subject},
				},
				{
					"type": "section",
					"text": map[string]string{"type": "mrkdwn", "text": "```" + body + "```"},
				},
			},
		})
	case "discord":
		return json.Marshal(map[string]any{
			"embeds": []map[string]any{
				{
					"title":       subject,
					"description": "```" + body + "```",
					"timestamp":   time.Now().UTC().Format(time.RFC3339),
				},
			},
		})
	default:
		return json.Marshal(map[string]any{
			"subject":   subject,
			"body":      body,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
