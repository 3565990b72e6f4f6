package notification

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier delivers a plain-text report.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Config selects and configures the notifier.
type Config struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
	To             string

	// WebhookType is slack, discord or generic; detected from the URL when empty.
	WebhookURL  string
	WebhookType string
}

// FromConfig returns every configured delivery channel: SendGrid when an API
// key and recipient are set, a webhook when a URL is set. With neither, the
// report is only logged.
func FromConfig(cfg Config, logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	var out Multi
	if cfg.SendGridAPIKey != "" && cfg.To != "" {
		out = append(out, NewSendGrid(cfg))
	}
	if cfg.WebhookURL != "" {
		out = append(out, NewWebhook(cfg.WebhookURL, cfg.WebhookType, 0))
	}

	switch len(out) {
	case 0:
		return NewLog(logger)
	case 1:
		return out[0]
	default:
		return out
	}
}

// Multi fans a report out to several notifiers and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, subject, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes reports to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, subject, body string) error {
	n.logger.InfoContext(ctx, subject, "report", body)
	return nil
}

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier emails reports through the SendGrid API.
type SendGridNotifier struct {
	cfg    Config
	client sender
}

func NewSendGrid(cfg Config) *SendGridNotifier {
	if cfg.FromName == "" {
		cfg.FromName = "Expense Manager"
	}
	return &SendGridNotifier{cfg: cfg, client: sendgrid.NewSendClient(cfg.SendGridAPIKey)}
}

func (n *SendGridNotifier) Notify(ctx context.Context, subject, body string) error {
	resp, err := n.client.SendWithContext(ctx, n.message(subject, body))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (n *SendGridNotifier) message(subject, body string) *mail.SGMailV3 {
	from := mail.NewEmail(n.cfg.FromName, n.cfg.FromAddress)
	to := mail.NewEmail("", n.cfg.To)
	htmlBody := "<pre>" + html.EscapeString(body) + "</pre>"
	return mail.NewSingleEmail(from, subject, to, body, htmlBody)
}
