package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fitlot/internal/config"
	"fitlot/internal/store"
)

const userAgent = "Fitlot-Go/0.1.0"

// Service is the notification surface exposed to the production workflow.
type Service interface {
	NotifyLotRejected(ctx context.Context, lot *store.Lot) error
	NotifyLotOnHold(ctx context.Context, lot *store.Lot) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		rejects:  cfg.Notifications.Rejects,
		holds:    cfg.Notifications.Holds,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	rejects  bool
	holds    bool
	errors   bool
}

func (n *ntfyService) NotifyLotRejected(ctx context.Context, lot *store.Lot) error {
	if !n.rejects || lot == nil {
		return nil
	}
	message := fmt.Sprintf("Lot %s afgekeurd (%s)", lot.LotNumber, lot.RejectionReason)
	if lot.OrderID != "" {
		message = fmt.Sprintf("%s\nOrder: %s", message, lot.OrderID)
	}
	data := payload{
		title:    "Fitlot - Afkeur",
		message:  message,
		tags:     []string{"fitlot", "reject"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLotOnHold(ctx context.Context, lot *store.Lot) error {
	if !n.holds || lot == nil {
		return nil
	}
	message := fmt.Sprintf("Lot %s in de wacht: %s", lot.LotNumber, lot.Inspection.Reason)
	if note := strings.TrimSpace(lot.Inspection.Note); note != "" {
		message = fmt.Sprintf("%s\n%s", message, note)
	}
	data := payload{
		title:   "Fitlot - Tijdelijke afkeur",
		message: message,
		tags:    []string{"fitlot", "hold"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Fitlot - Error",
		message:  builder.String(),
		tags:     []string{"fitlot", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Fitlot - Test",
		message:  "Notification system test",
		tags:     []string{"fitlot", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyLotRejected(context.Context, *store.Lot) error { return nil }
func (noopService) NotifyLotOnHold(context.Context, *store.Lot) error   { return nil }
func (noopService) NotifyError(context.Context, error, string) error    { return nil }
func (noopService) TestNotification(context.Context) error              { return nil }
