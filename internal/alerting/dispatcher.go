package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/errors"
	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/fundwatch/fundwatch/internal/metrics"
)

// ErrChannelUnsupported is returned for actions naming a channel the
// dispatcher cannot deliver to. Email is declared in the schema for
// forward compatibility but has no sender yet.
var ErrChannelUnsupported = errors.New("unsupported notification channel")

// PushSender delivers push notifications.
type PushSender interface {
	SendPush(ctx context.Context, title, message string) error
}

// MessageSender delivers messenger notifications.
type MessageSender interface {
	SendMessage(ctx context.Context, category, message string) error
}

// WebhookPoster delivers webhook notifications.
type WebhookPoster interface {
	Post(ctx context.Context, url string, payload WebhookPayload) error
}

// WebhookPayload is the JSON body posted to webhook actions.
type WebhookPayload struct {
	Rule      string `json:"rule"`
	Message   string `json:"message"`
	Priority  string `json:"priority"`
	Timestamp string `json:"timestamp"`
}

// Dispatcher fans a fired rule out to its configured actions. Failures
// are isolated per action: one channel erroring never blocks the rest.
type Dispatcher struct {
	push      PushSender
	messenger MessageSender
	webhook   WebhookPoster
	renderer  *Renderer
	metrics   *metrics.Metrics
	log       logger.Logger
}

// NewDispatcher creates a Dispatcher. Nil senders disable their channel;
// actions targeting a disabled channel fail with ErrChannelUnsupported.
func NewDispatcher(push PushSender, messenger MessageSender, webhook WebhookPoster, renderer *Renderer, m *metrics.Metrics, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		push:      push,
		messenger: messenger,
		webhook:   webhook,
		renderer:  renderer,
		metrics:   m,
		log:       log,
	}
}

// Dispatch renders and delivers every action of a fired rule. The
// returned error joins the per-action failures; a nil return means every
// action delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, rule *entities.AlertRule, snap ActivitySnapshot, now time.Time) error {
	var errs []error
	for i := range rule.Actions {
		action := &rule.Actions[i]
		message := d.renderer.Render(ctx, rule, action.TemplateID, snap, now)
		if err := d.deliver(ctx, rule, action, message, now); err != nil {
			d.metrics.DispatchFailures.WithLabelValues(action.Channel).Inc()
			d.log.Error("alert action delivery failed",
				logger.String("rule", rule.Name),
				logger.String("channel", action.Channel),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("channel %s: %w", action.Channel, err))
			continue
		}
		d.log.Info("alert delivered",
			logger.String("rule", rule.Name),
			logger.String("channel", action.Channel))
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, rule *entities.AlertRule, action *entities.AlertAction, message string, now time.Time) error {
	switch action.Channel {
	case entities.ChannelPush:
		if d.push == nil {
			return ErrChannelUnsupported
		}
		return d.push.SendPush(ctx, "Alert: "+rule.Name, message)
	case entities.ChannelMessenger:
		if d.messenger == nil {
			return ErrChannelUnsupported
		}
		return d.messenger.SendMessage(ctx, "alert", message)
	case entities.ChannelWebhook:
		if d.webhook == nil {
			return ErrChannelUnsupported
		}
		if action.WebhookURL == "" {
			return errors.New("webhook action has no URL")
		}
		return d.webhook.Post(ctx, action.WebhookURL, WebhookPayload{
			Rule:      rule.Name,
			Message:   message,
			Priority:  rule.Priority,
			Timestamp: now.Format(time.RFC3339),
		})
	default:
		// Email included: declared in the schema but not deliverable.
		return ErrChannelUnsupported
	}
}
