package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/highvoltag3/BamVoo/internal/domain"
	xlog "github.com/highvoltag3/BamVoo/internal/log"
	"github.com/highvoltag3/BamVoo/internal/metrics"
	"github.com/highvoltag3/BamVoo/internal/ports"
)

type ForwardOutcome string

const (
	ForwardDelivered ForwardOutcome = "delivered"
	ForwardNoOwner   ForwardOutcome = "no_owner"
	ForwardIgnored   ForwardOutcome = "ignored"
)

const (
	webhookSuccessMessage = "Event processed successfully"
	webhookFailureMessage = "Failed to process event"
)

type WebhookBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type WebhookResponse struct {
	StatusCode int         `json:"statusCode"`
	Body       WebhookBody `json:"body"`
}

// Forwarder turns printer lifecycle events into push notifications for the
// printer's owner.
type Forwarder struct {
	owners   ports.OwnerResolver
	notifier ports.Notifier
}

func NewForwarder(owners ports.OwnerResolver, notifier ports.Notifier) (*Forwarder, error) {
	if owners == nil {
		return nil, errors.New("owner resolver is nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier is nil")
	}

	return &Forwarder{owners: owners, notifier: notifier}, nil
}

func (f *Forwarder) Forward(ctx context.Context, event domain.NotificationEvent) (ForwardOutcome, error) {
	logger := xlog.WithComponentFromContext(ctx, "webhook").With().
		Str(xlog.FieldEventType, string(event.Type)).
		Str(xlog.FieldPrinterID, string(event.PrinterID())).
		Logger()

	message, ok := event.Message()
	if !ok {
		logger.Info().Str(xlog.FieldEvent, "webhook.unhandled_type").Msg("ignoring unhandled event type")
		return ForwardIgnored, nil
	}

	userID, found, err := f.owners.ResolveOwner(ctx, event.PrinterID())
	if err != nil {
		return "", fmt.Errorf("resolve printer owner: %w", err)
	}
	if !found {
		logger.Info().Str(xlog.FieldEvent, "webhook.no_owner").Msg("no user owns printer, skipping notification")
		return ForwardNoOwner, nil
	}

	if err := f.notifier.Notify(ctx, userID, message); err != nil {
		return "", fmt.Errorf("send notification: %w", err)
	}

	logger.Info().Str(xlog.FieldEvent, "webhook.notified").Msg("notification sent")
	return ForwardDelivered, nil
}

// HandleWebhook forwards one delivery and shapes the reply the webhook sender
// expects. Ignored and skipped events still count as processed.
func (f *Forwarder) HandleWebhook(ctx context.Context, event domain.NotificationEvent) WebhookResponse {
	_, known := event.Message()

	outcome, err := f.Forward(ctx, event)
	if err != nil {
		logger := xlog.WithComponentFromContext(ctx, "webhook")
		logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "webhook.failed").
			Str(xlog.FieldEventType, string(event.Type)).
			Msg("error processing webhook event")
		metrics.RecordWebhookEvent(string(event.Type), known, metrics.OutcomeError)

		return WebhookResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       WebhookBody{Error: webhookFailureMessage},
		}
	}

	metrics.RecordWebhookEvent(string(event.Type), known, outcomeLabel(outcome))
	return WebhookResponse{
		StatusCode: http.StatusOK,
		Body:       WebhookBody{Message: webhookSuccessMessage},
	}
}

func outcomeLabel(outcome ForwardOutcome) string {
	switch outcome {
	case ForwardNoOwner:
		return metrics.OutcomeSkipped
	case ForwardIgnored:
		return metrics.OutcomeIgnored
	default:
		return metrics.OutcomeOK
	}
}
