package application

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForwarder(t *testing.T) (*Forwarder, *mocks.MockOwnerResolver, *mocks.MockNotifier) {
	t.Helper()

	owners := mocks.NewMockOwnerResolver(t)
	notifier := mocks.NewMockNotifier(t)
	forwarder, err := NewForwarder(owners, notifier)
	require.NoError(t, err)
	return forwarder, owners, notifier
}

func printerEvent(eventType domain.EventType, id, name string) domain.NotificationEvent {
	return domain.NotificationEvent{
		Type:    eventType,
		Printer: &domain.EventPrinter{ID: domain.PrinterID(id), Name: name},
	}
}

func TestNewForwarderRejectsNilDependencies(t *testing.T) {
	_, err := NewForwarder(nil, mocks.NewMockNotifier(t))
	require.Error(t, err)

	_, err = NewForwarder(mocks.NewMockOwnerResolver(t), nil)
	require.Error(t, err)
}

func TestForwardDeliversToOwner(t *testing.T) {
	forwarder, owners, notifier := newTestForwarder(t)
	owners.On("ResolveOwner", mockAnyContext(), domain.PrinterID("printer_1")).Return(domain.UserID("amzn1.ask.account.abc"), true, nil).Once()
	notifier.On("Notify", mockAnyContext(), domain.UserID("amzn1.ask.account.abc"), "X1C just finished printing!").Return(nil).Once()

	outcome, err := forwarder.Forward(context.Background(), printerEvent(domain.EventPrintFinished, "printer_1", "X1C"))

	require.NoError(t, err)
	assert.Equal(t, ForwardDelivered, outcome)
}

func TestForwardUsesFallbackPrinterName(t *testing.T) {
	forwarder, owners, notifier := newTestForwarder(t)
	owners.On("ResolveOwner", mockAnyContext(), domain.PrinterID("printer_1")).Return(domain.UserID("user-1"), true, nil).Once()
	notifier.On("Notify", mockAnyContext(), domain.UserID("user-1"), "your printer has been paused.").Return(nil).Once()

	outcome, err := forwarder.Forward(context.Background(), printerEvent(domain.EventPrintPaused, "printer_1", ""))

	require.NoError(t, err)
	assert.Equal(t, ForwardDelivered, outcome)
}

func TestForwardIgnoresUnknownEventType(t *testing.T) {
	forwarder, _, _ := newTestForwarder(t)

	outcome, err := forwarder.Forward(context.Background(), printerEvent("FilamentRunout", "printer_1", "X1C"))

	require.NoError(t, err)
	assert.Equal(t, ForwardIgnored, outcome)
}

func TestForwardSkipsPrinterWithoutOwner(t *testing.T) {
	forwarder, owners, _ := newTestForwarder(t)
	owners.On("ResolveOwner", mockAnyContext(), domain.PrinterID("printer_9")).Return(domain.UserID(""), false, nil).Once()

	outcome, err := forwarder.Forward(context.Background(), printerEvent(domain.EventPrintStarted, "printer_9", "Mini"))

	require.NoError(t, err)
	assert.Equal(t, ForwardNoOwner, outcome)
}

func TestForwardWrapsResolverError(t *testing.T) {
	forwarder, owners, _ := newTestForwarder(t)
	owners.On("ResolveOwner", mockAnyContext(), domain.PrinterID("printer_1")).Return(domain.UserID(""), false, errors.New("registry unreadable")).Once()

	_, err := forwarder.Forward(context.Background(), printerEvent(domain.EventPrintFailed, "printer_1", "X1C"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve printer owner")
}

func TestHandleWebhook(t *testing.T) {
	t.Run("unknown type is processed without notifying", func(t *testing.T) {
		forwarder, _, _ := newTestForwarder(t)

		resp := forwarder.HandleWebhook(context.Background(), printerEvent("Unknown", "printer_1", "X1C"))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Event processed successfully", resp.Body.Message)
	})

	t.Run("missing owner still succeeds", func(t *testing.T) {
		forwarder, owners, _ := newTestForwarder(t)
		owners.On("ResolveOwner", mockAnyContext(), domain.PrinterID("printer_1")).Return(domain.UserID(""), false, nil).Once()

		resp := forwarder.HandleWebhook(context.Background(), printerEvent(domain.EventPrintResumed, "printer_1", "X1C"))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delivered", func(t *testing.T) {
		forwarder, owners, notifier := newTestForwarder(t)
		owners.On("ResolveOwner", mockAnyContext(), domain.PrinterID("printer_1")).Return(domain.UserID("user-1"), true, nil).Once()
		notifier.On("Notify", mockAnyContext(), domain.UserID("user-1"), "X1C has resumed printing.").Return(nil).Once()

		resp := forwarder.HandleWebhook(context.Background(), printerEvent(domain.EventPrintResumed, "printer_1", "X1C"))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Body.Error)
	})

	t.Run("notifier failure returns 500", func(t *testing.T) {
		forwarder, owners, notifier := newTestForwarder(t)
		owners.On("ResolveOwner", mockAnyContext(), domain.PrinterID("printer_1")).Return(domain.UserID("user-1"), true, nil).Once()
		notifier.On("Notify", mockAnyContext(), domain.UserID("user-1"), "X1C encountered an error and stopped printing.").Return(domain.ErrNotificationFailed).Once()

		resp := forwarder.HandleWebhook(context.Background(), printerEvent(domain.EventPrintFailed, "printer_1", "X1C"))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Failed to process event", resp.Body.Error)
		assert.Empty(t, resp.Body.Message)
	})
}
