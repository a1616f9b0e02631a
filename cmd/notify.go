package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/spf13/cobra"
)

func newNotifyCmd(app *app) *cobra.Command {
	var eventType string
	var printerID string
	var printerName string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Deliver a printer event as if the webhook had received it",
		Example: `  bamvoo notify --type PrintFinished --printer-id printer_1 --printer-name X1C
  bamvoo notify --type PrintPaused --printer-id printer_1 --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			event := domain.NotificationEvent{Type: domain.EventType(strings.TrimSpace(eventType))}
			if printerID != "" || printerName != "" {
				event.Printer = &domain.EventPrinter{ID: domain.PrinterID(printerID), Name: printerName}
			}

			if dryRun {
				return previewNotification(cmd, app, event)
			}

			forwarder, err := app.forwarder(cmd.Context())
			if err != nil {
				return err
			}

			resp := forwarder.HandleWebhook(cmd.Context(), event)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(resp); err != nil {
				return err
			}

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("event %s was not delivered: %s", event.Type, resp.Body.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&eventType, "type", "", "Event type (PrintFinished|PrintFailed|PrintStarted|PrintPaused|PrintResumed)")
	cmd.Flags().StringVar(&printerID, "printer-id", "", "Printer ID")
	cmd.Flags().StringVar(&printerName, "printer-name", "", "Printer name used in the message")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the message and recipient without sending")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func previewNotification(cmd *cobra.Command, app *app, event domain.NotificationEvent) error {
	out := cmd.OutOrStdout()

	message, ok := event.Message()
	if !ok {
		_, err := fmt.Fprintf(out, "event %s is not forwarded\n", event.Type)
		return err
	}

	userID, found, err := app.owners.ResolveOwner(cmd.Context(), event.PrinterID())
	if err != nil {
		return err
	}

	recipient := "nobody (no owner registered)"
	if found {
		recipient = string(userID)
	}

	_, err = fmt.Fprintf(out, "message: %s\nrecipient: %s\n", message, recipient)
	return err
}
