package cmd

import (
	"fmt"
	"time"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/spf13/cobra"
)

func newOwnersCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owners",
		Short: "Manage which user is notified about each printer",
	}

	cmd.AddCommand(
		newOwnersListCmd(app),
		newOwnersSetCmd(app),
		newOwnersRemoveCmd(app),
	)

	return cmd
}

func newOwnersListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered printer owners",
		RunE: func(cmd *cobra.Command, _ []string) error {
			owners, err := app.owners.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(owners) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no printer owners registered")
				return nil
			}

			for _, owner := range owners {
				added := ""
				if !owner.AddedAt.IsZero() {
					added = owner.AddedAt.UTC().Format(time.RFC3339)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", owner.PrinterID, owner.UserID, added)
			}

			return nil
		},
	}
}

func newOwnersSetCmd(app *app) *cobra.Command {
	var printerID string
	var userID string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Register the user notified about a printer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.owners.Save(cmd.Context(), domain.Ownership{
				PrinterID: domain.PrinterID(printerID),
				UserID:    domain.UserID(userID),
			})
		},
	}

	cmd.Flags().StringVar(&printerID, "printer-id", "", "Printer ID")
	cmd.Flags().StringVar(&userID, "user-id", "", "Voice-platform user ID")
	_ = cmd.MarkFlagRequired("printer-id")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

func newOwnersRemoveCmd(app *app) *cobra.Command {
	var printerID string

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Stop notifying anyone about a printer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.owners.Delete(cmd.Context(), domain.PrinterID(printerID))
		},
	}

	cmd.Flags().StringVar(&printerID, "printer-id", "", "Printer ID")
	_ = cmd.MarkFlagRequired("printer-id")

	return cmd
}
