package cmd

import (
	"errors"
	"fmt"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/spf13/cobra"
)

func newSecretCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Store the API tokens referenced by printer_api.token_ref and notifications.access_token_ref",
		Long: `Secrets are read from BAMVOO_SECRET_* environment variables first, then from files under secrets.dir.
A key such as octoeverywhere/app_token maps to BAMVOO_SECRET_OCTOEVERYWHERE_APP_TOKEN.`,
	}

	cmd.AddCommand(newSecretSetCmd(app), newSecretRemoveCmd(app), newSecretStatusCmd(app))

	return cmd
}

func newSecretSetCmd(app *app) *cobra.Command {
	var key string
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a secret",
		Example: `  bamvoo secret set --key octoeverywhere/app_token --value <token>
  bamvoo secret set --key alexa/access_token --value <token>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Put(cmd.Context(), key, value); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", key)
			return err
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Secret-store key")
	cmd.Flags().StringVar(&value, "value", "", "Secret value")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newSecretRemoveCmd(app *app) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Delete a stored secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.secretStore.Delete(cmd.Context(), key)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Secret-store key")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newSecretStatusCmd(app *app) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where a secret is read from, without printing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, source, err := app.secretStore.Lookup(cmd.Context(), key)
			if errors.Is(err, domain.ErrSecretNotFound) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: not set\n", key)
				return err
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: set (%s)\n", key, source)
			return err
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Secret-store key")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
