package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configFile string
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "bamvoo",
		Short:         "BamVoo: voice assistant skill for OctoEverywhere printers",
		Long:          "bamvoo serves the voice skill and printer-event webhook, lets you rehearse conversations against your printers, and manages the printer owner registry used for notifications.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			wired, err := wireApp(configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*app = *wired
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.bamvoo/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newConverseCmd(app),
		newNotifyCmd(app),
		newOwnersCmd(app),
		newSecretCmd(app),
	)

	return rootCmd
}
