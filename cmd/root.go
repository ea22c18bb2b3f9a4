package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lounge",
		Short:         "Focus lounge: see who else is focusing and chat with them",
		Long:          "lounge shows how many people are in the focus lounge and how many are working right now, with a small shared chat whose new messages pop up as short-lived bubbles.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newJoinCmd(app),
		newSendCmd(app),
		newFeedCmd(app),
		newPresenceCmd(app),
		newProfileCmd(app),
	)

	return rootCmd
}
