package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/focus-lounge/internal/application"
)

func newSendCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>",
		Short: "Post a message to the lounge chat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()

			logger, err := app.newLogger("")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			profile, err := app.profiles.Current(ctx)
			if err != nil {
				return err
			}

			b, err := app.openBackend(ctx, logger)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, b.Close(context.WithoutCancel(ctx)))
			}()

			feed := application.NewChatFeed(b.store, nil, logger.Named("feed"), application.ChatFeedOptions{})
			defer feed.Close()

			msg, err := feed.Send(ctx, profile, strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", sanitizeForTerminal(msg.Author()), sanitizeForTerminal(msg.Text))
			return err
		},
	}
}
