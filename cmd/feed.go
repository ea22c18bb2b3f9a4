package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	loungeview "github.com/bnema/focus-lounge/internal/adapters/render/lounge"
	"github.com/bnema/focus-lounge/internal/application"
)

func newFeedCmd(app *app) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show recent lounge messages",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()

			logger, err := app.newLogger("")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			b, err := app.openBackend(ctx, logger)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, b.Close(context.WithoutCancel(ctx)))
			}()

			if limit <= 0 {
				limit = app.cfg.Chat.PageSize
			}
			messages, err := application.QueryFeed(ctx, b.store, limit)
			if err != nil {
				return fmt.Errorf("load feed: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(application.NewFeedEntries(messages))
			}

			summary, err := application.QueryPresence(ctx, b.transport, app.clock, logger.Named("presence"))
			if err != nil {
				return fmt.Errorf("load presence: %w", err)
			}
			profile, err := app.profiles.Current(ctx)
			if err != nil {
				return err
			}

			rendered, err := app.renderer(loungeview.Snapshot{
				Profile:  profile,
				Messages: messages,
				Viewers:  summary.Viewers,
				Workers:  summary.Workers,
			}, loungeview.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render feed: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print messages as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of messages to show (defaults to chat.page_size)")

	return cmd
}
