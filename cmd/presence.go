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

func newPresenceCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Show how many people are in the lounge and how many are focusing",
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

			var summary application.PresenceSummary
			query := func(ctx context.Context, counts loungeview.CountsFunc) error {
				var progress func(application.PresenceSummary)
				if counts != nil {
					progress = func(s application.PresenceSummary) { counts(s.Viewers, s.Workers) }
				}
				var err error
				summary, err = application.QueryPresenceProgress(ctx, b.transport, app.clock, logger.Named("presence"), progress)
				return err
			}

			if asJSON {
				if err := query(ctx, nil); err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			if err := loungeview.RunConnecting(ctx, cmd.ErrOrStderr(), query); err != nil {
				return err
			}

			rendered, err := app.renderer(loungeview.Snapshot{
				Viewers: summary.Viewers,
				Workers: summary.Workers,
			}, loungeview.RenderOptions{Now: app.now(), PresenceOnly: true})
			if err != nil {
				return fmt.Errorf("render presence: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print counts as JSON")

	return cmd
}
