package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	loungeview "github.com/bnema/focus-lounge/internal/adapters/render/lounge"
	"github.com/bnema/focus-lounge/internal/application"
	"github.com/bnema/focus-lounge/internal/random"
)

func newJoinCmd(app *app) *cobra.Command {
	var working bool

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join the lounge in an interactive session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJoin(cmd, app, working)
		},
	}
	cmd.Flags().BoolVar(&working, "working", false, "Announce yourself as focusing right away")

	return cmd
}

func runJoin(cmd *cobra.Command, app *app, working bool) (err error) {
	ctx := cmd.Context()

	// The terminal belongs to the UI, so logs go to a file.
	logger, err := app.newLogger(tuiLogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	profile, err := app.profiles.Current(ctx)
	if err != nil {
		return err
	}
	seed, err := random.SeedOr(app.cfg.Synthetic.Seed)
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

	engine := application.NewEngine(b.store, b.transport, app.clock, profile, logger, app.engineOptions(seed))
	defer func() {
		err = errors.Join(err, engine.Close(context.WithoutCancel(ctx)))
	}()

	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start lounge: %w", err)
	}
	if working {
		if err := engine.SetWorking(ctx, true); err != nil {
			logger.Warn("announce working", zap.Error(err))
		}
	}

	return loungeview.Run(ctx, engine, cmd.InOrStdin(), cmd.OutOrStdout())
}
