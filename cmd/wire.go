package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	presencemem "github.com/bnema/focus-lounge/internal/adapters/presence/memory"
	presencesqlite "github.com/bnema/focus-lounge/internal/adapters/presence/sqlite"
	loungeview "github.com/bnema/focus-lounge/internal/adapters/render/lounge"
	tomlrepo "github.com/bnema/focus-lounge/internal/adapters/repo/toml"
	"github.com/bnema/focus-lounge/internal/adapters/sqlitedb"
	storemem "github.com/bnema/focus-lounge/internal/adapters/store/memory"
	storesqlite "github.com/bnema/focus-lounge/internal/adapters/store/sqlite"
	"github.com/bnema/focus-lounge/internal/application"
	"github.com/bnema/focus-lounge/internal/config"
	"github.com/bnema/focus-lounge/internal/logging"
	"github.com/bnema/focus-lounge/internal/ports"
)

const tuiLogFile = "lounge.log"

type app struct {
	cfg      config.Config
	profiles *application.ProfileService
	renderer func(loungeview.Snapshot, loungeview.RenderOptions) (string, error)
	clock    ports.Clock
	now      func() time.Time
}

// backend is one opened store and presence transport pair.
type backend struct {
	store     ports.MessageStore
	transport ports.PresenceTransport
	closers   []func(context.Context) error
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	return &app{
		cfg:      cfg,
		profiles: application.NewProfileService(repo),
		renderer: loungeview.Render,
		clock:    ports.SystemClock(),
		now:      time.Now,
	}, nil
}

// newLogger writes to the configured log file, or to fallbackFile when none
// is configured. An empty fallback means stderr.
func (a *app) newLogger(fallbackFile string) (*zap.Logger, error) {
	file := a.cfg.Log.File
	if file == "" && fallbackFile != "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(dir, fallbackFile)
	}
	return logging.New(a.cfg.Log.Level, file)
}

func (a *app) openBackend(ctx context.Context, logger *zap.Logger) (*backend, error) {
	switch a.cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := storemem.NewStore(a.clock, logger.Named("store"))
		hub := presencemem.NewHub(logger.Named("presence"))
		return &backend{
			store:     store,
			transport: hub,
			closers: []func(context.Context) error{
				func(context.Context) error { return store.Close() },
				func(context.Context) error { return hub.Close() },
			},
		}, nil
	default:
		db, err := sqlitedb.Open(ctx, a.cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		transport := presencesqlite.New(db, a.clock, logger.Named("presence"), presencesqlite.Options{
			Heartbeat:    a.cfg.Presence.Heartbeat,
			TTL:          a.cfg.Presence.TTL,
			PollInterval: a.cfg.Presence.Poll,
		})
		return &backend{
			store: storesqlite.New(db, a.clock, logger.Named("store"), storesqlite.Options{
				PollInterval: a.cfg.Chat.PollInterval,
			}),
			transport: transport,
			closers: []func(context.Context) error{
				transport.Close,
				func(context.Context) error { return db.Close() },
			},
		}, nil
	}
}

func (b *backend) Close(ctx context.Context) error {
	errs := make([]error, 0, len(b.closers))
	for _, closeFn := range b.closers {
		errs = append(errs, closeFn(ctx))
	}
	return errors.Join(errs...)
}

func (a *app) engineOptions(seed uint64) application.EngineOptions {
	return application.EngineOptions{
		Feed: application.ChatFeedOptions{
			PageSize:    a.cfg.Chat.PageSize,
			MaxMessages: a.cfg.Chat.MaxMessages,
		},
		Scheduler: application.SchedulerOptions{
			MinInterval: a.cfg.Synthetic.MinInterval,
			MaxInterval: a.cfg.Synthetic.MaxInterval,
			Seed:        seed,
		},
		Notification: application.NotificationOptions{
			Display: a.cfg.Notification.Display,
			Fade:    a.cfg.Notification.Fade,
		},
		SyntheticEnabled: a.cfg.Synthetic.Enabled,
	}
}
