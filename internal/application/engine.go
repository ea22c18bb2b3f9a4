package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

type EngineOptions struct {
	Feed             ChatFeedOptions
	Scheduler        SchedulerOptions
	Notification     NotificationOptions
	SyntheticEnabled bool
}

// Engine wires presence, the chat feed, synthetic messages and the
// notification bubble into one session.
type Engine struct {
	profile          domain.Profile
	logger           *zap.Logger
	presence         *PresenceManager
	feed             *ChatFeed
	scheduler        *SyntheticScheduler
	notifications    *NotificationLifecycle
	syntheticEnabled bool

	workingMu sync.Mutex

	mu            sync.Mutex
	started       bool
	closed        bool
	viewers       *PresenceHandle
	workers       *PresenceHandle
	stopObserving func()
	stopWatching  []func()
	watchers      map[uuid.UUID]func()
}

func NewEngine(
	store ports.MessageStore,
	transport ports.PresenceTransport,
	clock ports.Clock,
	profile domain.Profile,
	logger *zap.Logger,
	opts EngineOptions,
) *Engine {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	notifications := NewNotificationLifecycle(clock, logger.Named("notification"), opts.Notification)
	feed := NewChatFeed(store, notifications, logger.Named("feed"), opts.Feed)
	e := &Engine{
		profile:          profile,
		logger:           logger,
		presence:         NewPresenceManager(transport, clock, logger.Named("presence")),
		feed:             feed,
		scheduler:        NewSyntheticScheduler(clock, logger.Named("synthetic"), opts.Scheduler, feed.OnSyntheticMessage),
		notifications:    notifications,
		syntheticEnabled: opts.SyntheticEnabled,
		watchers:         make(map[uuid.UUID]func()),
	}
	e.stopWatching = []func(){
		feed.Subscribe(func(domain.ChatMessage) { e.changed() }),
		e.presence.Watch(func(domain.Cohort, int) { e.changed() }),
		notifications.Watch(func(domain.NotificationState) { e.changed() }),
	}

	return e
}

// Start joins the viewers cohort, keeps the workers count live, loads the
// chat history and enables synthetic messages when configured.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started || e.closed {
		e.mu.Unlock()
		return nil
	}
	e.started = true
	e.mu.Unlock()

	stopObserving, err := e.presence.Observe(ctx, domain.CohortWorkers)
	if err != nil {
		e.logger.Warn("observe working cohort", zap.Error(err))
	}
	viewers, err := e.presence.Join(ctx, domain.CohortViewers)
	if err != nil {
		if stopObserving != nil {
			stopObserving()
		}
		return fmt.Errorf("join viewers: %w", err)
	}

	e.mu.Lock()
	e.stopObserving = stopObserving
	e.viewers = viewers
	e.mu.Unlock()

	e.feed.Initialize(ctx)
	if e.syntheticEnabled {
		e.scheduler.Enable()
	}
	e.changed()

	return nil
}

// SetWorking announces or withdraws this session in the workers cohort.
func (e *Engine) SetWorking(ctx context.Context, working bool) error {
	e.workingMu.Lock()
	defer e.workingMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	current := e.workers
	if working == (current != nil) {
		e.mu.Unlock()
		return nil
	}
	if !working {
		e.workers = nil
		e.mu.Unlock()
		if err := e.presence.Leave(ctx, current); err != nil {
			return fmt.Errorf("leave workers: %w", err)
		}
		e.changed()
		return nil
	}
	e.mu.Unlock()

	h, err := e.presence.Join(ctx, domain.CohortWorkers)
	if err != nil {
		return fmt.Errorf("join workers: %w", err)
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return e.presence.Leave(ctx, h)
	}
	e.workers = h
	e.mu.Unlock()
	e.changed()

	return nil
}

func (e *Engine) Working() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workers != nil
}

func (e *Engine) PresenceCount(cohort domain.Cohort) int {
	return e.presence.Count(cohort)
}

func (e *Engine) ChatFeed() []domain.ChatMessage {
	return e.feed.Messages()
}

func (e *Engine) SendMessage(ctx context.Context, text string) (domain.ChatMessage, error) {
	return e.feed.Send(ctx, e.profile, text)
}

func (e *Engine) CurrentNotification() (domain.ChatMessage, bool) {
	return e.notifications.Current()
}

func (e *Engine) NotificationState() domain.NotificationState {
	return e.notifications.State()
}

func (e *Engine) DismissNotification() {
	e.notifications.Dismiss()
}

func (e *Engine) OpenChat() {
	e.notifications.OpenChat()
	e.changed()
}

func (e *Engine) CloseChat() {
	e.notifications.CloseChat()
	e.changed()
}

func (e *Engine) ChatOpen() bool {
	return e.notifications.ChatOpen()
}

func (e *Engine) Profile() domain.Profile {
	return e.profile
}

// Watch registers fn to run after any visible state change.
func (e *Engine) Watch(fn func()) (cancel func()) {
	id := uuid.New()
	e.mu.Lock()
	e.watchers[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.watchers, id)
			e.mu.Unlock()
		})
	}
}

// Close leaves every cohort and stops all timers and subscriptions. Joins
// still in flight are retracted before it returns, bounded by ctx.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	viewers, workers := e.viewers, e.workers
	e.viewers, e.workers = nil, nil
	stopObserving := e.stopObserving
	e.stopObserving = nil
	e.mu.Unlock()

	e.scheduler.Disable()

	g, gctx := errgroup.WithContext(ctx)
	for _, h := range []*PresenceHandle{viewers, workers} {
		if h == nil {
			continue
		}
		g.Go(func() error {
			return e.presence.Leave(gctx, h)
		})
	}
	err := g.Wait()

	if stopObserving != nil {
		stopObserving()
	}
	for _, stop := range e.stopWatching {
		stop()
	}
	e.feed.Close()
	e.notifications.Close()

	if err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	return nil
}

func (e *Engine) changed() {
	e.mu.Lock()
	watchers := make([]func(), 0, len(e.watchers))
	for _, fn := range e.watchers {
		watchers = append(watchers, fn)
	}
	e.mu.Unlock()

	for _, fn := range watchers {
		fn()
	}
}
