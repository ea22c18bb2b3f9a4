package application

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

const (
	DefaultNotificationDisplay = 3000 * time.Millisecond
	DefaultNotificationFade    = 300 * time.Millisecond
)

type NotificationOptions struct {
	Display time.Duration
	Fade    time.Duration
}

func (o NotificationOptions) withDefaults() NotificationOptions {
	if o.Display <= 0 {
		o.Display = DefaultNotificationDisplay
	}
	if o.Fade <= 0 {
		o.Fade = DefaultNotificationFade
	}
	return o
}

// NotificationLifecycle drives the single transient message bubble.
// Every timer callback carries the generation it was armed for and is
// ignored once a newer Show has superseded it.
type NotificationLifecycle struct {
	clock  ports.Clock
	logger *zap.Logger
	opts   NotificationOptions

	mu         sync.Mutex
	phase      domain.NotificationPhase
	current    *domain.ChatMessage
	timer      *quartz.Timer
	generation uint64
	chatOpen   bool
	closed     bool
	watchers   map[uuid.UUID]func(domain.NotificationState)
}

func NewNotificationLifecycle(clock ports.Clock, logger *zap.Logger, opts NotificationOptions) *NotificationLifecycle {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationLifecycle{
		clock:    clock,
		logger:   logger,
		opts:     opts.withDefaults(),
		watchers: make(map[uuid.UUID]func(domain.NotificationState)),
	}
}

// Show replaces whatever is on screen with msg and restarts the display
// window. It is a no-op while the chat panel is open.
func (l *NotificationLifecycle) Show(msg domain.ChatMessage) {
	l.mu.Lock()
	if l.closed || l.chatOpen {
		l.mu.Unlock()
		return
	}

	l.stopTimerLocked()
	l.generation++
	gen := l.generation
	l.current = &msg
	l.phase = domain.PhaseShowing
	l.timer = l.clock.AfterFunc(l.opts.Display, func() { l.expire(gen) }, "notification", "display")
	state := l.stateLocked()
	watchers := l.watchersLocked()
	l.mu.Unlock()

	l.logger.Debug("notification shown", zap.String("message_id", msg.ID))
	notifyNotification(watchers, state)
}

func (l *NotificationLifecycle) Dismiss() {
	l.mu.Lock()
	if l.phase != domain.PhaseShowing {
		l.mu.Unlock()
		return
	}
	l.beginFadeLocked()
	state := l.stateLocked()
	watchers := l.watchersLocked()
	l.mu.Unlock()

	notifyNotification(watchers, state)
}

// OpenChat fades the current bubble and suppresses new ones until CloseChat.
func (l *NotificationLifecycle) OpenChat() {
	l.mu.Lock()
	l.chatOpen = true
	if l.phase != domain.PhaseShowing {
		l.mu.Unlock()
		return
	}
	l.beginFadeLocked()
	state := l.stateLocked()
	watchers := l.watchersLocked()
	l.mu.Unlock()

	notifyNotification(watchers, state)
}

func (l *NotificationLifecycle) CloseChat() {
	l.mu.Lock()
	l.chatOpen = false
	l.mu.Unlock()
}

func (l *NotificationLifecycle) ChatOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chatOpen
}

func (l *NotificationLifecycle) State() domain.NotificationState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

// Current returns the message on screen, including while it fades out. It
// agrees with State().Current until the lifecycle is idle again.
func (l *NotificationLifecycle) Current() (domain.ChatMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase == domain.PhaseIdle || l.current == nil {
		return domain.ChatMessage{}, false
	}
	return *l.current, true
}

func (l *NotificationLifecycle) Watch(fn func(domain.NotificationState)) (cancel func()) {
	id := uuid.New()
	l.mu.Lock()
	l.watchers[id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.watchers, id)
			l.mu.Unlock()
		})
	}
}

// Close stops any pending timer. No callback fires afterwards.
func (l *NotificationLifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopTimerLocked()
	l.generation++
	l.closed = true
	l.phase = domain.PhaseIdle
	l.current = nil
}

func (l *NotificationLifecycle) expire(gen uint64) {
	l.mu.Lock()
	if gen != l.generation || l.phase != domain.PhaseShowing {
		l.mu.Unlock()
		return
	}
	l.beginFadeLocked()
	state := l.stateLocked()
	watchers := l.watchersLocked()
	l.mu.Unlock()

	notifyNotification(watchers, state)
}

func (l *NotificationLifecycle) clear(gen uint64) {
	l.mu.Lock()
	if gen != l.generation || l.phase != domain.PhaseFadingOut {
		l.mu.Unlock()
		return
	}
	l.phase = domain.PhaseIdle
	l.current = nil
	l.timer = nil
	state := l.stateLocked()
	watchers := l.watchersLocked()
	l.mu.Unlock()

	notifyNotification(watchers, state)
}

func (l *NotificationLifecycle) beginFadeLocked() {
	l.stopTimerLocked()
	gen := l.generation
	l.phase = domain.PhaseFadingOut
	l.timer = l.clock.AfterFunc(l.opts.Fade, func() { l.clear(gen) }, "notification", "fade")
}

func (l *NotificationLifecycle) stopTimerLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *NotificationLifecycle) stateLocked() domain.NotificationState {
	state := domain.NotificationState{
		Phase:   l.phase,
		Visible: l.phase == domain.PhaseShowing,
	}
	if l.current != nil {
		msg := *l.current
		state.Current = &msg
	}
	return state
}

func (l *NotificationLifecycle) watchersLocked() []func(domain.NotificationState) {
	out := make([]func(domain.NotificationState), 0, len(l.watchers))
	for _, fn := range l.watchers {
		out = append(out, fn)
	}
	return out
}

func notifyNotification(watchers []func(domain.NotificationState), state domain.NotificationState) {
	for _, fn := range watchers {
		fn(state)
	}
}
