package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

type HandleState int

const (
	HandlePending HandleState = iota
	HandleJoined
	HandleFailed
	HandleLeft
)

func (s HandleState) String() string {
	switch s {
	case HandlePending:
		return "pending"
	case HandleJoined:
		return "joined"
	case HandleFailed:
		return "failed"
	case HandleLeft:
		return "left"
	default:
		return "unknown"
	}
}

// PresenceHandle is one announced membership in a cohort.
type PresenceHandle struct {
	key     uuid.UUID
	cohort  domain.Cohort
	settled chan struct{}

	mu      sync.Mutex
	state   HandleState
	release func()
}

func (h *PresenceHandle) Key() uuid.UUID        { return h.key }
func (h *PresenceHandle) Cohort() domain.Cohort { return h.cohort }

// Settled is closed once the join handshake has finished, successfully or not.
func (h *PresenceHandle) Settled() <-chan struct{} { return h.settled }

func (h *PresenceHandle) State() HandleState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *PresenceHandle) isSettled() bool {
	select {
	case <-h.settled:
		return true
	default:
		return false
	}
}

// cohortState is shared by every subscriber of a cohort. The first subscriber
// opens the single transport subscription; the rest wait on ready.
type cohortState struct {
	refs      int
	members   map[uuid.UUID]struct{}
	withdrawn map[uuid.UUID]*PresenceHandle

	ready  chan struct{}
	err    error
	cancel func()
}

// PresenceManager announces local sessions into cohorts and keeps a cached
// member count per cohort. The transport owns the membership; the cache is
// replaced wholesale by each snapshot, minus sessions this process has
// already withdrawn.
type PresenceManager struct {
	transport ports.PresenceTransport
	clock     ports.Clock
	logger    *zap.Logger

	mu       sync.Mutex
	cohorts  map[domain.Cohort]*cohortState
	watchers map[uuid.UUID]func(domain.Cohort, int)
}

func NewPresenceManager(transport ports.PresenceTransport, clock ports.Clock, logger *zap.Logger) *PresenceManager {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PresenceManager{
		transport: transport,
		clock:     clock,
		logger:    logger,
		cohorts:   make(map[domain.Cohort]*cohortState),
		watchers:  make(map[uuid.UUID]func(domain.Cohort, int)),
	}
}

// Join returns immediately with a pending handle; subscription and
// announcement run in the background. A handle left before the handshake
// completes is never counted.
func (m *PresenceManager) Join(ctx context.Context, cohort domain.Cohort) (*PresenceHandle, error) {
	if !cohort.Valid() {
		return nil, fmt.Errorf("join presence: %w: %q", domain.ErrInvalidCohort, cohort)
	}

	h := &PresenceHandle{
		key:     uuid.New(),
		cohort:  cohort,
		settled: make(chan struct{}),
		state:   HandlePending,
	}
	go m.handshake(context.WithoutCancel(ctx), h)

	return h, nil
}

// Observe subscribes to a cohort without announcing a session so its count
// stays live.
func (m *PresenceManager) Observe(ctx context.Context, cohort domain.Cohort) (cancel func(), err error) {
	if !cohort.Valid() {
		return nil, fmt.Errorf("observe presence: %w: %q", domain.ErrInvalidCohort, cohort)
	}

	release, err := m.subscribe(ctx, cohort)
	if err != nil {
		return nil, fmt.Errorf("observe presence %s: %w", cohort, err)
	}
	return release, nil
}

// Leave withdraws the handle's announcement and drops its subscription.
// Leaving a pending handle waits, bounded by ctx, for the handshake to retract
// whatever it announced. Leaving twice is a no-op.
func (m *PresenceManager) Leave(ctx context.Context, h *PresenceHandle) error {
	if h == nil {
		return nil
	}

	h.mu.Lock()
	prev := h.state
	if prev == HandleLeft || prev == HandleFailed {
		h.mu.Unlock()
		return nil
	}
	h.state = HandleLeft
	release := h.release
	h.release = nil
	h.mu.Unlock()

	m.withdraw(h)
	if prev == HandlePending {
		select {
		case <-h.settled:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("leave presence %s: %w", h.cohort, ctx.Err())
		}
	}

	var untrackErr error
	if err := m.transport.Untrack(ctx, h.cohort.Channel(), h.key); err != nil {
		untrackErr = fmt.Errorf("untrack presence %s: %w", h.cohort, err)
		m.logger.Warn("leave presence", zap.String("cohort", string(h.cohort)), zap.Error(err))
	}
	if release != nil {
		release()
	}
	return untrackErr
}

func (m *PresenceManager) Count(cohort domain.Cohort) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(cohort)
}

func (m *PresenceManager) Watch(fn func(domain.Cohort, int)) (cancel func()) {
	id := uuid.New()
	m.mu.Lock()
	m.watchers[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.watchers, id)
			m.mu.Unlock()
		})
	}
}

func (m *PresenceManager) handshake(ctx context.Context, h *PresenceHandle) {
	defer close(h.settled)
	channel := h.cohort.Channel()
	logger := m.logger.With(zap.String("cohort", string(h.cohort)), zap.Stringer("session_key", h.key))

	release, err := m.subscribe(ctx, h.cohort)
	if err != nil {
		m.fail(h, logger, fmt.Errorf("subscribe %s: %w", channel, err))
		return
	}

	h.mu.Lock()
	if h.state == HandleLeft {
		h.mu.Unlock()
		release()
		return
	}
	h.release = release
	h.mu.Unlock()

	payload := domain.PresencePayload{JoinedAt: m.clock.Now()}
	if err := m.transport.Track(ctx, channel, h.key, payload); err != nil {
		h.mu.Lock()
		h.release = nil
		left := h.state == HandleLeft
		h.mu.Unlock()
		release()
		if !left {
			m.fail(h, logger, fmt.Errorf("track %s: %w", channel, err))
		}
		return
	}

	h.mu.Lock()
	if h.state == HandleLeft {
		h.mu.Unlock()
		if err := m.transport.Untrack(ctx, channel, h.key); err != nil {
			logger.Warn("retract presence after early leave", zap.Error(err))
		}
		release()
		return
	}
	h.state = HandleJoined
	h.mu.Unlock()

	logger.Debug("presence joined")
}

func (m *PresenceManager) fail(h *PresenceHandle, logger *zap.Logger, err error) {
	h.mu.Lock()
	if h.state == HandlePending {
		h.state = HandleFailed
	}
	h.mu.Unlock()

	logger.Warn("presence handshake", zap.Error(fmt.Errorf("%w: %w", domain.ErrPresenceHandshake, err)))
}

// subscribe adds a reference to the cohort's shared transport subscription,
// opening it on first use. The returned release drops the reference; the
// subscription is cancelled and the cache cleared when the last one goes.
func (m *PresenceManager) subscribe(ctx context.Context, cohort domain.Cohort) (func(), error) {
	m.mu.Lock()
	state, shared := m.cohorts[cohort]
	if !shared {
		state = m.stateLocked(cohort)
	}
	state.refs++
	m.mu.Unlock()

	if shared {
		select {
		case <-state.ready:
		case <-ctx.Done():
			m.unref(cohort, state)
			return nil, ctx.Err()
		}
	} else {
		cancel, err := m.transport.Subscribe(ctx, cohort.Channel(), func(s domain.PresenceSnapshot) {
			m.reconcile(cohort, state, s)
		})
		m.mu.Lock()
		state.cancel, state.err = cancel, err
		if err != nil && m.cohorts[cohort] == state {
			delete(m.cohorts, cohort)
		}
		close(state.ready)
		m.mu.Unlock()
	}

	if state.err != nil {
		m.unref(cohort, state)
		return nil, state.err
	}

	var once sync.Once
	return func() {
		once.Do(func() { m.unref(cohort, state) })
	}, nil
}

func (m *PresenceManager) unref(cohort domain.Cohort, state *cohortState) {
	m.mu.Lock()
	state.refs--
	if state.refs > 0 {
		m.mu.Unlock()
		return
	}
	cancel := state.cancel
	state.cancel = nil
	changed := false
	if m.cohorts[cohort] == state {
		changed = m.countLocked(cohort) > 0
		delete(m.cohorts, cohort)
	}
	watchers := m.watchersLocked()
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if changed {
		notifyPresence(watchers, cohort, 0)
	}
}

func (m *PresenceManager) reconcile(cohort domain.Cohort, state *cohortState, snapshot domain.PresenceSnapshot) {
	m.mu.Lock()
	if m.cohorts[cohort] != state || state.refs <= 0 {
		m.mu.Unlock()
		return
	}

	before := m.countLocked(cohort)
	state.members = snapshot.Keys()
	for key, h := range state.withdrawn {
		if _, present := state.members[key]; !present && h.isSettled() {
			delete(state.withdrawn, key)
		}
	}
	after := m.countLocked(cohort)
	watchers := m.watchersLocked()
	m.mu.Unlock()

	if before != after {
		m.logger.Debug("presence count changed", zap.String("cohort", string(cohort)), zap.Int("count", after))
	}
	notifyPresence(watchers, cohort, after)
}

func (m *PresenceManager) withdraw(h *PresenceHandle) {
	m.mu.Lock()
	state, ok := m.cohorts[h.cohort]
	if !ok {
		m.mu.Unlock()
		return
	}
	before := m.countLocked(h.cohort)
	state.withdrawn[h.key] = h
	after := m.countLocked(h.cohort)
	watchers := m.watchersLocked()
	m.mu.Unlock()

	if before != after {
		notifyPresence(watchers, h.cohort, after)
	}
}

func (m *PresenceManager) stateLocked(cohort domain.Cohort) *cohortState {
	state, ok := m.cohorts[cohort]
	if !ok {
		state = &cohortState{
			members:   make(map[uuid.UUID]struct{}),
			withdrawn: make(map[uuid.UUID]*PresenceHandle),
			ready:     make(chan struct{}),
		}
		m.cohorts[cohort] = state
	}
	return state
}

func (m *PresenceManager) countLocked(cohort domain.Cohort) int {
	state, ok := m.cohorts[cohort]
	if !ok {
		return 0
	}
	n := 0
	for key := range state.members {
		if _, gone := state.withdrawn[key]; !gone {
			n++
		}
	}
	return n
}

func (m *PresenceManager) watchersLocked() []func(domain.Cohort, int) {
	out := make([]func(domain.Cohort, int), 0, len(m.watchers))
	for _, fn := range m.watchers {
		out = append(out, fn)
	}
	return out
}

func notifyPresence(watchers []func(domain.Cohort, int), cohort domain.Cohort, count int) {
	for _, fn := range watchers {
		fn(cohort, count)
	}
}
