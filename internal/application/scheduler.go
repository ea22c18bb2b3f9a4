package application

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/coder/quartz"
	"go.uber.org/zap"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

const (
	DefaultSyntheticMinInterval = 60 * time.Second
	DefaultSyntheticMaxInterval = 180 * time.Second
	DefaultSyntheticInitialMin  = 5 * time.Second
	DefaultSyntheticInitialMax  = 15 * time.Second
)

type SchedulerOptions struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	InitialMin  time.Duration
	InitialMax  time.Duration
	Seed        uint64
	Messages    []string
	Names       []string
}

func (o SchedulerOptions) withDefaults() SchedulerOptions {
	if o.MinInterval <= 0 {
		o.MinInterval = DefaultSyntheticMinInterval
	}
	if o.MaxInterval < o.MinInterval {
		o.MaxInterval = max(DefaultSyntheticMaxInterval, o.MinInterval)
	}
	if o.InitialMin <= 0 {
		o.InitialMin = DefaultSyntheticInitialMin
	}
	if o.InitialMax < o.InitialMin {
		o.InitialMax = max(DefaultSyntheticInitialMax, o.InitialMin)
	}
	if len(o.Messages) == 0 {
		o.Messages = defaultSyntheticMessages
	}
	if len(o.Names) == 0 {
		o.Names = defaultSyntheticNames
	}
	return o
}

// SyntheticScheduler emits locally generated encouragement messages at
// randomized intervals. Messages are drawn without repetition until the pool
// is exhausted, and the first draw of a new cycle never repeats the last draw
// of the previous one.
type SyntheticScheduler struct {
	clock  ports.Clock
	logger *zap.Logger
	opts   SchedulerOptions
	emit   func(domain.ChatMessage)

	// emitMu is held across a firing so Disable can wait out an in-flight emission.
	emitMu sync.Mutex

	mu         sync.Mutex
	rng        *rand.Rand
	used       map[int]struct{}
	last       int
	enabled    bool
	timer      *quartz.Timer
	generation uint64
	lastStamp  time.Time
}

func NewSyntheticScheduler(clock ports.Clock, logger *zap.Logger, opts SchedulerOptions, emit func(domain.ChatMessage)) *SyntheticScheduler {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	resolved := opts.withDefaults()
	if opts.MinInterval < 0 || (opts.MaxInterval != 0 && opts.MaxInterval != resolved.MaxInterval) {
		logger.Warn("synthetic interval out of range, using defaults",
			zap.Duration("min_interval", opts.MinInterval),
			zap.Duration("max_interval", opts.MaxInterval),
			zap.Duration("effective_min", resolved.MinInterval),
			zap.Duration("effective_max", resolved.MaxInterval))
	}
	opts = resolved

	return &SyntheticScheduler{
		clock:  clock,
		logger: logger,
		opts:   opts,
		emit:   emit,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		used:   make(map[int]struct{}, len(opts.Messages)),
		last:   -1,
	}
}

func (s *SyntheticScheduler) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return
	}

	s.enabled = true
	clear(s.used)
	s.generation++
	s.scheduleLocked(s.uniformLocked(s.opts.InitialMin, s.opts.InitialMax))
	s.logger.Debug("synthetic messages enabled")
}

// Disable cancels the pending emission. Once it returns no further message is emitted.
func (s *SyntheticScheduler) Disable() {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = false
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	// Wait out a fire that passed its generation check before we got the lock.
	s.emitMu.Lock()
	s.emitMu.Unlock()
	s.logger.Debug("synthetic messages disabled")
}

func (s *SyntheticScheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Draw returns the next pool index.
func (s *SyntheticScheduler) Draw() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawLocked()
}

func (s *SyntheticScheduler) UsedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.used)
}

func (s *SyntheticScheduler) fire(gen uint64) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if !s.enabled || gen != s.generation {
		s.mu.Unlock()
		return
	}
	msg := s.nextMessageLocked()
	s.scheduleLocked(s.uniformLocked(s.opts.MinInterval, s.opts.MaxInterval))
	s.mu.Unlock()

	if s.emit != nil {
		s.emit(msg)
	}
}

func (s *SyntheticScheduler) scheduleLocked(delay time.Duration) {
	gen := s.generation
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(gen) }, "synthetic")
}

func (s *SyntheticScheduler) nextMessageLocked() domain.ChatMessage {
	idx := s.drawLocked()
	name := s.opts.Names[s.rng.IntN(len(s.opts.Names))]

	stamp := s.clock.Now()
	if !stamp.After(s.lastStamp) {
		stamp = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = stamp

	return domain.ChatMessage{
		ID:          fmt.Sprintf("random-%d", stamp.UnixNano()),
		DisplayName: name,
		Text:        s.opts.Messages[idx],
		CreatedAt:   stamp,
		Origin:      domain.OriginSynthetic,
	}
}

func (s *SyntheticScheduler) drawLocked() int {
	n := len(s.opts.Messages)
	if n == 1 {
		s.last = 0
		return 0
	}

	freshCycle := len(s.used) == 0 && s.last >= 0
	for {
		idx := s.rng.IntN(n)
		if _, taken := s.used[idx]; taken {
			continue
		}
		if freshCycle && idx == s.last {
			continue
		}

		s.used[idx] = struct{}{}
		s.last = idx
		if len(s.used) >= n {
			clear(s.used)
		}
		return idx
	}
}

func (s *SyntheticScheduler) uniformLocked(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rng.Int64N(int64(hi-lo)+1))
}
