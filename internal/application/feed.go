package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

const (
	DefaultPageSize    = 50
	DefaultMaxMessages = 200
)

type ChatFeedOptions struct {
	PageSize    int
	MaxMessages int
}

func (o ChatFeedOptions) withDefaults() ChatFeedOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxMessages <= 0 {
		o.MaxMessages = DefaultMaxMessages
	}
	if o.MaxMessages < o.PageSize {
		o.MaxMessages = o.PageSize
	}
	return o
}

type Notifier interface {
	Show(msg domain.ChatMessage)
}

// ChatFeed is the ordered, bounded list of messages shown to the user.
// History is loaded once; every later append is forwarded to the notifier.
type ChatFeed struct {
	store    ports.MessageStore
	notifier Notifier
	logger   *zap.Logger
	opts     ChatFeedOptions

	mu          sync.Mutex
	messages    []domain.ChatMessage
	ids         map[string]struct{}
	loading     bool
	initialized bool
	closed      bool
	pending     []domain.ChatMessage
	cancelSub   func()
	observers   map[uuid.UUID]func(domain.ChatMessage)
}

func NewChatFeed(store ports.MessageStore, notifier Notifier, logger *zap.Logger, opts ChatFeedOptions) *ChatFeed {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ChatFeed{
		store:     store,
		notifier:  notifier,
		logger:    logger,
		opts:      opts.withDefaults(),
		ids:       make(map[string]struct{}),
		observers: make(map[uuid.UUID]func(domain.ChatMessage)),
	}
}

// Initialize subscribes to inserts before fetching history so nothing
// inserted during the fetch is lost. Inserts that arrive while loading are
// held back and appended after history, skipping ids history already holds.
// A failed fetch leaves the feed empty and is not returned as an error.
func (f *ChatFeed) Initialize(ctx context.Context) []domain.ChatMessage {
	f.mu.Lock()
	if f.initialized || f.closed {
		f.mu.Unlock()
		return f.Messages()
	}
	f.initialized = true
	f.loading = true
	f.mu.Unlock()

	cancel, err := f.store.SubscribeInserts(ctx, f.OnRemoteInsert)
	if err != nil {
		f.logger.Warn("subscribe to message inserts", zap.Error(fmt.Errorf("%w: %w", domain.ErrSubscriptionDrop, err)))
	}

	history, err := f.store.Recent(ctx, f.opts.PageSize)
	if err != nil {
		f.logger.Warn("load chat history", zap.Error(fmt.Errorf("%w: %w", domain.ErrTransientFetch, err)))
		history = nil
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})
	if len(history) > f.opts.PageSize {
		history = history[len(history)-f.opts.PageSize:]
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return nil
	}
	f.cancelSub = cancel
	f.loading = false
	for _, msg := range history {
		msg.Origin = domain.OriginRemote
		f.appendLocked(msg)
	}
	held := f.pending
	f.pending = nil
	appended := make([]domain.ChatMessage, 0, len(held))
	for _, msg := range held {
		if f.appendLocked(msg) {
			appended = append(appended, msg)
		}
	}
	snapshot := f.copyLocked()
	f.mu.Unlock()

	f.logger.Debug("chat feed initialized", zap.Int("history", len(history)), zap.Int("buffered", len(appended)))
	for _, msg := range appended {
		f.forward(msg)
	}

	return snapshot
}

func (f *ChatFeed) OnRemoteInsert(msg domain.ChatMessage) {
	msg.Origin = domain.OriginRemote
	f.push(msg)
}

func (f *ChatFeed) OnSyntheticMessage(msg domain.ChatMessage) {
	msg.Origin = domain.OriginSynthetic
	f.push(msg)
}

// Send validates text and inserts it under the author's identity. The message
// reaches the feed through the insert subscription, not directly.
func (f *ChatFeed) Send(ctx context.Context, author domain.Profile, text string) (domain.ChatMessage, error) {
	normalized, err := domain.NormalizeMessageText(text)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	msg, err := f.store.Insert(ctx, author.Draft(normalized))
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("%w: insert message: %w", domain.ErrSendFailed, err)
	}

	return msg, nil
}

func (f *ChatFeed) Messages() []domain.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copyLocked()
}

func (f *ChatFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// Subscribe registers fn for every non-history append.
func (f *ChatFeed) Subscribe(fn func(domain.ChatMessage)) (cancel func()) {
	id := uuid.New()
	f.mu.Lock()
	f.observers[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.observers, id)
			f.mu.Unlock()
		})
	}
}

func (f *ChatFeed) Close() {
	f.mu.Lock()
	f.closed = true
	cancel := f.cancelSub
	f.cancelSub = nil
	clear(f.observers)
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (f *ChatFeed) push(msg domain.ChatMessage) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if f.loading {
		f.pending = append(f.pending, msg)
		f.mu.Unlock()
		return
	}
	appended := f.appendLocked(msg)
	f.mu.Unlock()

	if appended {
		f.forward(msg)
	}
}

func (f *ChatFeed) appendLocked(msg domain.ChatMessage) bool {
	if msg.ID != "" {
		if _, dup := f.ids[msg.ID]; dup {
			return false
		}
		f.ids[msg.ID] = struct{}{}
	}

	f.messages = append(f.messages, msg)
	if overflow := len(f.messages) - f.opts.MaxMessages; overflow > 0 {
		for _, evicted := range f.messages[:overflow] {
			delete(f.ids, evicted.ID)
		}
		f.messages = append([]domain.ChatMessage(nil), f.messages[overflow:]...)
	}
	return true
}

func (f *ChatFeed) copyLocked() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *ChatFeed) forward(msg domain.ChatMessage) {
	if f.notifier != nil {
		f.notifier.Show(msg)
	}

	f.mu.Lock()
	observers := make([]func(domain.ChatMessage), 0, len(f.observers))
	for _, fn := range f.observers {
		observers = append(observers, fn)
	}
	f.mu.Unlock()

	for _, fn := range observers {
		fn(msg)
	}
}
