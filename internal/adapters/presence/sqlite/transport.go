// Package sqlite shares presence between processes through a SQLite table.
// Tracked sessions refresh a heartbeat; rows whose heartbeat is older than the
// TTL are expired by whichever subscriber polls next.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/focus-lounge/internal/adapters/sqlitedb"
	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

const (
	DefaultHeartbeat    = 10 * time.Second
	DefaultTTL          = 30 * time.Second
	DefaultPollInterval = 2 * time.Second
)

var _ ports.PresenceTransport = (*Transport)(nil)

type Options struct {
	Heartbeat    time.Duration
	TTL          time.Duration
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Heartbeat <= 0 {
		o.Heartbeat = DefaultHeartbeat
	}
	if o.TTL <= o.Heartbeat {
		o.TTL = max(DefaultTTL, 3*o.Heartbeat)
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}

type subscription struct {
	channel string
	fn      func(domain.PresenceSnapshot)

	mu        sync.Mutex
	signature string
	delivered bool
}

type Transport struct {
	sqlDB  *sql.DB
	clock  ports.Clock
	logger *zap.Logger
	opts   Options

	mu            sync.Mutex
	tracked       map[string]map[uuid.UUID]struct{}
	subs          map[uuid.UUID]*subscription
	stopHeartbeat func()
	closed        bool
}

func New(sqlDB *sql.DB, clock ports.Clock, logger *zap.Logger, opts Options) *Transport {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Transport{
		sqlDB:   sqlDB,
		clock:   clock,
		logger:  logger,
		opts:    opts.withDefaults(),
		tracked: make(map[string]map[uuid.UUID]struct{}),
		subs:    make(map[uuid.UUID]*subscription),
	}
}

// Subscribe delivers the current membership before returning, then polls.
func (t *Transport) Subscribe(ctx context.Context, channel string, fn func(domain.PresenceSnapshot)) (func(), error) {
	sub := &subscription{channel: channel, fn: fn}
	if err := t.refreshSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("subscribe presence channel %s: %w", channel, err)
	}

	id := uuid.New()
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, fmt.Errorf("subscribe presence channel %s: transport closed", channel)
	}
	t.subs[id] = sub
	t.mu.Unlock()

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	waiter := t.clock.TickerFunc(pollCtx, t.opts.PollInterval, func() error {
		if err := t.expire(pollCtx, channel); err != nil && pollCtx.Err() == nil {
			t.logger.Warn("expire stale presence", zap.String("channel", channel), zap.Error(err))
		}
		if err := t.refreshSubscription(pollCtx, sub); err != nil && pollCtx.Err() == nil {
			t.logger.Warn("poll presence", zap.String("channel", channel), zap.Error(err))
		}
		return nil
	}, "presence", "poll")

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			cancel()
			_ = waiter.Wait()
		})
	}, nil
}

func (t *Transport) Track(ctx context.Context, channel string, key uuid.UUID, payload domain.PresencePayload) error {
	now := sqlitedb.ToMillis(t.clock.Now())
	joinedAt := now
	if !payload.JoinedAt.IsZero() {
		joinedAt = sqlitedb.ToMillis(payload.JoinedAt)
	}

	_, err := t.sqlDB.ExecContext(ctx,
		`INSERT INTO presence_members (channel, session_key, joined_at, last_seen)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (channel, session_key) DO UPDATE SET last_seen = excluded.last_seen`,
		channel, key.String(), joinedAt, now,
	)
	if err != nil {
		return fmt.Errorf("track presence %s: %w", channel, err)
	}

	t.mu.Lock()
	keys, ok := t.tracked[channel]
	if !ok {
		keys = make(map[uuid.UUID]struct{})
		t.tracked[channel] = keys
	}
	keys[key] = struct{}{}
	t.ensureHeartbeatLocked()
	t.mu.Unlock()

	t.refreshChannel(ctx, channel)
	return nil
}

func (t *Transport) Untrack(ctx context.Context, channel string, key uuid.UUID) error {
	t.mu.Lock()
	delete(t.tracked[channel], key)
	if len(t.tracked[channel]) == 0 {
		delete(t.tracked, channel)
	}
	t.mu.Unlock()

	_, err := t.sqlDB.ExecContext(ctx,
		`DELETE FROM presence_members WHERE channel = ? AND session_key = ?`,
		channel, key.String(),
	)
	if err != nil {
		return fmt.Errorf("untrack presence %s: %w", channel, err)
	}

	t.refreshChannel(ctx, channel)
	return nil
}

// Members reads the live membership of channel, ignoring expired rows.
func (t *Transport) Members(ctx context.Context, channel string) ([]domain.PresenceRecord, error) {
	snapshot, err := t.load(ctx, channel)
	if err != nil {
		return nil, err
	}
	return snapshot.Records, nil
}

// Close stops the heartbeat and deletes every row this transport still tracks.
func (t *Transport) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	stop := t.stopHeartbeat
	t.stopHeartbeat = nil
	tracked := t.tracked
	t.tracked = make(map[string]map[uuid.UUID]struct{})
	t.mu.Unlock()

	if stop != nil {
		stop()
	}
	for channel, keys := range tracked {
		for key := range keys {
			if _, err := t.sqlDB.ExecContext(ctx,
				`DELETE FROM presence_members WHERE channel = ? AND session_key = ?`,
				channel, key.String(),
			); err != nil {
				return fmt.Errorf("remove tracked presence: %w", err)
			}
		}
	}
	return nil
}

func (t *Transport) ensureHeartbeatLocked() {
	if t.stopHeartbeat != nil || t.closed {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	waiter := t.clock.TickerFunc(ctx, t.opts.Heartbeat, func() error {
		t.beat(ctx)
		return nil
	}, "presence", "heartbeat")
	t.stopHeartbeat = func() {
		cancel()
		_ = waiter.Wait()
	}
}

func (t *Transport) beat(ctx context.Context) {
	t.mu.Lock()
	type entry struct {
		channel string
		key     uuid.UUID
	}
	var entries []entry
	for channel, keys := range t.tracked {
		for key := range keys {
			entries = append(entries, entry{channel: channel, key: key})
		}
	}
	t.mu.Unlock()

	now := sqlitedb.ToMillis(t.clock.Now())
	for _, e := range entries {
		if _, err := t.sqlDB.ExecContext(ctx,
			`UPDATE presence_members SET last_seen = ? WHERE channel = ? AND session_key = ?`,
			now, e.channel, e.key.String(),
		); err != nil && ctx.Err() == nil {
			t.logger.Warn("presence heartbeat", zap.String("channel", e.channel), zap.Error(err))
		}
	}
}

func (t *Transport) expire(ctx context.Context, channel string) error {
	cutoff := sqlitedb.ToMillis(t.clock.Now().Add(-t.opts.TTL))
	res, err := t.sqlDB.ExecContext(ctx,
		`DELETE FROM presence_members WHERE channel = ? AND last_seen < ?`,
		channel, cutoff,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		t.logger.Debug("expired stale presence", zap.String("channel", channel), zap.Int64("rows", n))
	}
	return nil
}

func (t *Transport) refreshChannel(ctx context.Context, channel string) {
	t.mu.Lock()
	var subs []*subscription
	for _, sub := range t.subs {
		if sub.channel == channel {
			subs = append(subs, sub)
		}
	}
	t.mu.Unlock()

	for _, sub := range subs {
		if err := t.refreshSubscription(ctx, sub); err != nil {
			t.logger.Warn("refresh presence", zap.String("channel", channel), zap.Error(err))
		}
	}
}

// refreshSubscription delivers a snapshot when membership differs from the
// last one the subscriber saw.
func (t *Transport) refreshSubscription(ctx context.Context, sub *subscription) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	snapshot, err := t.load(ctx, sub.channel)
	if err != nil {
		return err
	}
	signature := keySignature(snapshot)
	if sub.delivered && signature == sub.signature {
		return nil
	}
	sub.delivered = true
	sub.signature = signature
	sub.fn(snapshot)
	return nil
}

func (t *Transport) load(ctx context.Context, channel string) (domain.PresenceSnapshot, error) {
	cutoff := sqlitedb.ToMillis(t.clock.Now().Add(-t.opts.TTL))
	rows, err := t.sqlDB.QueryContext(ctx,
		`SELECT session_key, joined_at
		   FROM presence_members
		  WHERE channel = ? AND last_seen >= ?
		  ORDER BY joined_at ASC`,
		channel, cutoff,
	)
	if err != nil {
		return domain.PresenceSnapshot{}, fmt.Errorf("query presence %s: %w", channel, err)
	}
	defer rows.Close()

	snapshot := domain.PresenceSnapshot{Channel: channel}
	for rows.Next() {
		var (
			rawKey   string
			joinedAt int64
		)
		if err := rows.Scan(&rawKey, &joinedAt); err != nil {
			return domain.PresenceSnapshot{}, fmt.Errorf("scan presence %s: %w", channel, err)
		}
		key, err := uuid.Parse(rawKey)
		if err != nil {
			t.logger.Warn("skip malformed presence key", zap.String("key", rawKey), zap.Error(err))
			continue
		}
		snapshot.Records = append(snapshot.Records, domain.PresenceRecord{
			SessionKey: key,
			JoinedAt:   sqlitedb.FromMillis(joinedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return domain.PresenceSnapshot{}, fmt.Errorf("read presence %s: %w", channel, err)
	}
	return snapshot, nil
}

func keySignature(s domain.PresenceSnapshot) string {
	keys := make([]string, 0, len(s.Records))
	for key := range s.Keys() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
