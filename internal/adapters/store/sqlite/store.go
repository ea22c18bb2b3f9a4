// Package sqlite persists chat messages in SQLite and turns inserts made by
// any process sharing the file into a live insert feed by polling.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bnema/focus-lounge/internal/adapters/sqlitedb"
	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

const DefaultPollInterval = time.Second

var _ ports.MessageStore = (*Store)(nil)

type Options struct {
	PollInterval time.Duration
}

type Store struct {
	sqlDB  *sql.DB
	clock  ports.Clock
	logger *zap.Logger
	opts   Options
}

func New(sqlDB *sql.DB, clock ports.Clock, logger *zap.Logger, opts Options) *Store {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &Store{
		sqlDB:  sqlDB,
		clock:  clock,
		logger: logger,
		opts:   opts,
	}
}

func (s *Store) Insert(ctx context.Context, draft domain.MessageDraft) (domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChatMessage{}, err
	}

	msg := domain.ChatMessage{
		ID:          uuid.NewString(),
		AuthorID:    draft.AuthorID,
		DisplayName: draft.DisplayName,
		Text:        draft.Text,
		CreatedAt:   sqlitedb.FromMillis(sqlitedb.ToMillis(s.clock.Now())),
		Origin:      domain.OriginRemote,
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO chat_messages (id, user_id, display_name, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.AuthorID, msg.DisplayName, msg.Text, sqlitedb.ToMillis(msg.CreatedAt),
	)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("insert chat message: %w", err)
	}

	return msg, nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, id, user_id, display_name, message, created_at
		   FROM chat_messages
		  ORDER BY created_at DESC, seq DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, s.fetchError("query recent messages", err)
	}
	msgs, _, err := scanMessages(rows)
	if err != nil {
		return nil, s.fetchError("scan recent messages", err)
	}
	slices.Reverse(msgs)

	return msgs, nil
}

// SubscribeInserts delivers rows inserted after the call, in insert order.
// The returned cancel blocks until no further fn call can happen, so fn must
// not call it.
func (s *Store) SubscribeInserts(ctx context.Context, fn func(domain.ChatMessage)) (func(), error) {
	var last int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM chat_messages`).Scan(&last); err != nil {
		return nil, fmt.Errorf("read insert cursor: %w", err)
	}

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	waiter := s.clock.TickerFunc(pollCtx, s.opts.PollInterval, func() error {
		msgs, cursor, err := s.since(pollCtx, last)
		if err != nil {
			if pollCtx.Err() == nil {
				s.logger.Warn("poll message inserts", zap.Error(err))
			}
			return nil
		}
		last = cursor
		for _, msg := range msgs {
			fn(msg)
		}
		return nil
	}, "chat", "poll")

	return func() {
		cancel()
		_ = waiter.Wait()
	}, nil
}

func (s *Store) since(ctx context.Context, cursor int64) ([]domain.ChatMessage, int64, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, id, user_id, display_name, message, created_at
		   FROM chat_messages
		  WHERE seq > ?
		  ORDER BY seq ASC`,
		cursor,
	)
	if err != nil {
		return nil, cursor, s.fetchError("query new messages", err)
	}
	msgs, maxSeq, err := scanMessages(rows)
	if err != nil {
		return nil, cursor, s.fetchError("scan new messages", err)
	}
	return msgs, max(cursor, maxSeq), nil
}

func (s *Store) fetchError(op string, err error) error {
	if sqlitedb.IsBusy(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransientFetch, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanMessages(rows *sql.Rows) ([]domain.ChatMessage, int64, error) {
	defer rows.Close()

	var (
		msgs   []domain.ChatMessage
		maxSeq int64
	)
	for rows.Next() {
		var (
			seq       int64
			msg       domain.ChatMessage
			createdAt int64
		)
		if err := rows.Scan(&seq, &msg.ID, &msg.AuthorID, &msg.DisplayName, &msg.Text, &createdAt); err != nil {
			return nil, 0, err
		}
		msg.CreatedAt = sqlitedb.FromMillis(createdAt)
		msg.Origin = domain.OriginRemote
		msgs = append(msgs, msg)
		maxSeq = max(maxSeq, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return msgs, maxSeq, nil
}
