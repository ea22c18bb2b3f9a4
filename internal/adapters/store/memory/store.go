package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pubsub "github.com/bnema/focus-lounge/internal/adapters/pubsub/memory"
	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

const insertEvent = "chat_messages:insert"

var _ ports.MessageStore = (*Store)(nil)

type row struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r row) message() domain.ChatMessage {
	return domain.ChatMessage{
		ID:          r.ID,
		AuthorID:    r.UserID,
		DisplayName: r.DisplayName,
		Text:        r.Message,
		CreatedAt:   r.CreatedAt,
		Origin:      domain.OriginRemote,
	}
}

// Store keeps messages in process and announces inserts on a pubsub bus.
type Store struct {
	clock  ports.Clock
	bus    *pubsub.Pubsub
	logger *zap.Logger

	mu   sync.Mutex
	rows []row
}

func NewStore(clock ports.Clock, logger *zap.Logger) *Store {
	if clock == nil {
		clock = ports.SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		clock:  clock,
		bus:    pubsub.New(),
		logger: logger,
	}
}

func (s *Store) Insert(ctx context.Context, draft domain.MessageDraft) (domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChatMessage{}, err
	}

	r := row{
		ID:          uuid.NewString(),
		UserID:      draft.AuthorID,
		DisplayName: draft.DisplayName,
		Message:     draft.Text,
		CreatedAt:   s.clock.Now().UTC(),
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("encode message row: %w", err)
	}

	s.mu.Lock()
	s.rows = append(s.rows, r)
	s.mu.Unlock()

	if err := s.bus.Publish(insertEvent, payload); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("publish message insert: %w", err)
	}

	return r.message(), nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if limit > 0 && len(s.rows) > limit {
		start = len(s.rows) - limit
	}
	out := make([]domain.ChatMessage, 0, len(s.rows)-start)
	for _, r := range s.rows[start:] {
		out = append(out, r.message())
	}
	return out, nil
}

func (s *Store) SubscribeInserts(ctx context.Context, fn func(domain.ChatMessage)) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cancel, err := s.bus.SubscribeWithErr(insertEvent, func(_ context.Context, payload []byte, err error) {
		if err != nil {
			s.logger.Warn("message insert subscription", zap.Error(fmt.Errorf("%w: %w", domain.ErrSubscriptionDrop, err)))
			return
		}
		var r row
		if err := json.Unmarshal(payload, &r); err != nil {
			s.logger.Warn("decode message insert", zap.Error(err))
			return
		}
		fn(r.message())
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe message inserts: %w", err)
	}
	return cancel, nil
}

func (s *Store) Close() error {
	return s.bus.Close()
}
