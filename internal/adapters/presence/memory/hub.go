package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pubsub "github.com/bnema/focus-lounge/internal/adapters/pubsub/memory"
	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

var _ ports.PresenceTransport = (*Hub)(nil)

type member struct {
	Key      uuid.UUID `json:"key"`
	JoinedAt time.Time `json:"joined_at"`
}

type syncEvent struct {
	Channel string   `json:"channel"`
	Members []member `json:"members"`
}

// Hub is an in-process presence transport. It owns the membership of every
// channel and broadcasts a full sync event after each change.
// Subscriber callbacks must not call back into the hub.
type Hub struct {
	bus    *pubsub.Pubsub
	logger *zap.Logger

	mu       sync.Mutex
	channels map[string]map[uuid.UUID]time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Hub{
		bus:      pubsub.New(),
		logger:   logger,
		channels: make(map[string]map[uuid.UUID]time.Time),
	}
}

// Subscribe delivers the current membership before returning.
func (h *Hub) Subscribe(ctx context.Context, channel string, fn func(domain.PresenceSnapshot)) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cancel, err := h.bus.Subscribe(topic(channel), func(_ context.Context, message []byte) {
		var event syncEvent
		if err := json.Unmarshal(message, &event); err != nil {
			h.logger.Warn("decode presence sync", zap.String("channel", channel), zap.Error(err))
			return
		}
		fn(event.snapshot())
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe presence channel %s: %w", channel, err)
	}

	fn(h.syncLocked(channel).snapshot())
	return cancel, nil
}

func (h *Hub) Track(ctx context.Context, channel string, key uuid.UUID, payload domain.PresencePayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.channels[channel]
	if !ok {
		members = make(map[uuid.UUID]time.Time)
		h.channels[channel] = members
	}
	members[key] = payload.JoinedAt

	return h.broadcastLocked(channel)
}

func (h *Hub) Untrack(ctx context.Context, channel string, key uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.channels[channel]
	if _, ok := members[key]; !ok {
		return nil
	}
	delete(members, key)
	if len(members) == 0 {
		delete(h.channels, channel)
	}

	return h.broadcastLocked(channel)
}

func (h *Hub) Members(channel string) []domain.PresenceRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.syncLocked(channel).snapshot().Records
}

func (h *Hub) Close() error {
	return h.bus.Close()
}

func (h *Hub) broadcastLocked(channel string) error {
	message, err := json.Marshal(h.syncLocked(channel))
	if err != nil {
		return fmt.Errorf("encode presence sync: %w", err)
	}
	if err := h.bus.Publish(topic(channel), message); err != nil {
		return fmt.Errorf("publish presence sync %s: %w", channel, err)
	}
	return nil
}

func (h *Hub) syncLocked(channel string) syncEvent {
	event := syncEvent{Channel: channel, Members: make([]member, 0, len(h.channels[channel]))}
	for key, joinedAt := range h.channels[channel] {
		event.Members = append(event.Members, member{Key: key, JoinedAt: joinedAt})
	}
	sort.Slice(event.Members, func(i, j int) bool {
		return event.Members[i].JoinedAt.Before(event.Members[j].JoinedAt)
	})
	return event
}

func (e syncEvent) snapshot() domain.PresenceSnapshot {
	records := make([]domain.PresenceRecord, 0, len(e.Members))
	for _, m := range e.Members {
		records = append(records, domain.PresenceRecord{SessionKey: m.Key, JoinedAt: m.JoinedAt})
	}
	return domain.PresenceSnapshot{Channel: e.Channel, Records: records}
}

func topic(channel string) string {
	return "presence:" + channel
}
